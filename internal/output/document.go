// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/sirseerhq/sirseer-notes/internal/github"
)

// Document is the single JSON object written by DocumentWriter.
type Document struct {
	LastRelease  *github.Release      `json:"last_release"`
	Commits      []github.Commit      `json:"commits"`
	PullRequests []github.PullRequest `json:"pull_requests"`
}

// DocumentWriter collects records and writes them as one indented Document
// when closed.
type DocumentWriter struct {
	mu        sync.Mutex
	output    io.Writer
	doc       Document
	closed    bool
	closeFunc func() error
}

// NewDocumentWriter creates a writer that emits its document to w on Close.
func NewDocumentWriter(w io.Writer) *DocumentWriter {
	return &DocumentWriter{
		output: w,
		doc: Document{
			Commits:      []github.Commit{},
			PullRequests: []github.PullRequest{},
		},
	}
}

// Write adds a record to the document. It accepts the record types of
// this package and their bare github counterparts.
func (d *DocumentWriter) Write(record any) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return errors.New("failed to write record: document already written")
	}

	switch r := record.(type) {
	case CommitRecord:
		d.doc.Commits = append(d.doc.Commits, r.Commit)
	case github.Commit:
		d.doc.Commits = append(d.doc.Commits, r)
	case PullRequestRecord:
		d.doc.PullRequests = append(d.doc.PullRequests, r.PullRequest)
	case github.PullRequest:
		d.doc.PullRequests = append(d.doc.PullRequests, r)
	case ReleaseRecord:
		rel := r.Release
		d.doc.LastRelease = &rel
	case github.Release:
		d.doc.LastRelease = &r
	default:
		return fmt.Errorf("failed to write record: unsupported type %T", record)
	}
	return nil
}

// Count returns the number of commits and pull requests collected so far.
func (d *DocumentWriter) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.doc.Commits) + len(d.doc.PullRequests)
}

// Close writes the document and closes the destination if it is a file.
// Only the first call writes.
func (d *DocumentWriter) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	enc := newEncoder(d.output)
	enc.SetIndent("", "  ")
	err := enc.Encode(d.doc)
	if err != nil {
		err = fmt.Errorf("failed to write document: %w", err)
	}

	if d.closeFunc != nil {
		if cerr := d.closeFunc(); err == nil {
			err = cerr
		}
	}
	return err
}
