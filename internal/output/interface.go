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
	"fmt"
	"io"
	"os"

	"github.com/sirseerhq/sirseer-notes/internal/github"
	"github.com/sirseerhq/sirseer-notes/internal/history"
)

// Output formats accepted by Open.
const (
	FormatNDJSON = "ndjson"
	FormatJSON   = "json"
)

// OutputWriter is a sink for collection records.
type OutputWriter interface {
	// Write writes a single record.
	Write(record any) error

	// Close flushes buffered records and releases the destination.
	Close() error
}

// RecordType tags each streamed record with what it describes.
type RecordType string

const (
	TypeCommit      RecordType = "commit"
	TypePullRequest RecordType = "pull_request"
	TypeRelease     RecordType = "release"
)

// CommitRecord is a commit in the output stream.
type CommitRecord struct {
	Type RecordType `json:"type"`
	github.Commit
}

// PullRequestRecord is a pull request in the output stream.
type PullRequestRecord struct {
	Type RecordType `json:"type"`
	github.PullRequest
}

// ReleaseRecord is the release that bounded the collection.
type ReleaseRecord struct {
	Type RecordType `json:"type"`
	github.Release
}

// NewCommitRecord wraps c as a typed record.
func NewCommitRecord(c github.Commit) CommitRecord {
	return CommitRecord{Type: TypeCommit, Commit: c}
}

// NewPullRequestRecord wraps pr as a typed record.
func NewPullRequestRecord(pr github.PullRequest) PullRequestRecord {
	return PullRequestRecord{Type: TypePullRequest, PullRequest: pr}
}

// NewReleaseRecord wraps r as a typed record.
func NewReleaseRecord(r github.Release) ReleaseRecord {
	return ReleaseRecord{Type: TypeRelease, Release: r}
}

// WriteResult writes the commits of result, then its pull requests, in
// collection order.
func WriteResult(w OutputWriter, result *history.Result) error {
	if result == nil {
		return nil
	}
	for _, c := range result.Commits {
		if err := w.Write(NewCommitRecord(c)); err != nil {
			return err
		}
	}
	for _, pr := range result.PullRequests {
		if err := w.Write(NewPullRequestRecord(pr)); err != nil {
			return err
		}
	}
	return nil
}

// New returns a writer for format on w. Closing it does not close w.
func New(format string, w io.Writer) (OutputWriter, error) {
	switch format {
	case FormatNDJSON, "":
		return NewWriter(w), nil
	case FormatJSON:
		return NewDocumentWriter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want ndjson or json)", format)
	}
}

// Open returns a writer for format on path, or on stdout when path is
// empty or "-". Closing it closes the file.
func Open(format, path string) (OutputWriter, error) {
	if path == "" || path == "-" {
		return New(format, os.Stdout)
	}
	if _, err := New(format, io.Discard); err != nil {
		return nil, err
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	if format == FormatJSON {
		d := NewDocumentWriter(file)
		d.closeFunc = file.Close
		return d, nil
	}
	return &Writer{
		output:    file,
		encoder:   newEncoder(file),
		closeFunc: file.Close,
	}, nil
}
