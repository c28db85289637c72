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

// Package metadata records statistics about collection runs: pages and API
// calls made, page size reductions, how many commits were fetched and kept,
// and the pull request range. Records are saved as JSON files so repeated
// runs against a repository can be compared.
package metadata

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/github"
	"github.com/sirseerhq/sirseer-notes/internal/history"
)

const (
	// MethodVersion identifies the history query shape.
	MethodVersion = "graphql-history-v1"

	filePattern = "collect-metadata-*.json"
)

// Tracker collects statistics during a collection. It implements
// history.Observer so a Fetcher can report pages to it directly.
type Tracker struct {
	mu        sync.Mutex
	startTime time.Time
	results   CollectionResults
}

var _ history.Observer = (*Tracker)(nil)

// New creates a tracker started now.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// PageFetched records a successful page request.
func (t *Tracker) PageFetched(page, fetched, _ int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results.APICallCount++
	t.results.PagesFetched = page
	t.results.CommitsFetched = fetched
}

// PageSizeReduced records a request rejected as too complex and the page
// size the next attempt uses.
func (t *Tracker) PageSizeReduced(pageSize int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results.APICallCount++
	t.results.PageSizeReductions++
	t.results.FinalPageSize = pageSize
}

// IncrementAPICall records a request made outside the history walk, such
// as the release lookup.
func (t *Tracker) IncrementAPICall() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.results.APICallCount++
}

// RecordResult records what survived filtering and aggregation.
func (t *Tracker) RecordResult(result *history.Result) {
	if result == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	r := &t.results
	r.CommitsKept = len(result.Commits)
	for _, c := range result.Commits {
		if r.OldestCommit.IsZero() || c.CommittedDate.Before(r.OldestCommit) {
			r.OldestCommit = c.CommittedDate
		}
		if c.CommittedDate.After(r.NewestCommit) {
			r.NewestCommit = c.CommittedDate
		}
	}

	r.PullRequests = len(result.PullRequests)
	for _, pr := range result.PullRequests {
		if r.FirstPR == 0 || pr.Number < r.FirstPR {
			r.FirstPR = pr.Number
		}
		if pr.Number > r.LastPR {
			r.LastPR = pr.Number
		}
	}
}

// GenerateMetadata builds the record for a finished collection. A nil
// lastRelease marks an unbounded collection.
func (t *Tracker) GenerateMetadata(notesVersion string, params CollectionParams, lastRelease *github.Release) *CollectionMetadata {
	t.mu.Lock()
	defer t.mu.Unlock()

	completedAt := time.Now()
	results := t.results
	results.StartedAt = t.startTime
	results.CompletedAt = completedAt
	results.Duration = completedAt.Sub(t.startTime).String()
	if results.FinalPageSize == 0 {
		results.FinalPageSize = params.PageSize
	}

	m := &CollectionMetadata{
		NotesVersion:  notesVersion,
		MethodVersion: MethodVersion,
		CollectionID:  fmt.Sprintf("%s-%d", collectionType(lastRelease != nil), t.startTime.Unix()),
		Parameters:    params,
		Results:       results,
		Bounded:       lastRelease != nil,
	}
	if lastRelease != nil {
		m.LastRelease = &ReleaseRef{TagName: lastRelease.TagName, CreatedAt: lastRelease.CreatedAt}
		if m.Parameters.Since == nil {
			since := lastRelease.CreatedAt
			m.Parameters.Since = &since
		}
	}
	return m
}

// SaveMetadata writes metadata to dir as collect-metadata-{unix start}.json.
// The file is written to a temporary name and renamed into place.
func SaveMetadata(metadata *CollectionMetadata, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create metadata directory: %w", err)
	}

	filename := fmt.Sprintf("collect-metadata-%d.json", metadata.Results.StartedAt.Unix())
	path := filepath.Join(dir, filename)

	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return "", fmt.Errorf("failed to create metadata file: %w", err)
	}

	if err := WriteMetadataToWriter(metadata, file); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return "", fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return "", fmt.Errorf("failed to save metadata file: %w", err)
	}

	return path, nil
}

// LoadLatestMetadata returns the most recent record in dir for repo
// ("owner/repo"), or nil if there is none.
func LoadLatestMetadata(dir, repo string) (*CollectionMetadata, error) {
	files, err := filepath.Glob(filepath.Join(dir, filePattern))
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	var latest *CollectionMetadata
	for _, file := range files {
		m, err := readMetadata(file)
		if err != nil {
			return nil, err
		}
		if m.Parameters.Owner+"/"+m.Parameters.Repository != repo {
			continue
		}
		if latest == nil || m.Results.StartedAt.After(latest.Results.StartedAt) {
			latest = m
		}
	}
	return latest, nil
}

func readMetadata(path string) (*CollectionMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var m CollectionMetadata
	if err := json.NewDecoder(file).Decode(&m); err != nil {
		return nil, fmt.Errorf("failed to parse metadata %s: %w", path, err)
	}
	return &m, nil
}

// WriteMetadataToWriter writes metadata to w as indented JSON.
func WriteMetadataToWriter(metadata *CollectionMetadata, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(metadata)
}

func collectionType(bounded bool) string {
	if bounded {
		return "since-release"
	}
	return "full"
}
