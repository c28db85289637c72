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

package github

import (
	"context"
	"fmt"
	"strconv"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
)

// MockClient is an in-memory Client and ReleaseLister for tests. History is
// served from Commits, most recent first, honouring Since, After and
// PageSize the way GitHub does.
type MockClient struct {
	// Commits is the full history of the ref, most recent first.
	Commits []Commit

	// Releases is returned by ListReleases.
	Releases []Release

	// Error, if set, is returned by every call.
	Error error

	// FailAfterPages makes calls fail with Error once this many pages were
	// served. Zero fails immediately when Error is set.
	FailAfterPages int

	// Behavior flags
	ShouldFailAuth    bool
	ShouldFailNetwork bool

	// Track calls for verification
	CallCount int
	LastOwner string
	LastRepo  string
	LastOpts  HistoryOptions
	Calls     []HistoryOptions
}

// NewMockClient creates a mock serving commits.
func NewMockClient(commits ...Commit) *MockClient {
	return &MockClient{Commits: commits}
}

// FetchCommitHistory implements the Client interface.
func (m *MockClient) FetchCommitHistory(ctx context.Context, owner, repo string, opts HistoryOptions) (*CommitPage, error) {
	m.CallCount++
	m.LastOwner = owner
	m.LastRepo = repo
	m.LastOpts = opts
	m.Calls = append(m.Calls, opts)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}
	if m.ShouldFailNetwork {
		return nil, fmt.Errorf("network timeout: %w", relaierrors.ErrNetworkFailure)
	}
	if m.Error != nil && m.CallCount > m.FailAfterPages {
		return nil, m.Error
	}

	var matching []Commit
	for _, c := range m.Commits {
		if opts.Since != nil && c.CommittedDate.Before(*opts.Since) {
			continue
		}
		matching = append(matching, withPaths(c, opts.IncludePaths))
	}

	start := 0
	if opts.After != "" {
		n, err := strconv.Atoi(opts.After)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor %q", opts.After)
		}
		start = n
	}
	size := opts.PageSize
	if size <= 0 {
		size = defaultPageSize
	}
	end := start + size
	if end > len(matching) {
		end = len(matching)
	}
	if start > end {
		start = end
	}

	return &CommitPage{
		TotalCount:  len(matching),
		Commits:     matching[start:end],
		HasNextPage: end < len(matching),
		EndCursor:   strconv.Itoa(end),
	}, nil
}

// withPaths fills in a zero signal for requested paths the fixture did not
// mention, as GitHub returns an empty history for untouched paths.
func withPaths(c Commit, paths []string) Commit {
	if len(paths) == 0 {
		return c
	}
	touched := make(map[string]int, len(c.Paths))
	for _, p := range c.Paths {
		touched[p.Path] = p.Touched
	}
	out := c
	out.Paths = make([]PathTouch, len(paths))
	for i, p := range paths {
		out.Paths[i] = PathTouch{Path: p, Touched: touched[p]}
	}
	return out
}

// ListReleases implements the ReleaseLister interface.
func (m *MockClient) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.ShouldFailAuth {
		return nil, fmt.Errorf("authentication failed: %w", relaierrors.ErrInvalidToken)
	}
	if m.Error != nil && m.FailAfterPages == 0 {
		return nil, m.Error
	}
	return m.Releases, nil
}

// FixtureCommit builds a commit fixture. touchedPaths lists the paths the
// commit changed.
func FixtureCommit(id string, committed time.Time, prs []PullRequest, touchedPaths ...string) Commit {
	c := Commit{
		ID:                     id,
		CommittedDate:          committed,
		Message:                "commit " + id,
		Author:                 CommitAuthor{Name: "Test Author", Login: "tester"},
		AssociatedPullRequests: prs,
	}
	for _, p := range touchedPaths {
		c.Paths = append(c.Paths, PathTouch{Path: p, Touched: 1})
	}
	return c
}

// FixturePullRequest builds a pull request fixture based in nameWithOwner.
func FixturePullRequest(number int, nameWithOwner string) PullRequest {
	return PullRequest{
		Number:         number,
		Title:          fmt.Sprintf("Change %d", number),
		Author:         Author{Login: "contributor"},
		BaseRepository: &Repository{NameWithOwner: nameWithOwner},
		Labels:         []string{},
	}
}
