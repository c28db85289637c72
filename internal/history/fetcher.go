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

package history

import (
	"context"
	"fmt"
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/github"
	"github.com/sirseerhq/sirseer-notes/internal/log"
)

// Request describes one collection: which history to walk and what to keep.
type Request struct {
	Owner string
	Repo  string
	Ref   string

	// LastRelease bounds the walk to commits since the release was
	// created. Nil walks the whole history of Ref.
	LastRelease *github.Release

	// IncludePaths restricts the result to commits touching at least one
	// of these path prefixes. Empty keeps every commit.
	IncludePaths []string

	WithPullRequestBody bool
	WithPullRequestURL  bool
}

// Result is the data a release-note renderer consumes.
type Result struct {
	Commits      []github.Commit      `json:"commits"`
	PullRequests []github.PullRequest `json:"pull_requests"`
}

// Observer is notified about pagination progress.
type Observer interface {
	PageFetched(page, fetched, total int)
	PageSizeReduced(pageSize int)
}

// Fetcher collects commits and pull requests through a github.Client.
// It keeps no state between calls.
type Fetcher struct {
	client   github.Client
	logger   *log.Logger
	pageSize int
	observer Observer
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// WithPageSize sets the initial number of commits per page.
func WithPageSize(n int) Option {
	return func(f *Fetcher) { f.pageSize = n }
}

// WithObserver registers a pagination observer.
func WithObserver(o Observer) Option {
	return func(f *Fetcher) { f.observer = o }
}

// NewFetcher creates a Fetcher over client.
func NewFetcher(client github.Client, opts ...Option) *Fetcher {
	f := &Fetcher{client: client}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = log.Nop()
	}
	return f
}

// FetchCommits returns the history of req.Ref, most recent commit first.
//
// With a LastRelease the walk starts at the release's creation time. GitHub
// treats that bound as inclusive, so a commit dated exactly at the release
// is dropped. A bounded walk is best effort: if it fails the error is
// logged and an empty history is returned. An unbounded walk returns the
// error.
func (f *Fetcher) FetchCommits(ctx context.Context, req Request) ([]github.Commit, error) {
	opts := github.HistoryOptions{
		Ref:                 req.Ref,
		IncludePaths:        req.IncludePaths,
		WithPullRequestBody: req.WithPullRequestBody,
		WithPullRequestURL:  req.WithPullRequestURL,
	}

	msg := fmt.Sprintf("Fetching all commits for reference %s", req.Ref)
	if req.LastRelease != nil {
		since := req.LastRelease.CreatedAt
		opts.Since = &since
		msg = fmt.Sprintf("Fetching all commits for reference %s since %s",
			req.Ref, since.UTC().Format(time.RFC3339))
	}
	f.logger.Info(ctx, msg)

	pagination := github.PaginateOptions{PageSize: f.pageSize}
	if f.observer != nil {
		pagination.OnPage = f.observer.PageFetched
		pagination.OnShrink = f.observer.PageSizeReduced
	}

	commits, err := github.Paginate(ctx, github.HistoryPages(f.client, req.Owner, req.Repo, opts), pagination)
	if err != nil {
		if req.LastRelease == nil {
			return nil, err
		}
		f.logger.Warn(ctx, fmt.Sprintf("Could not fetch commits since %s, continuing without them",
			req.LastRelease.TagName), err)
		return []github.Commit{}, nil
	}

	if req.LastRelease != nil {
		commits = excludeBoundary(commits, req.LastRelease.CreatedAt)
	}
	return commits, nil
}

// excludeBoundary drops commits dated exactly at boundary, in place.
func excludeBoundary(commits []github.Commit, boundary time.Time) []github.Commit {
	kept := commits[:0]
	for _, c := range commits {
		if c.CommittedDate.Equal(boundary) {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// FindCommitsWithPullRequests fetches the history described by req, keeps
// the commits touching req.IncludePaths and collects the pull requests of
// those commits that were merged into req.Owner/req.Repo.
func (f *Fetcher) FindCommitsWithPullRequests(ctx context.Context, req Request) (*Result, error) {
	ctx = log.WithFields(ctx, "repo", req.Owner+"/"+req.Repo, "ref", req.Ref)

	commits, err := f.FetchCommits(ctx, req)
	if err != nil {
		return nil, err
	}

	commits, err = FilterByPaths(commits, req.IncludePaths)
	if err != nil {
		return nil, err
	}

	prs, err := AggregatePullRequests(commits, req.Owner, req.Repo)
	if err != nil {
		return nil, err
	}

	f.logger.Debug(ctx, fmt.Sprintf("Collected %d commits and %d pull requests", len(commits), len(prs)))
	return &Result{Commits: commits, PullRequests: prs}, nil
}
