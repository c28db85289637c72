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

import "context"

// Client fetches commit history pages.
// This interface allows for easy mocking in tests.
type Client interface {
	// FetchCommitHistory retrieves one page of the history of opts.Ref,
	// most recent commit first. Subsequent pages are requested by passing
	// the previous page's EndCursor as opts.After.
	FetchCommitHistory(ctx context.Context, owner, repo string, opts HistoryOptions) (*CommitPage, error)
}

// ReleaseLister lists the releases of a repository.
type ReleaseLister interface {
	ListReleases(ctx context.Context, owner, repo string) ([]Release, error)
}
