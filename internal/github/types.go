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

import "time"

// Commit is a single entry of a ref's history together with the pull
// requests GitHub associates with it. Records are built fresh for every
// collection and never cached.
type Commit struct {
	ID            string       `json:"id"`
	CommittedDate time.Time    `json:"committed_date"`
	Message       string       `json:"message"`
	Author        CommitAuthor `json:"author"`

	// AssociatedPullRequests holds at most five entries, in the order GitHub
	// returns them.
	AssociatedPullRequests []PullRequest `json:"associated_pull_requests"`

	// Paths has one entry per requested include path, in request order.
	Paths []PathTouch `json:"paths,omitempty"`
}

// CommitAuthor is the git author of a commit. Login is empty when the author
// email is not linked to a GitHub account.
type CommitAuthor struct {
	Name  string `json:"name"`
	Login string `json:"login,omitempty"`
}

// PathTouch is the per-path signal for one commit. Touched counts the nodes of
// the path-scoped history anchored at the commit that are the commit itself,
// so it is 1 when the commit changed something under Path and 0 otherwise.
type PathTouch struct {
	Path    string `json:"path"`
	Touched int    `json:"touched"`
}

// PullRequest represents a pull request associated with a commit.
// URL and Body are only populated when the query asked for them.
type PullRequest struct {
	Number            int         `json:"number"`
	Title             string      `json:"title"`
	URL               string      `json:"url,omitempty"`
	Body              string      `json:"body,omitempty"`
	Author            Author      `json:"author"`
	BaseRepository    *Repository `json:"base_repository"`
	MergedAt          *time.Time  `json:"merged_at,omitempty"`
	IsCrossRepository bool        `json:"is_cross_repository"`
	Labels            []string    `json:"labels"`
}

// Author represents the author of a pull request. Login is empty for deleted
// ("ghost") accounts.
type Author struct {
	Login string `json:"login"`
}

// Repository identifies a repository by its fully qualified owner/name.
type Repository struct {
	NameWithOwner string `json:"name_with_owner"`
}

// Release is a published GitHub release. CreatedAt doubles as the lower
// bound when collecting commits since the release.
type Release struct {
	TagName    string    `json:"tag_name"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	Draft      bool      `json:"draft"`
	Prerelease bool      `json:"prerelease"`
}

// VersionStrings returns the strings a release may carry a version in,
// most authoritative first.
func (r Release) VersionStrings() []string {
	return []string{r.TagName, r.Name}
}

// HistoryOptions configures one page of a history fetch.
type HistoryOptions struct {
	// Ref is any commit-ish expression: a branch, tag or SHA.
	Ref string

	// Since is an inclusive lower bound on committed dates. Nil walks the
	// whole history.
	Since *time.Time

	// IncludePaths adds a per-path touch signal to every commit.
	IncludePaths []string

	WithPullRequestBody bool
	WithPullRequestURL  bool

	// PageSize is the number of commits per page. Defaults to 100, GitHub's
	// maximum.
	PageSize int

	// After is the cursor for pagination. Empty fetches the first page.
	After string
}

// CommitPage is one page of a history walk.
type CommitPage struct {
	TotalCount  int
	Commits     []Commit
	HasNextPage bool
	EndCursor   string
}

// Page size limits for history queries.
const (
	defaultPageSize = 100
	minPageSize     = 5
)
