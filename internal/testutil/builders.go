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

package testutil

import (
	"fmt"
	"time"
)

// PullRequestBuilder provides a fluent API for creating associated pull
// request nodes as the history query returns them.
type PullRequestBuilder struct {
	number            int
	title             string
	body              string
	author            string
	baseRepository    string
	omitBase          bool
	mergedAt          *time.Time
	isCrossRepository bool
	labels            []string
}

// NewPullRequestBuilder creates a new PR builder targeting baseRepository.
func NewPullRequestBuilder(number int, baseRepository string) *PullRequestBuilder {
	merged := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(number) * time.Hour)
	return &PullRequestBuilder{
		number:         number,
		title:          fmt.Sprintf("PR %d", number),
		body:           fmt.Sprintf("This is the body of PR %d", number),
		author:         fmt.Sprintf("user%d", number),
		baseRepository: baseRepository,
		mergedAt:       &merged,
	}
}

// WithTitle sets the PR title
func (b *PullRequestBuilder) WithTitle(title string) *PullRequestBuilder {
	b.title = title
	return b
}

// WithBody sets the PR body
func (b *PullRequestBuilder) WithBody(body string) *PullRequestBuilder {
	b.body = body
	return b
}

// WithAuthor sets the PR author. An empty login produces a null author.
func (b *PullRequestBuilder) WithAuthor(author string) *PullRequestBuilder {
	b.author = author
	return b
}

// WithoutBaseRepository drops baseRepository from the node.
func (b *PullRequestBuilder) WithoutBaseRepository() *PullRequestBuilder {
	b.omitBase = true
	return b
}

// CrossRepository marks the PR as opened from a fork.
func (b *PullRequestBuilder) CrossRepository() *PullRequestBuilder {
	b.isCrossRepository = true
	return b
}

// Unmerged clears mergedAt.
func (b *PullRequestBuilder) Unmerged() *PullRequestBuilder {
	b.mergedAt = nil
	return b
}

// WithLabels sets the PR labels
func (b *PullRequestBuilder) WithLabels(labels ...string) *PullRequestBuilder {
	b.labels = labels
	return b
}

// Build creates the PR node. url and body are present only when the
// corresponding @include variable would be true.
func (b *PullRequestBuilder) Build(withURL, withBody bool) map[string]interface{} {
	labels := make([]map[string]interface{}, len(b.labels))
	for i, label := range b.labels {
		labels[i] = map[string]interface{}{"name": label}
	}

	pr := map[string]interface{}{
		"title":             b.title,
		"number":            b.number,
		"isCrossRepository": b.isCrossRepository,
		"labels":            map[string]interface{}{"nodes": labels},
		"author":            nil,
		"baseRepository":    map[string]interface{}{"nameWithOwner": b.baseRepository},
		"mergedAt":          nil,
	}
	if b.author != "" {
		pr["author"] = map[string]interface{}{"login": b.author}
	}
	if b.omitBase {
		pr["baseRepository"] = nil
	}
	if b.mergedAt != nil {
		pr["mergedAt"] = b.mergedAt.Format(time.RFC3339)
	}
	if withURL {
		pr["url"] = fmt.Sprintf("https://github.com/%s/pull/%d", b.baseRepository, b.number)
	}
	if withBody {
		pr["body"] = b.body
	}
	return pr
}

// CommitBuilder provides a fluent API for creating history commit nodes.
type CommitBuilder struct {
	ID            string
	CommittedDate time.Time
	message       string
	authorName    string
	login         string
	prs           []*PullRequestBuilder
	touched       map[string]bool
}

// NewCommitBuilder creates a commit with the given id and committed date.
func NewCommitBuilder(id string, committed time.Time) *CommitBuilder {
	return &CommitBuilder{
		ID:            id,
		CommittedDate: committed,
		message:       "Commit " + id,
		authorName:    "Test Author",
		login:         "tester",
		touched:       map[string]bool{},
	}
}

// WithMessage sets the commit message
func (b *CommitBuilder) WithMessage(msg string) *CommitBuilder {
	b.message = msg
	return b
}

// WithAuthor sets the git author; an empty login means the email is not
// linked to a GitHub account.
func (b *CommitBuilder) WithAuthor(name, login string) *CommitBuilder {
	b.authorName = name
	b.login = login
	return b
}

// WithPullRequests associates pull requests with the commit.
func (b *CommitBuilder) WithPullRequests(prs ...*PullRequestBuilder) *CommitBuilder {
	b.prs = append(b.prs, prs...)
	return b
}

// Touching marks paths the commit changed.
func (b *CommitBuilder) Touching(paths ...string) *CommitBuilder {
	for _, p := range paths {
		b.touched[p] = true
	}
	return b
}

// Touches reports whether the commit changed path.
func (b *CommitBuilder) Touches(path string) bool {
	return b.touched[path]
}

// Build creates the commit node, including one pathN alias per entry of
// paths. An untouched path yields the id of some older commit, as the real
// path history anchored at this commit would.
func (b *CommitBuilder) Build(paths []string, withURL, withBody bool) map[string]interface{} {
	prs := make([]map[string]interface{}, len(b.prs))
	for i, pr := range b.prs {
		prs[i] = pr.Build(withURL, withBody)
	}

	author := map[string]interface{}{"name": b.authorName, "user": nil}
	if b.login != "" {
		author["user"] = map[string]interface{}{"login": b.login}
	}

	node := map[string]interface{}{
		"id":                     b.ID,
		"committedDate":          b.CommittedDate.UTC().Format(time.RFC3339),
		"message":                b.message,
		"author":                 author,
		"associatedPullRequests": map[string]interface{}{"nodes": prs},
	}
	for i, p := range paths {
		id := "older-than-" + b.ID
		if b.touched[p] {
			id = b.ID
		}
		node[fmt.Sprintf("path%d", i)] = map[string]interface{}{
			"nodes": []map[string]interface{}{{"id": id}},
		}
	}
	return node
}

// HistoryResponse wraps commit nodes in the repository/object/history
// envelope of the history query.
func HistoryResponse(nodes []map[string]interface{}, totalCount int, hasNext bool, cursor string) map[string]interface{} {
	if nodes == nil {
		nodes = []map[string]interface{}{}
	}
	return map[string]interface{}{
		"data": map[string]interface{}{
			"repository": map[string]interface{}{
				"object": map[string]interface{}{
					"history": map[string]interface{}{
						"totalCount": totalCount,
						"pageInfo": map[string]interface{}{
							"hasNextPage": hasNext,
							"endCursor":   cursor,
						},
						"nodes": nodes,
					},
				},
			},
		},
	}
}

// ErrorResponse builds a GraphQL error response with a null data field.
func ErrorResponse(messages ...string) map[string]interface{} {
	errs := make([]map[string]interface{}, len(messages))
	for i, m := range messages {
		errs[i] = map[string]interface{}{"message": m}
	}
	return map[string]interface{}{
		"data":   nil,
		"errors": errs,
	}
}

// ReleaseBuilder builds REST release objects.
type ReleaseBuilder struct {
	tagName    string
	name       string
	createdAt  time.Time
	draft      bool
	prerelease bool
}

// NewReleaseBuilder creates a published release.
func NewReleaseBuilder(tag string, created time.Time) *ReleaseBuilder {
	return &ReleaseBuilder{tagName: tag, name: tag, createdAt: created}
}

// WithName sets the release title
func (b *ReleaseBuilder) WithName(name string) *ReleaseBuilder {
	b.name = name
	return b
}

// Draft marks the release as a draft
func (b *ReleaseBuilder) Draft() *ReleaseBuilder {
	b.draft = true
	return b
}

// Prerelease marks the release as a pre-release
func (b *ReleaseBuilder) Prerelease() *ReleaseBuilder {
	b.prerelease = true
	return b
}

// Build creates the REST representation.
func (b *ReleaseBuilder) Build() map[string]interface{} {
	return map[string]interface{}{
		"tag_name":   b.tagName,
		"name":       b.name,
		"created_at": b.createdAt.UTC().Format(time.RFC3339),
		"draft":      b.draft,
		"prerelease": b.prerelease,
	}
}
