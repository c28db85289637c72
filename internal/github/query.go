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
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
)

// GitTimestamp is GitHub's ISO-8601 timestamp scalar. shurcooL/graphql
// declares variables by Go type name, so the name must match the schema.
type GitTimestamp string

type pageInfo struct {
	HasNextPage graphql.Boolean
	EndCursor   graphql.String
}

// pullRequestNode mirrors the pull request selection of the history query.
// url and body are aliased to themselves so the directive does not end up
// in the name shurcooL/graphql matches response keys against.
type pullRequestNode struct {
	Title  graphql.String
	Number graphql.Int
	URL    *graphql.String `graphql:"url: url @include(if: $withPullRequestURL)"`
	Body   *graphql.String `graphql:"body: body @include(if: $withPullRequestBody)"`
	Author *struct {
		Login graphql.String
	}
	BaseRepository *struct {
		NameWithOwner graphql.String
	}
	MergedAt          *time.Time
	IsCrossRepository graphql.Boolean
	Labels            struct {
		Nodes []struct {
			Name graphql.String
		}
	} `graphql:"labels(first: 10)"`
}

type commitNode struct {
	ID            graphql.String `graphql:"id"`
	CommittedDate time.Time
	Message       graphql.String
	Author        *struct {
		Name graphql.String
		User *struct {
			Login graphql.String
		}
	}
	AssociatedPullRequests struct {
		Nodes []pullRequestNode
	} `graphql:"associatedPullRequests(first: 5)"`
}

// pathHistory is the path-scoped history anchored at one commit. Its first
// node is the most recent commit at or before the anchor that touched the path.
type pathHistory struct {
	Nodes []struct {
		ID graphql.String `graphql:"id"`
	}
}

func (p *pathHistory) touched(commitID string) int {
	n := 0
	for _, node := range p.Nodes {
		if string(node.ID) == commitID {
			n++
		}
	}
	return n
}

// HistoryQuery is the commit history query for one set of include paths.
// Each requested path becomes an aliased sub-query on every commit node
// (path0, path1, ...), so the touch signal arrives with the commit it
// describes. The Go type of the query is assembled at runtime because the
// aliases depend on the paths.
type HistoryQuery struct {
	paths []string
	typ   reflect.Type
}

// NewHistoryQuery builds the history query for includePaths. Paths are
// quoted but otherwise used verbatim.
func NewHistoryQuery(includePaths []string) *HistoryQuery {
	paths := append([]string(nil), includePaths...)

	nodeFields := []reflect.StructField{{
		Name: "Commit",
		Type: reflect.TypeOf(commitNode{}),
		Tag:  `graphql:"... on Commit"`,
	}}
	for i, path := range paths {
		nodeFields = append(nodeFields, reflect.StructField{
			Name: fmt.Sprintf("Path%d", i),
			Type: reflect.TypeOf(&pathHistory{}),
			Tag:  reflect.StructTag(`graphql:` + strconv.Quote(pathSelection(i, path))),
		})
	}

	history := reflect.StructOf([]reflect.StructField{
		{Name: "TotalCount", Type: reflect.TypeOf(graphql.Int(0))},
		{Name: "PageInfo", Type: reflect.TypeOf(pageInfo{})},
		{Name: "Nodes", Type: reflect.SliceOf(reflect.StructOf(nodeFields))},
	})
	onCommit := reflect.StructOf([]reflect.StructField{{
		Name: "History",
		Type: history,
		Tag:  `graphql:"history(first: $first, since: $since, after: $after)"`,
	}})
	object := reflect.StructOf([]reflect.StructField{{
		Name: "Commit",
		Type: onCommit,
		Tag:  `graphql:"... on Commit"`,
	}})
	repository := reflect.StructOf([]reflect.StructField{{
		Name: "Object",
		Type: reflect.PointerTo(object),
		Tag:  `graphql:"object(expression: $ref)"`,
	}})
	query := reflect.StructOf([]reflect.StructField{{
		Name: "Repository",
		Type: reflect.PointerTo(repository),
		Tag:  `graphql:"repository(name: $name, owner: $owner)"`,
	}})

	return &HistoryQuery{paths: paths, typ: query}
}

func pathSelection(idx int, path string) string {
	return fmt.Sprintf("path%d: history(path: %s, first: 1)", idx, strconv.Quote(path))
}

// Paths returns the include paths in alias order.
func (q *HistoryQuery) Paths() []string {
	return append([]string(nil), q.paths...)
}

// Variables returns the variables for one page request. Every declared
// variable is always present; absent optional values are typed nil pointers
// so the declaration still carries the right nullable type.
func (q *HistoryQuery) Variables(owner, repo string, opts HistoryOptions) map[string]interface{} {
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > defaultPageSize {
		pageSize = defaultPageSize
	}

	variables := map[string]interface{}{
		"name":                graphql.String(repo),
		"owner":               graphql.String(owner),
		"ref":                 graphql.String(opts.Ref),
		"withPullRequestBody": graphql.Boolean(opts.WithPullRequestBody),
		"withPullRequestURL":  graphql.Boolean(opts.WithPullRequestURL),
		"first":               graphql.Int(int32(pageSize)), // #nosec G115 - pageSize is capped at 100
		"since":               (*GitTimestamp)(nil),
		"after":               (*graphql.String)(nil),
	}
	if opts.Since != nil {
		since := GitTimestamp(opts.Since.UTC().Format(time.RFC3339))
		variables["since"] = &since
	}
	if opts.After != "" {
		after := graphql.String(opts.After)
		variables["after"] = &after
	}
	return variables
}

// newResult allocates a value to decode one response into.
func (q *HistoryQuery) newResult() interface{} {
	return reflect.New(q.typ).Interface()
}

// page converts a decoded response into a CommitPage. A commit whose
// per-path sub-query came back null keeps no PathTouch for that path;
// path filtering rejects such commits.
func (q *HistoryQuery) page(result interface{}) (*CommitPage, error) {
	root := reflect.ValueOf(result).Elem()

	repository := root.Field(0)
	if repository.IsNil() {
		return nil, relaierrors.ErrRepoNotFound
	}
	object := repository.Elem().Field(0)
	if object.IsNil() {
		return nil, relaierrors.ErrRefNotFound
	}

	history := object.Elem().Field(0).Field(0)
	info := history.Field(1).Interface().(pageInfo)
	nodes := history.Field(2)

	page := &CommitPage{
		TotalCount:  int(history.Field(0).Interface().(graphql.Int)),
		HasNextPage: bool(info.HasNextPage),
		EndCursor:   string(info.EndCursor),
		Commits:     make([]Commit, 0, nodes.Len()),
	}

	for i := 0; i < nodes.Len(); i++ {
		node := nodes.Index(i)
		commit := convertCommit(node.Field(0).Interface().(commitNode))

		if len(q.paths) > 0 {
			commit.Paths = make([]PathTouch, 0, len(q.paths))
		}
		for j, path := range q.paths {
			ph, _ := node.Field(j + 1).Interface().(*pathHistory)
			if ph == nil {
				continue
			}
			commit.Paths = append(commit.Paths, PathTouch{
				Path:    path,
				Touched: ph.touched(commit.ID),
			})
		}

		page.Commits = append(page.Commits, commit)
	}

	return page, nil
}

func convertCommit(n commitNode) Commit {
	c := Commit{
		ID:                     string(n.ID),
		CommittedDate:          n.CommittedDate,
		Message:                string(n.Message),
		AssociatedPullRequests: make([]PullRequest, 0, len(n.AssociatedPullRequests.Nodes)),
	}
	if n.Author != nil {
		c.Author.Name = string(n.Author.Name)
		if n.Author.User != nil {
			c.Author.Login = string(n.Author.User.Login)
		}
	}
	for i := range n.AssociatedPullRequests.Nodes {
		c.AssociatedPullRequests = append(c.AssociatedPullRequests, convertPullRequest(&n.AssociatedPullRequests.Nodes[i]))
	}
	return c
}

func convertPullRequest(n *pullRequestNode) PullRequest {
	pr := PullRequest{
		Number:            int(n.Number),
		Title:             string(n.Title),
		MergedAt:          n.MergedAt,
		IsCrossRepository: bool(n.IsCrossRepository),
		Labels:            make([]string, 0, len(n.Labels.Nodes)),
	}
	if n.URL != nil {
		pr.URL = string(*n.URL)
	}
	if n.Body != nil {
		pr.Body = string(*n.Body)
	}
	if n.Author != nil {
		pr.Author.Login = string(n.Author.Login)
	}
	if n.BaseRepository != nil {
		pr.BaseRepository = &Repository{NameWithOwner: string(n.BaseRepository.NameWithOwner)}
	}
	for _, label := range n.Labels.Nodes {
		pr.Labels = append(pr.Labels, string(label.Name))
	}
	return pr
}
