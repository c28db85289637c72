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
	"testing"
	"time"

	"github.com/shurcooL/graphql"
	"github.com/sirseerhq/sirseer-notes/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryQuery_Variables(t *testing.T) {
	q := NewHistoryQuery(nil)

	t.Run("unbounded first page", func(t *testing.T) {
		vars := q.Variables("octo", "hello", HistoryOptions{Ref: "main"})

		assert.Equal(t, graphql.String("hello"), vars["name"])
		assert.Equal(t, graphql.String("octo"), vars["owner"])
		assert.Equal(t, graphql.String("main"), vars["ref"])
		assert.Equal(t, graphql.Boolean(false), vars["withPullRequestBody"])
		assert.Equal(t, graphql.Boolean(false), vars["withPullRequestURL"])
		assert.Equal(t, graphql.Int(100), vars["first"])
		assert.Nil(t, vars["since"].(*GitTimestamp))
		assert.Nil(t, vars["after"].(*graphql.String))
	})

	t.Run("bounded later page", func(t *testing.T) {
		since := time.Date(2025, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))
		vars := q.Variables("octo", "hello", HistoryOptions{
			Ref:                 "v2",
			Since:               &since,
			After:               "abc",
			PageSize:            25,
			WithPullRequestBody: true,
			WithPullRequestURL:  true,
		})

		require.NotNil(t, vars["since"].(*GitTimestamp))
		assert.Equal(t, GitTimestamp("2025-03-01T09:00:00Z"), *vars["since"].(*GitTimestamp))
		assert.Equal(t, graphql.String("abc"), *vars["after"].(*graphql.String))
		assert.Equal(t, graphql.Int(25), vars["first"])
		assert.Equal(t, graphql.Boolean(true), vars["withPullRequestBody"])
		assert.Equal(t, graphql.Boolean(true), vars["withPullRequestURL"])
	})

	t.Run("page size capped", func(t *testing.T) {
		vars := q.Variables("o", "r", HistoryOptions{PageSize: 500})
		assert.Equal(t, graphql.Int(100), vars["first"])
	})
}

func TestHistoryQuery_Paths(t *testing.T) {
	in := []string{"src/", "docs/"}
	q := NewHistoryQuery(in)
	in[0] = "changed"

	assert.Equal(t, []string{"src/", "docs/"}, q.Paths())
}

func TestHistoryQuery_QueryText(t *testing.T) {
	server := testutil.NewGitHubServer(t)
	client := NewGraphQLClient(server.GraphQLURL(), NewHTTPClient("", 1))

	_, err := client.FetchCommitHistory(context.Background(), "octo", "hello", HistoryOptions{
		Ref:          "main",
		IncludePaths: []string{"src/", `we"ird`},
	})
	require.NoError(t, err)

	reqs := server.Requests()
	require.Len(t, reqs, 1)
	query := reqs[0].Query

	for _, want := range []string{
		"$after:String",
		"$first:Int!",
		"$since:GitTimestamp",
		"$ref:String!",
		"$withPullRequestBody:Boolean!",
		"$withPullRequestURL:Boolean!",
		"repository(name: $name, owner: $owner)",
		"object(expression: $ref)",
		"history(first: $first, since: $since, after: $after)",
		"associatedPullRequests(first: 5)",
		"labels(first: 10)",
		"url: url @include(if: $withPullRequestURL)",
		"body: body @include(if: $withPullRequestBody)",
		`path0: history(path: "src/", first: 1)`,
		`path1: history(path: "we\"ird", first: 1)`,
		"baseRepository{nameWithOwner}",
	} {
		assert.Contains(t, query, want)
	}
	assert.NotContains(t, query, "$since:GitTimestamp!")
	assert.Equal(t, []string{"src/", `we"ird`}, reqs[0].Paths())
}

func TestHistoryQuery_NoPathAliasesWithoutPaths(t *testing.T) {
	server := testutil.NewGitHubServer(t)
	client := NewGraphQLClient(server.GraphQLURL(), NewHTTPClient("", 1))

	_, err := client.FetchCommitHistory(context.Background(), "o", "r", HistoryOptions{Ref: "main"})
	require.NoError(t, err)

	assert.NotContains(t, server.Requests()[0].Query, "path0")
}
