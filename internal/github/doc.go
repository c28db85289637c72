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

// Package github reads the data release notes are built from: the commit
// history of a ref with the pull requests GitHub associates with each
// commit, and the releases of a repository.
//
// The package includes:
//   - A Client interface for fetching one page of commit history
//   - A GraphQL implementation using the shurcooL/graphql library, whose
//     query is assembled per request so that every commit carries a touch
//     signal for each requested path
//   - A generic cursor paginator that shrinks the page when GitHub rejects
//     a query as too complex
//   - A REST release lister built on go-github
//   - Mock client for testing
//
// Basic usage:
//
//	httpClient := github.NewHTTPClient(token, 3)
//	client := github.NewGraphQLClient("https://api.github.com/graphql", httpClient)
//	commits, err := github.Paginate(ctx,
//	    github.HistoryPages(client, "golang", "go", github.HistoryOptions{
//	        Ref:          "master",
//	        IncludePaths: []string{"src/net/"},
//	    }),
//	    github.PaginateOptions{})
//	if err != nil {
//	    // Handle error
//	}
package github
