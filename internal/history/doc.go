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

// Package history turns a ref's commit history into the input of a release
// note: the commits since the last release that touched the paths of
// interest, and the pull requests merged into the repository through them.
//
// The pipeline has three stages, each usable on its own:
//   - Fetcher.FetchCommits walks the history, bounded by the last release
//   - FilterByPaths keeps commits whose per-path signal is positive
//   - AggregatePullRequests deduplicates pull requests and scopes them to
//     the repository
//
// Fetcher.FindCommitsWithPullRequests runs all three.
package history
