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

// Package errors defines sentinel errors shared by the collector, the
// version resolver and the CLI. The CLI maps them to exit codes.
package errors

import "errors"

// Transport and API errors.
var (
	// ErrInvalidToken indicates GitHub authentication failed.
	// Maps to exit code 2.
	ErrInvalidToken = errors.New("invalid github token")

	// ErrRepoNotFound indicates the repository does not exist or is not accessible.
	// Maps to exit code 2.
	ErrRepoNotFound = errors.New("repository not found")

	// ErrNetworkFailure indicates a network connection problem.
	// Maps to exit code 3.
	ErrNetworkFailure = errors.New("network connection failed")

	// ErrRateLimit indicates GitHub API rate limit has been exceeded.
	// Maps to exit code 2.
	ErrRateLimit = errors.New("github rate limit exceeded")

	// ErrQueryComplexity indicates the history query was rejected for its
	// size. The paginator reacts by shrinking the page.
	ErrQueryComplexity = errors.New("graphql query too complex")
)

// Data errors.
var (
	// ErrRefNotFound indicates the ref expression did not resolve to a commit.
	ErrRefNotFound = errors.New("ref not found")

	// ErrSchemaMismatch indicates a response lacked a field the history query
	// always selects, such as a pull request's base repository or a per-path
	// touch signal. It is never recovered from.
	ErrSchemaMismatch = errors.New("unexpected response shape")

	// ErrNoRelease indicates no published release matched the lookup.
	ErrNoRelease = errors.New("no release found")
)
