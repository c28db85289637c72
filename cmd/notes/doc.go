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

// Package main implements the sirseer-notes command-line interface.
// It collects the raw material of release notes from a GitHub repository.
//
// Commands:
//   - collect: commits since the last release and their pull requests,
//     written as NDJSON records or a JSON document
//   - version: the version variables derived from the last release and an
//     optional explicit version
//   - release: the last published release
//
// Usage:
//
//	sirseer-notes collect <owner>/<repo> [flags]
//	sirseer-notes version <owner>/<repo> [flags]
//	sirseer-notes release <owner>/<repo> [flags]
//
// Example:
//
//	export GITHUB_TOKEN=your_token
//	sirseer-notes collect golang/go --ref master --include-path src/net/
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication, not found or rate limit error
//   - 3: Network error
package main
