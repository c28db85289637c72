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

// Package output writes collected commits and pull requests in one of two
// formats:
//   - ndjson streams one typed record per line, {"type":"commit",...} or
//     {"type":"pull_request",...}, flushed as it is written
//   - json buffers the records and writes a single document on Close
//
// Both are OutputWriter implementations, so callers pick one with Open and
// feed it the same records.
//
// Example usage:
//
//	w, err := output.Open("ndjson", "notes.ndjson")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	if err := output.WriteResult(w, result); err != nil {
//	    return err
//	}
package output
