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

package history

import (
	"fmt"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/github"
)

// FilterByPaths returns the commits that touched at least one of paths, in
// their original order. With no paths every commit is returned.
//
// The decision rests on each commit's own per-path signal. A commit lacking
// the signal for a requested path means the response did not match the
// query, and is an error rather than "not touched".
func FilterByPaths(commits []github.Commit, paths []string) ([]github.Commit, error) {
	if len(paths) == 0 {
		return commits, nil
	}

	kept := make([]github.Commit, 0, len(commits))
	for _, c := range commits {
		touched, err := touchesAny(c, paths)
		if err != nil {
			return nil, err
		}
		if touched {
			kept = append(kept, c)
		}
	}
	return kept, nil
}

func touchesAny(c github.Commit, paths []string) (bool, error) {
	signals := make(map[string]int, len(c.Paths))
	for _, p := range c.Paths {
		signals[p.Path] = p.Touched
	}

	touched := false
	for _, p := range paths {
		n, ok := signals[p]
		if !ok {
			return false, fmt.Errorf("commit %s has no touch signal for path %q: %w", c.ID, p, relaierrors.ErrSchemaMismatch)
		}
		if n > 0 {
			touched = true
		}
	}
	return touched, nil
}
