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

// AggregatePullRequests flattens the pull requests of commits, keeps the
// first occurrence of every number and then drops those whose base
// repository is not owner/repo. Pull requests opened from forks but merged
// into owner/repo are kept; isCrossRepository plays no part.
func AggregatePullRequests(commits []github.Commit, owner, repo string) ([]github.PullRequest, error) {
	nameWithOwner := owner + "/" + repo

	seen := make(map[int]struct{})
	prs := make([]github.PullRequest, 0)
	for _, c := range commits {
		for _, pr := range c.AssociatedPullRequests {
			if _, dup := seen[pr.Number]; dup {
				continue
			}
			seen[pr.Number] = struct{}{}

			if pr.BaseRepository == nil {
				return nil, fmt.Errorf("pull request #%d of commit %s has no base repository: %w",
					pr.Number, c.ID, relaierrors.ErrSchemaMismatch)
			}
			if pr.BaseRepository.NameWithOwner != nameWithOwner {
				continue
			}
			prs = append(prs, pr)
		}
	}
	return prs, nil
}
