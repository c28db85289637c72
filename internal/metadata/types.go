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

package metadata

import (
	"time"
)

// CollectionMetadata is the record of one collection run: what was asked
// for, how many requests it took and what came out.
type CollectionMetadata struct {
	NotesVersion  string            `json:"notes_version"`
	MethodVersion string            `json:"method_version"`
	CollectionID  string            `json:"collection_id"`
	Parameters    CollectionParams  `json:"parameters"`
	Results       CollectionResults `json:"results"`
	Bounded       bool              `json:"bounded"`
	LastRelease   *ReleaseRef       `json:"last_release,omitempty"`
}

// CollectionParams are the inputs of a collection run.
type CollectionParams struct {
	Owner        string     `json:"owner"`
	Repository   string     `json:"repository"`
	Ref          string     `json:"ref"`
	IncludePaths []string   `json:"include_paths,omitempty"`
	Since        *time.Time `json:"since,omitempty"`
	PageSize     int        `json:"page_size"`
}

// CollectionResults are the statistics gathered while collecting.
type CollectionResults struct {
	PagesFetched       int       `json:"pages_fetched"`
	APICallCount       int       `json:"api_calls_made"`
	PageSizeReductions int       `json:"page_size_reductions"`
	FinalPageSize      int       `json:"final_page_size"`
	CommitsFetched     int       `json:"commits_fetched"`
	CommitsKept        int       `json:"commits_kept"`
	PullRequests       int       `json:"pull_requests"`
	FirstPR            int       `json:"first_pr_number,omitempty"`
	LastPR             int       `json:"last_pr_number,omitempty"`
	OldestCommit       time.Time `json:"oldest_commit_date"`
	NewestCommit       time.Time `json:"newest_commit_date"`
	Duration           string    `json:"collection_duration"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
}

// ReleaseRef identifies the release that bounded a collection.
type ReleaseRef struct {
	TagName   string    `json:"tag_name"`
	CreatedAt time.Time `json:"created_at"`
}
