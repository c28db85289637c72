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
	"errors"
	"fmt"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
)

// Page is one page of a cursor-paginated connection.
type Page[T any] struct {
	TotalCount  int
	Nodes       []T
	HasNextPage bool
	EndCursor   string
}

// PageFunc fetches the page following the after cursor ("" for the first
// page) with at most pageSize nodes.
type PageFunc[T any] func(ctx context.Context, after string, pageSize int) (*Page[T], error)

// PaginateOptions tunes Paginate.
type PaginateOptions struct {
	// PageSize is the initial page size. Defaults to 100.
	PageSize int

	// MinPageSize is the floor for complexity-driven shrinking. Defaults to 5.
	MinPageSize int

	// OnPage, if set, is called after every page with the page number, the
	// number of nodes collected so far and the total the API reported.
	OnPage func(page, fetched, total int)

	// OnShrink, if set, is called when the page size is halved.
	OnShrink func(pageSize int)
}

// Paginate follows cursors until the connection reports no further pages
// and returns all nodes in the order received. Pages are fetched strictly
// one after the other. When the API rejects a page as too complex the same
// cursor is retried with half the page size, down to MinPageSize. Any other
// error aborts the walk; nothing fetched so far is returned.
func Paginate[T any](ctx context.Context, fetch PageFunc[T], opts PaginateOptions) ([]T, error) {
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	floor := opts.MinPageSize
	if floor <= 0 {
		floor = minPageSize
	}

	var (
		all     []T
		cursor  string
		pageNum int
	)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := fetch(ctx, cursor, pageSize)
		if err != nil {
			if errors.Is(err, relaierrors.ErrQueryComplexity) && pageSize > floor {
				pageSize /= 2
				if pageSize < floor {
					pageSize = floor
				}
				if opts.OnShrink != nil {
					opts.OnShrink(pageSize)
				}
				continue
			}
			return nil, fmt.Errorf("page %d: %w", pageNum+1, err)
		}

		pageNum++
		all = append(all, page.Nodes...)
		if opts.OnPage != nil {
			opts.OnPage(pageNum, len(all), page.TotalCount)
		}

		if !page.HasNextPage {
			return all, nil
		}
		if page.EndCursor == "" || page.EndCursor == cursor {
			return nil, fmt.Errorf("page %d reports more pages without a new cursor: %w", pageNum, relaierrors.ErrSchemaMismatch)
		}
		cursor = page.EndCursor
	}
}

// HistoryPages adapts a Client to a PageFunc over the history described by
// opts. opts.After and opts.PageSize are supplied per page.
func HistoryPages(client Client, owner, repo string, opts HistoryOptions) PageFunc[Commit] {
	return func(ctx context.Context, after string, pageSize int) (*Page[Commit], error) {
		pageOpts := opts
		pageOpts.After = after
		pageOpts.PageSize = pageSize

		cp, err := client.FetchCommitHistory(ctx, owner, repo, pageOpts)
		if err != nil {
			return nil, err
		}
		return &Page[Commit]{
			TotalCount:  cp.TotalCount,
			Nodes:       cp.Commits,
			HasNextPage: cp.HasNextPage,
			EndCursor:   cp.EndCursor,
		}, nil
	}
}
