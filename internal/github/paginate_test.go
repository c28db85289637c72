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
	"strconv"
	"testing"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// intPages serves 0..total-1 in pages, recording every call.
type intPages struct {
	total int
	calls []string
	fail  map[int]error
}

func (p *intPages) fetch(_ context.Context, after string, pageSize int) (*Page[int], error) {
	p.calls = append(p.calls, fmt.Sprintf("%s/%d", after, pageSize))
	if err, ok := p.fail[len(p.calls)]; ok {
		return nil, err
	}

	start := 0
	if after != "" {
		start, _ = strconv.Atoi(after)
	}
	end := start + pageSize
	if end > p.total {
		end = p.total
	}
	nodes := make([]int, 0, end-start)
	for i := start; i < end; i++ {
		nodes = append(nodes, i)
	}
	return &Page[int]{TotalCount: p.total, Nodes: nodes, HasNextPage: end < p.total, EndCursor: strconv.Itoa(end)}, nil
}

func TestPaginate_FollowsCursors(t *testing.T) {
	p := &intPages{total: 7}
	var progress [][3]int

	got, err := Paginate(context.Background(), p.fetch, PaginateOptions{
		PageSize: 3,
		OnPage: func(page, fetched, total int) {
			progress = append(progress, [3]int{page, fetched, total})
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, got)
	assert.Equal(t, []string{"/3", "3/3", "6/3"}, p.calls)
	assert.Equal(t, [][3]int{{1, 3, 7}, {2, 6, 7}, {3, 7, 7}}, progress)
}

func TestPaginate_EmptyConnection(t *testing.T) {
	p := &intPages{}
	got, err := Paginate(context.Background(), p.fetch, PaginateOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []string{"/100"}, p.calls)
}

func TestPaginate_ShrinksOnComplexity(t *testing.T) {
	complexity := fmt.Errorf("too big: %w", relaierrors.ErrQueryComplexity)
	p := &intPages{total: 30, fail: map[int]error{2: complexity, 3: complexity}}
	var shrinks []int

	got, err := Paginate(context.Background(), p.fetch, PaginateOptions{
		PageSize:    20,
		MinPageSize: 4,
		OnShrink:    func(n int) { shrinks = append(shrinks, n) },
	})
	require.NoError(t, err)

	assert.Len(t, got, 30)
	assert.Equal(t, []int{10, 5}, shrinks)
	assert.Equal(t, []string{"/20", "20/20", "20/10", "20/5", "25/5"}, p.calls)
}

func TestPaginate_ComplexityAtFloorFails(t *testing.T) {
	complexity := fmt.Errorf("too big: %w", relaierrors.ErrQueryComplexity)
	p := &intPages{total: 30, fail: map[int]error{1: complexity, 2: complexity, 3: complexity}}

	_, err := Paginate(context.Background(), p.fetch, PaginateOptions{PageSize: 8, MinPageSize: 4})
	require.Error(t, err)
	assert.ErrorIs(t, err, relaierrors.ErrQueryComplexity)
	assert.Equal(t, []string{"/8", "/4"}, p.calls[:2])
}

func TestPaginate_ErrorDiscardsPartialResult(t *testing.T) {
	boom := errors.New("boom")
	p := &intPages{total: 10, fail: map[int]error{2: boom}}

	got, err := Paginate(context.Background(), p.fetch, PaginateOptions{PageSize: 5})
	assert.Nil(t, got)
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "page 2")
}

func TestPaginate_StuckCursor(t *testing.T) {
	fetch := func(_ context.Context, after string, _ int) (*Page[int], error) {
		return &Page[int]{Nodes: []int{1}, HasNextPage: true, EndCursor: "same"}, nil
	}

	_, err := Paginate(context.Background(), fetch, PaginateOptions{})
	assert.ErrorIs(t, err, relaierrors.ErrSchemaMismatch)
}

func TestPaginate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fetch := func(_ context.Context, after string, _ int) (*Page[int], error) {
		cancel()
		return &Page[int]{Nodes: []int{1}, HasNextPage: true, EndCursor: after + "x"}, nil
	}

	_, err := Paginate(ctx, fetch, PaginateOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHistoryPages_AgainstServer(t *testing.T) {
	t0 := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var commits []*testutil.CommitBuilder
	for i := 12; i > 0; i-- {
		commits = append(commits, testutil.NewCommitBuilder(fmt.Sprintf("c%02d", i), t0.Add(time.Duration(i)*time.Hour)))
	}
	server := testutil.NewGitHubServer(t, commits...)
	server.MaxPageSize = 5

	client := NewGraphQLClient(server.GraphQLURL(), NewHTTPClient("", 1))
	got, err := Paginate(context.Background(),
		HistoryPages(client, "o", "r", HistoryOptions{Ref: "main"}),
		PaginateOptions{PageSize: 10})
	require.NoError(t, err)

	require.Len(t, got, 12)
	assert.Equal(t, "c12", got[0].ID)
	assert.Equal(t, "c01", got[11].ID)

	reqs := server.Requests()
	require.Len(t, reqs, 4)
	assert.Equal(t, 10, reqs[0].IntVar("first"))
	assert.Equal(t, 5, reqs[1].IntVar("first"))
	assert.Equal(t, "cursor:5", reqs[2].StringVar("after"))
	assert.Equal(t, "cursor:10", reqs[3].StringVar("after"))
}

func TestHistoryPages_SetsCursorAndSize(t *testing.T) {
	mock := NewMockClient(
		FixtureCommit("b", time.Unix(2, 0), nil),
		FixtureCommit("a", time.Unix(1, 0), nil),
	)
	fetch := HistoryPages(mock, "o", "r", HistoryOptions{Ref: "dev", After: "ignored", PageSize: 99})

	page, err := fetch(context.Background(), "1", 1)
	require.NoError(t, err)

	assert.Equal(t, "1", mock.LastOpts.After)
	assert.Equal(t, 1, mock.LastOpts.PageSize)
	assert.Equal(t, "dev", mock.LastOpts.Ref)
	require.Len(t, page.Nodes, 1)
	assert.Equal(t, "a", page.Nodes[0].ID)
}
