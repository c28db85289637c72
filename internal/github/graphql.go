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
	"net"
	"net/http"

	"github.com/shurcooL/graphql"
	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/giterror"
)

// GraphQLClient implements the Client interface using GitHub's GraphQL API.
type GraphQLClient struct {
	client    *graphql.Client
	inspector giterror.Inspector
}

// NewGraphQLClient creates a GraphQL client for endpoint using httpClient,
// normally one built by NewHTTPClient.
func NewGraphQLClient(endpoint string, httpClient *http.Client) *GraphQLClient {
	return &GraphQLClient{
		client:    graphql.NewClient(endpoint, httpClient),
		inspector: giterror.NewInspector(),
	}
}

// FetchCommitHistory fetches one page of the history of opts.Ref.
func (c *GraphQLClient) FetchCommitHistory(ctx context.Context, owner, repo string, opts HistoryOptions) (*CommitPage, error) {
	query := NewHistoryQuery(opts.IncludePaths)
	result := query.newResult()

	if err := c.client.Query(ctx, result, query.Variables(owner, repo, opts)); err != nil {
		return nil, c.mapError(err, owner, repo)
	}

	page, err := query.page(result)
	if err != nil {
		switch {
		case errors.Is(err, relaierrors.ErrRepoNotFound):
			return nil, fmt.Errorf("repository '%s/%s' not found: %w", owner, repo, err)
		case errors.Is(err, relaierrors.ErrRefNotFound):
			return nil, fmt.Errorf("ref %q does not resolve to a commit in %s/%s: %w", opts.Ref, owner, repo, err)
		}
		return nil, err
	}
	return page, nil
}

// mapError maps GraphQL errors to our domain errors with actionable messages
func (c *GraphQLClient) mapError(err error, owner, repo string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}

	// Transport failures first: their messages embed URLs whose port
	// numbers can look like status codes.
	var retryErr *giterror.RetryError
	var netErr net.Error
	if errors.As(err, &retryErr) || errors.As(err, &netErr) {
		return fmt.Errorf("network error connecting to GitHub API (%v): %w", err, relaierrors.ErrNetworkFailure)
	}

	// Check rate limit before auth, as 403 can be both auth and rate limit
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", relaierrors.ErrRateLimit)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("GitHub API authentication failed. Please provide a valid token via --token flag or GITHUB_TOKEN environment variable: %w", relaierrors.ErrInvalidToken)
	}

	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("repository '%s/%s' not found. Please check the repository name and your access permissions: %w", owner, repo, relaierrors.ErrRepoNotFound)
	}

	if c.inspector.IsComplexityError(err) {
		return fmt.Errorf("GraphQL query complexity exceeded (%v): %w", err, relaierrors.ErrQueryComplexity)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to GitHub API (%v): %w", err, relaierrors.ErrNetworkFailure)
	}

	return fmt.Errorf("failed to fetch commit history: %w", err)
}
