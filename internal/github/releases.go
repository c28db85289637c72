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
	"net/http"
	"net/url"
	"sort"
	"strings"

	gh "github.com/google/go-github/v60/github"
	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/version"
)

// RESTClient lists releases through GitHub's REST API. GraphQL exposes
// releases too, but the REST listing carries the draft flag for tokens
// without push access, matching what the web UI shows.
type RESTClient struct {
	client *gh.Client
}

// NewRESTClient creates a REST client. apiEndpoint is the REST base URL,
// e.g. https://api.github.com or https://ghe.example.com/api/v3.
func NewRESTClient(apiEndpoint string, httpClient *http.Client) (*RESTClient, error) {
	client := gh.NewClient(httpClient)
	if apiEndpoint != "" {
		base, err := url.Parse(strings.TrimSuffix(apiEndpoint, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("invalid API endpoint %q: %w", apiEndpoint, err)
		}
		client.BaseURL = base
	}
	return &RESTClient{client: client}, nil
}

// ListReleases returns every release of owner/repo, following the REST
// pagination links.
func (c *RESTClient) ListReleases(ctx context.Context, owner, repo string) ([]Release, error) {
	var releases []Release
	opts := &gh.ListOptions{PerPage: 100}

	for {
		page, resp, err := c.client.Repositories.ListReleases(ctx, owner, repo, opts)
		if err != nil {
			return nil, mapRESTError(err, owner, repo)
		}
		for _, r := range page {
			releases = append(releases, Release{
				TagName:    r.GetTagName(),
				Name:       r.GetName(),
				CreatedAt:  r.GetCreatedAt().Time,
				Draft:      r.GetDraft(),
				Prerelease: r.GetPrerelease(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return releases, nil
}

func mapRESTError(err error, owner, repo string) error {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return fmt.Errorf("GitHub API rate limit exceeded. Please wait before retrying: %w", relaierrors.ErrRateLimit)
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("GitHub API authentication failed: %w", relaierrors.ErrInvalidToken)
		case http.StatusNotFound:
			return fmt.Errorf("repository '%s/%s' not found: %w", owner, repo, relaierrors.ErrRepoNotFound)
		}
	}

	return fmt.Errorf("failed to list releases for %s/%s: %w", owner, repo, err)
}

// ReleaseFilter narrows the candidates for "the last release".
type ReleaseFilter struct {
	// TagPrefix keeps only releases whose tag starts with it.
	TagPrefix string

	// IncludePreReleases admits releases flagged as pre-releases.
	IncludePreReleases bool
}

// LastRelease picks the most recent release among releases: drafts are
// never considered, the highest version wins, and creation time breaks
// ties and orders releases without a recognisable version.
func LastRelease(releases []Release, filter ReleaseFilter) (*Release, error) {
	candidates := make([]Release, 0, len(releases))
	for _, r := range releases {
		if r.Draft {
			continue
		}
		if r.Prerelease && !filter.IncludePreReleases {
			continue
		}
		if filter.TagPrefix != "" && !strings.HasPrefix(r.TagName, filter.TagPrefix) {
			continue
		}
		candidates = append(candidates, r)
	}
	if len(candidates) == 0 {
		return nil, relaierrors.ErrNoRelease
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		vi := version.CoerceCandidate(candidates[i], filter.TagPrefix)
		vj := version.CoerceCandidate(candidates[j], filter.TagPrefix)
		switch {
		case vi != nil && vj != nil && !vi.Equal(vj):
			return vi.GreaterThan(vj)
		case vi != nil && vj == nil:
			return true
		case vi == nil && vj != nil:
			return false
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})

	last := candidates[0]
	return &last, nil
}

// FindLastRelease lists the releases of owner/repo and applies LastRelease.
func FindLastRelease(ctx context.Context, lister ReleaseLister, owner, repo string, filter ReleaseFilter) (*Release, error) {
	releases, err := lister.ListReleases(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	return LastRelease(releases, filter)
}

// ReleaseByTag returns the release tagged tag. Drafts are skipped as they
// have no tag on the repository yet.
func ReleaseByTag(releases []Release, tag string) (*Release, error) {
	for _, r := range releases {
		if r.TagName == tag && !r.Draft {
			found := r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("release %s: %w", tag, relaierrors.ErrNoRelease)
}
