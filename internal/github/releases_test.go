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
	"testing"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTClient_ListReleases(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }

	server := testutil.NewGitHubServer(t)
	server.Token = "tok"
	server.ReleasesPerPage = 2
	server.Releases = []*testutil.ReleaseBuilder{
		testutil.NewReleaseBuilder("v1.2.0", day(5)),
		testutil.NewReleaseBuilder("v1.3.0-rc.1", day(6)).Prerelease(),
		testutil.NewReleaseBuilder("v2.0.0", day(7)).Draft(),
		testutil.NewReleaseBuilder("v1.1.0", day(3)).WithName("Summer release"),
		testutil.NewReleaseBuilder("v1.0.0", day(1)),
	}

	client, err := NewRESTClient(server.URL, NewHTTPClient("tok", 1))
	require.NoError(t, err)

	releases, err := client.ListReleases(context.Background(), "octo", "hello")
	require.NoError(t, err)
	require.Len(t, releases, 5)

	assert.Equal(t, "v1.2.0", releases[0].TagName)
	assert.True(t, releases[0].CreatedAt.Equal(day(5)))
	assert.True(t, releases[1].Prerelease)
	assert.True(t, releases[2].Draft)
	assert.Equal(t, "Summer release", releases[3].Name)
	assert.Equal(t, "v1.0.0", releases[4].TagName)
}

func TestRESTClient_ListReleases_Errors(t *testing.T) {
	server := testutil.NewGitHubServer(t)
	server.Token = "right"

	client, err := NewRESTClient(server.URL+"/", NewHTTPClient("wrong", 1))
	require.NoError(t, err)

	_, err = client.ListReleases(context.Background(), "o", "r")
	assert.ErrorIs(t, err, relaierrors.ErrInvalidToken)

	notFound, err := NewRESTClient(server.URL+"/nowhere", NewHTTPClient("right", 1))
	require.NoError(t, err)
	_, err = notFound.ListReleases(context.Background(), "o", "r")
	assert.ErrorIs(t, err, relaierrors.ErrRepoNotFound)
}

func TestNewRESTClient_InvalidEndpoint(t *testing.T) {
	_, err := NewRESTClient("://bad", nil)
	assert.Error(t, err)
}

func TestLastRelease(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }
	releases := []Release{
		{TagName: "v1.2.0", CreatedAt: day(5)},
		{TagName: "v1.10.0", CreatedAt: day(2)},
		{TagName: "v2.0.0", CreatedAt: day(9), Draft: true},
		{TagName: "v1.11.0-rc.1", CreatedAt: day(8), Prerelease: true},
		{TagName: "api-v9.0.0", CreatedAt: day(3)},
		{TagName: "nightly", CreatedAt: day(10)},
	}

	tests := []struct {
		name    string
		filter  ReleaseFilter
		want    string
		wantErr error
	}{
		{name: "highest version wins", filter: ReleaseFilter{}, want: "api-v9.0.0"},
		{name: "tag prefix with pre-releases", filter: ReleaseFilter{TagPrefix: "v", IncludePreReleases: true}, want: "v1.11.0-rc.1"},
		{name: "prefix without pre-releases", filter: ReleaseFilter{TagPrefix: "v"}, want: "v1.10.0"},
		{name: "other prefix", filter: ReleaseFilter{TagPrefix: "api-"}, want: "api-v9.0.0"},
		{name: "nothing matches", filter: ReleaseFilter{TagPrefix: "zzz"}, wantErr: relaierrors.ErrNoRelease},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LastRelease(releases, tt.filter)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.TagName)
		})
	}
}

func TestLastRelease_UnversionedFallBackToCreation(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2025, 1, n, 0, 0, 0, 0, time.UTC) }

	got, err := LastRelease([]Release{
		{TagName: "alpha", CreatedAt: day(1)},
		{TagName: "beta", CreatedAt: day(4)},
	}, ReleaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, "beta", got.TagName)

	got, err = LastRelease([]Release{
		{TagName: "v1.0.0", CreatedAt: day(1)},
		{TagName: "beta", CreatedAt: day(4)},
	}, ReleaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", got.TagName)
}

func TestFindLastRelease(t *testing.T) {
	mock := NewMockClient()
	mock.Releases = []Release{{TagName: "v0.1.0"}, {TagName: "v0.2.0"}}

	got, err := FindLastRelease(context.Background(), mock, "o", "r", ReleaseFilter{})
	require.NoError(t, err)
	assert.Equal(t, "v0.2.0", got.TagName)

	mock.ShouldFailAuth = true
	_, err = FindLastRelease(context.Background(), mock, "o", "r", ReleaseFilter{})
	assert.ErrorIs(t, err, relaierrors.ErrInvalidToken)
}

func TestReleaseByTag(t *testing.T) {
	releases := []Release{
		{TagName: "v2.0.0", Draft: true},
		{TagName: "v1.0.0", Name: "First"},
		{TagName: "v2.0.0", Name: "Second"},
	}

	got, err := ReleaseByTag(releases, "v2.0.0")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Name)

	_, err = ReleaseByTag(releases, "v3.0.0")
	assert.ErrorIs(t, err, relaierrors.ErrNoRelease)
	assert.ErrorContains(t, err, "release v3.0.0")
}
