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
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/giterror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTransport_Headers(t *testing.T) {
	var gotAuth, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	resp, err := NewHTTPClient("abc", 1).Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, UserAgent, gotAgent)

	resp, err = NewHTTPClient("", 1).Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, gotAuth)
}

func TestRetryTransport_RetriesGatewayErrors(t *testing.T) {
	var calls int32
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	rt := newRetryTransport(http.DefaultTransport, 3)
	rt.backoff = time.Millisecond
	client := &http.Client{Transport: rt}

	resp, err := client.Post(server.URL, "application/json", strings.NewReader(`{"query":"q"}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{`{"query":"q"}`, `{"query":"q"}`, `{"query":"q"}`}, bodies)
}

func TestRetryTransport_GivesUp(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	rt := newRetryTransport(http.DefaultTransport, 2)
	rt.backoff = time.Millisecond

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)
	_, err = rt.RoundTrip(req)
	require.Error(t, err)

	var retryErr *giterror.RetryError
	require.ErrorAs(t, err, &retryErr)
	assert.Equal(t, 2, retryErr.Attempt)
	assert.Contains(t, err.Error(), "received status 503")
	assert.NotEmpty(t, retryErr.UserAction)
}

func TestRetryTransport_NoRetryOnClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	rt := newRetryTransport(http.DefaultTransport, 3)
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := rt.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestLimitedReader(t *testing.T) {
	lr := &limitedReader{ReadCloser: io.NopCloser(strings.NewReader("0123456789")), limit: 4}

	got, err := io.ReadAll(lr)
	require.Error(t, err)
	assert.Equal(t, "0123", string(got))
	assert.Contains(t, err.Error(), "exceeded limit of 4 bytes")
}
