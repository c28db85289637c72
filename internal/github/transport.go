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
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/giterror"
)

// UserAgent is sent with every API request.
var UserAgent = "sirseer-notes/dev"

// maxResponseBytes bounds a single response body. A full history page with
// five pull request bodies per commit stays well below this.
const maxResponseBytes = 32 * 1024 * 1024

// NewHTTPClient returns the HTTP client shared by the GraphQL and REST
// clients: bearer authentication, a response size limit and retries of
// transient failures.
func NewHTTPClient(token string, retries int) *http.Client {
	base := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		ForceAttemptHTTP2:   true,
	}
	return &http.Client{
		Transport: newRetryTransport(&authTransport{token: token, base: base}, retries),
	}
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds the authentication header and the size limit.
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      maxResponseBytes,
		}
	}

	return resp, nil
}

// retryTransport adds exponential backoff retry logic for transient failures.
type retryTransport struct {
	base       http.RoundTripper
	maxRetries int
	backoff    time.Duration
	inspector  giterror.Inspector
}

func newRetryTransport(base http.RoundTripper, maxRetries int) *retryTransport {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &retryTransport{
		base:       base,
		maxRetries: maxRetries,
		backoff:    time.Second,
		inspector:  giterror.NewInspector(),
	}
}

// RoundTrip implements http.RoundTripper with retry logic. Requests are
// replayed from GetBody, which net/http sets for the in-memory bodies both
// API clients send.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	var lastErr error
	backoff := t.backoff

	for attempt := 0; attempt < t.maxRetries; attempt++ {
		clonedReq := req.Clone(req.Context())
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			clonedReq.Body = body
		}

		resp, err := t.base.RoundTrip(clonedReq)

		if err == nil && !isRetryableStatusCode(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			if !t.inspector.IsRetryable(err) {
				return nil, err
			}
			lastErr = giterror.WithRetryInfo(err, attempt+1, t.maxRetries)
		} else {
			lastErr = giterror.WithRetryInfo(
				fmt.Errorf("received status %d", resp.StatusCode),
				attempt+1, t.maxRetries)
			resp.Body.Close()
		}

		if attempt < t.maxRetries-1 {
			select {
			case <-time.After(backoff):
				backoff *= 2
				if backoff > 30*time.Second {
					backoff = 30 * time.Second
				}
			case <-req.Context().Done():
				return nil, req.Context().Err()
			}
		}
	}

	return nil, giterror.WithUserAction(lastErr,
		"Network connection failed. Please check your internet connection and try again")
}

// isRetryableStatusCode checks if an HTTP status code should trigger a retry.
func isRetryableStatusCode(code int) bool {
	switch code {
	case http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
