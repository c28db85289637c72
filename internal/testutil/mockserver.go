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

// Package testutil provides test helpers for sirseer-notes: response
// builders and a mock GitHub server speaking both the history GraphQL query
// and the REST release listing.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"
)

// GraphQLRequest represents a parsed GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// BoolVar returns a boolean variable, false when absent.
func (r GraphQLRequest) BoolVar(name string) bool {
	b, _ := r.Variables[name].(bool)
	return b
}

// StringVar returns a string variable, "" when absent or null.
func (r GraphQLRequest) StringVar(name string) string {
	s, _ := r.Variables[name].(string)
	return s
}

// IntVar returns a numeric variable, 0 when absent.
func (r GraphQLRequest) IntVar(name string) int {
	f, _ := r.Variables[name].(float64)
	return int(f)
}

var pathAliasPattern = regexp.MustCompile(`path(\d+): history\(path: "((?:[^"\\]|\\.)*)"`)

// Paths returns the include paths encoded in the query's pathN aliases,
// in alias order.
func (r GraphQLRequest) Paths() []string {
	matches := pathAliasPattern.FindAllStringSubmatch(r.Query, -1)
	paths := make([]string, len(matches))
	for _, m := range matches {
		idx, err := strconv.Atoi(m[1])
		if err != nil || idx >= len(paths) {
			continue
		}
		p, err := strconv.Unquote(`"` + m[2] + `"`)
		if err != nil {
			p = m[2]
		}
		paths[idx] = p
	}
	return paths
}

// GitHubServer is a mock GitHub API. It serves the commit history of one
// ref at /graphql and the repository's releases at
// /repos/{owner}/{repo}/releases.
type GitHubServer struct {
	*httptest.Server

	// Commits is the history of the ref, most recent first.
	Commits []*CommitBuilder

	// Releases is served by the REST endpoint.
	Releases []*ReleaseBuilder

	// ReleasesPerPage forces REST pagination. Defaults to the requested
	// per_page.
	ReleasesPerPage int

	// MaxPageSize makes history requests with a larger "first" fail with
	// a complexity error. Zero disables the check.
	MaxPageSize int

	// Token, if set, must be presented as a bearer token.
	Token string

	// Intercept, if set, may answer the n-th (1-based) GraphQL request
	// itself by returning true.
	Intercept func(w http.ResponseWriter, n int, req GraphQLRequest) bool

	mu       sync.Mutex
	requests []GraphQLRequest
}

// NewGitHubServer starts a mock server; it is closed on test cleanup.
func NewGitHubServer(t *testing.T, commits ...*CommitBuilder) *GitHubServer {
	t.Helper()

	m := &GitHubServer{Commits: commits}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	t.Cleanup(m.Close)
	return m
}

// GraphQLURL is the GraphQL endpoint of the server.
func (m *GitHubServer) GraphQLURL() string {
	return m.URL + "/graphql"
}

// Requests returns the GraphQL requests received so far.
func (m *GitHubServer) Requests() []GraphQLRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]GraphQLRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

func (m *GitHubServer) serve(w http.ResponseWriter, r *http.Request) {
	if m.Token != "" && r.Header.Get("Authorization") != "Bearer "+m.Token {
		WriteJSON(w, http.StatusUnauthorized, map[string]string{
			"message":           "Bad credentials",
			"documentation_url": "https://docs.github.com/rest",
		})
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/graphql":
		m.serveGraphQL(w, r)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/repos/") && strings.HasSuffix(r.URL.Path, "/releases"):
		m.serveReleases(w, r)
	default:
		WriteJSON(w, http.StatusNotFound, map[string]string{"message": "Not Found"})
	}
}

func (m *GitHubServer) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	var req GraphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]string{"message": "Problems parsing JSON"})
		return
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	n := len(m.requests)
	m.mu.Unlock()

	if m.Intercept != nil && m.Intercept(w, n, req) {
		return
	}

	first := req.IntVar("first")
	if m.MaxPageSize > 0 && first > m.MaxPageSize {
		WriteJSON(w, http.StatusOK, ErrorResponse(fmt.Sprintf(
			"Query has complexity %d, which exceeds max complexity of 1000", first*100)))
		return
	}

	var matching []*CommitBuilder
	since := req.StringVar("since")
	for _, c := range m.Commits {
		if since != "" {
			bound, err := time.Parse(time.RFC3339, since)
			if err == nil && c.CommittedDate.Before(bound) {
				continue
			}
		}
		matching = append(matching, c)
	}

	start := 0
	if after := req.StringVar("after"); after != "" {
		if _, err := fmt.Sscanf(after, "cursor:%d", &start); err != nil {
			WriteJSON(w, http.StatusOK, ErrorResponse("Argument 'after' on Field 'history' has an invalid value"))
			return
		}
	}
	if first <= 0 {
		first = 100
	}
	end := start + first
	if end > len(matching) {
		end = len(matching)
	}
	if start > end {
		start = end
	}

	paths := req.Paths()
	withURL, withBody := req.BoolVar("withPullRequestURL"), req.BoolVar("withPullRequestBody")
	nodes := make([]map[string]interface{}, 0, end-start)
	for _, c := range matching[start:end] {
		nodes = append(nodes, c.Build(paths, withURL, withBody))
	}

	WriteJSON(w, http.StatusOK, HistoryResponse(nodes, len(matching), end < len(matching), fmt.Sprintf("cursor:%d", end)))
}

func (m *GitHubServer) serveReleases(w http.ResponseWriter, r *http.Request) {
	perPage := m.ReleasesPerPage
	if perPage <= 0 {
		perPage, _ = strconv.Atoi(r.URL.Query().Get("per_page"))
	}
	if perPage <= 0 {
		perPage = 30
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > len(m.Releases) {
		start = len(m.Releases)
	}
	if end > len(m.Releases) {
		end = len(m.Releases)
	}

	if end < len(m.Releases) {
		next := *r.URL
		q := next.Query()
		q.Set("page", strconv.Itoa(page+1))
		next.RawQuery = q.Encode()
		w.Header().Set("Link", fmt.Sprintf(`<%s%s>; rel="next"`, m.URL, next.RequestURI()))
	}

	out := make([]map[string]interface{}, 0, end-start)
	for _, rel := range m.Releases[start:end] {
		out = append(out, rel.Build())
	}
	WriteJSON(w, http.StatusOK, out)
}

// WriteJSON writes body as a JSON response with status.
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
