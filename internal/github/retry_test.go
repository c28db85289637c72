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
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
	"github.com/sirseerhq/sirseer-notes/internal/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClientWithErrors fails the first maxFailures calls.
type mockClientWithErrors struct {
	attempts     int
	maxFailures  int
	failureError error
}

func (m *mockClientWithErrors) FetchCommitHistory(ctx context.Context, owner, repo string, opts HistoryOptions) (*CommitPage, error) {
	m.attempts++
	if m.attempts <= m.maxFailures {
		return nil, m.failureError
	}
	return &CommitPage{TotalCount: 1}, nil
}

func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries:        maxRetries,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        10 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient_RateLimitRetry(t *testing.T) {
	tests := []struct {
		name             string
		maxFailures      int
		maxRetries       int
		expectError      bool
		expectedAttempts int
	}{
		{name: "succeeds after one retry", maxFailures: 1, maxRetries: 3, expectedAttempts: 2},
		{name: "succeeds after max retries", maxFailures: 3, maxRetries: 3, expectedAttempts: 4},
		{name: "fails after max retries exceeded", maxFailures: 5, maxRetries: 3, expectError: true, expectedAttempts: 4},
		{name: "succeeds immediately", maxFailures: 0, maxRetries: 3, expectedAttempts: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockClientWithErrors{
				maxFailures:  tt.maxFailures,
				failureError: fmt.Errorf("limited: %w", relaierrors.ErrRateLimit),
			}
			retryClient := NewRetryClient(mockClient, fastRetry(tt.maxRetries), nil)

			_, err := retryClient.FetchCommitHistory(context.Background(), "owner", "repo", HistoryOptions{})

			if tt.expectError {
				require.Error(t, err)
				assert.ErrorIs(t, err, relaierrors.ErrRateLimit)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.expectedAttempts, mockClient.attempts)
		})
	}
}

func TestRetryClient_NonRetryableErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth", fmt.Errorf("bad: %w", relaierrors.ErrInvalidToken)},
		{"not found", fmt.Errorf("gone: %w", relaierrors.ErrRepoNotFound)},
		{"complexity", fmt.Errorf("big: %w", relaierrors.ErrQueryComplexity)},
		{"schema", relaierrors.ErrSchemaMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockClient := &mockClientWithErrors{maxFailures: 5, failureError: tt.err}
			retryClient := NewRetryClient(mockClient, fastRetry(3), nil)

			_, err := retryClient.FetchCommitHistory(context.Background(), "o", "r", HistoryOptions{})
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, mockClient.attempts)
		})
	}
}

func TestRetryClient_NetworkRetryLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, log.FormatJSON, "debug")

	mockClient := &mockClientWithErrors{
		maxFailures:  2,
		failureError: fmt.Errorf("reset: %w", relaierrors.ErrNetworkFailure),
	}
	retryClient := NewRetryClient(mockClient, fastRetry(3), logger)

	_, err := retryClient.FetchCommitHistory(context.Background(), "o", "r", HistoryOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, mockClient.attempts)
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("Network error. Retrying in")))
}

func TestRetryClient_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mockClient := &mockClientWithErrors{maxFailures: 5, failureError: errors.New("API rate limit exceeded")}
	retryClient := NewRetryClient(mockClient, &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    time.Hour,
		MaxBackoff:        time.Hour,
		BackoffMultiplier: 2,
	}, nil)

	_, err := retryClient.FetchCommitHistory(ctx, "o", "r", HistoryOptions{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mockClient.attempts)
}

func TestRetryClient_CalculateBackoff(t *testing.T) {
	r := NewRetryClient(nil, &RetryConfig{
		InitialBackoff:    time.Second,
		MaxBackoff:        5 * time.Second,
		BackoffMultiplier: 2,
	}, nil)

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{5, 5 * time.Second},
	}
	for _, tt := range tests {
		got := r.calculateBackoff(tt.attempt)
		assert.InDelta(t, float64(tt.want), float64(got), float64(tt.want)/10+1, "attempt %d", tt.attempt)
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 2.0, cfg.BackoffMultiplier)
}
