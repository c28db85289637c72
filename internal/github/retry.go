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
	"fmt"
	"math"
	"time"

	"github.com/sirseerhq/sirseer-notes/internal/giterror"
	"github.com/sirseerhq/sirseer-notes/internal/log"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps a Client and retries pages that failed on rate limits
// or network errors. GraphQL-level rate limits arrive as 200 responses with
// an errors array, so they are invisible to the HTTP retry transport.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector giterror.Inspector
	logger    *log.Logger
}

// NewRetryClient creates a new RetryClient. A nil config uses
// DefaultRetryConfig; a nil logger discards retry notices.
func NewRetryClient(client Client, config *RetryConfig, logger *log.Logger) *RetryClient {
	if config == nil {
		config = DefaultRetryConfig()
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: giterror.NewInspector(),
		logger:    logger,
	}
}

// FetchCommitHistory implements the Client interface with retry logic
func (r *RetryClient) FetchCommitHistory(ctx context.Context, owner, repo string, opts HistoryOptions) (*CommitPage, error) {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		page, err := r.client.FetchCommitHistory(ctx, owner, repo, opts)
		if err == nil {
			return page, nil
		}

		lastErr = err

		if !r.shouldRetry(err) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == r.config.MaxRetries {
			break
		}

		backoff := r.calculateBackoff(attempt)
		reason := "Network error"
		if r.inspector.IsRateLimitError(err) {
			reason = "Rate limit hit"
		}
		r.logger.Warn(ctx, fmt.Sprintf("%s. Retrying in %v (attempt %d/%d)",
			reason, backoff.Round(time.Millisecond), attempt+1, r.config.MaxRetries), err)

		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return nil, fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// shouldRetry determines if an error is retryable
func (r *RetryClient) shouldRetry(err error) bool {
	return r.inspector.IsRateLimitError(err) || r.inspector.IsNetworkError(err)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// ±10% jitter
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
