package giterror

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	relaierrors "github.com/sirseerhq/sirseer-notes/internal/errors"
)

// Inspector provides methods for analyzing GitHub API errors.
type Inspector interface {
	// IsAuthError returns true if the error represents an authentication or authorization failure.
	IsAuthError(err error) bool

	// IsNotFoundError returns true if the error represents a missing repository or ref.
	IsNotFoundError(err error) bool

	// IsRateLimitError returns true if the error represents a primary or secondary rate limit.
	IsRateLimitError(err error) bool

	// IsComplexityError returns true if GitHub rejected the query for its cost.
	IsComplexityError(err error) bool

	// IsNetworkError returns true if the error represents a network connectivity error.
	IsNetworkError(err error) bool

	// IsRetryable returns true if repeating the same request may succeed.
	IsRetryable(err error) bool
}

// GitHubErrorInspector implements Inspector. It first consults the error
// chain for typed markers, then falls back to message matching because
// shurcooL/graphql flattens GraphQL errors into plain strings.
type GitHubErrorInspector struct{}

// NewInspector creates a new GitHubErrorInspector.
func NewInspector() Inspector {
	return &GitHubErrorInspector{}
}

func containsAny(err error, needles ...string) bool {
	errStr := strings.ToLower(err.Error())
	for _, n := range needles {
		if strings.Contains(errStr, n) {
			return true
		}
	}
	return false
}

// IsAuthError checks if the error is an authentication or authorization error.
func (i *GitHubErrorInspector) IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var marked interface{ IsAuthError() bool }
	if errors.As(err, &marked) && marked.IsAuthError() {
		return true
	}
	return containsAny(err, "401", "403", "unauthorized", "forbidden", "bad credentials", "authentication")
}

// IsNotFoundError checks if the error is a not found error.
func (i *GitHubErrorInspector) IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err, "404", "not found", "could not resolve to a repository")
}

// IsRateLimitError checks if the error is a rate limit error.
func (i *GitHubErrorInspector) IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, relaierrors.ErrRateLimit) {
		return true
	}
	var marked interface{ IsRateLimitError() bool }
	if errors.As(err, &marked) && marked.IsRateLimitError() {
		return true
	}
	return containsAny(err, "rate limit", "429")
}

// IsComplexityError checks if the error is a query complexity error.
// GitHub reports these as "Query has complexity N, which exceeds max complexity"
// or as a node-limit error when first: * nested connections multiply out.
func (i *GitHubErrorInspector) IsComplexityError(err error) bool {
	if err == nil {
		return false
	}
	return containsAny(err, "complexity", "exceeds maximum", "max_node_limit_exceeded", "node limit")
}

// IsNetworkError checks if the error is a network connectivity error.
func (i *GitHubErrorInspector) IsNetworkError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, relaierrors.ErrNetworkFailure) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	return containsAny(err,
		"connection refused",
		"connection reset",
		"no such host",
		"timeout",
		"temporary failure",
		"dial tcp",
		"tls handshake",
		"network is unreachable",
		"eof",
	)
}

// IsRetryable reports whether a transport-level error is worth another
// attempt. Caller cancellation never is.
func (i *GitHubErrorInspector) IsRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	return i.IsNetworkError(err) || i.IsRateLimitError(err)
}

// RetryError records how many attempts were spent before giving up and,
// optionally, what the user should do about it.
type RetryError struct {
	Err         error
	Attempt     int
	MaxAttempts int
	UserAction  string
}

func (e *RetryError) Error() string {
	msg := fmt.Sprintf("%v (attempt %d/%d)", e.Err, e.Attempt, e.MaxAttempts)
	if e.UserAction != "" {
		msg += ": " + e.UserAction
	}
	return msg
}

func (e *RetryError) Unwrap() error { return e.Err }

// WithRetryInfo annotates err with the attempt counter.
func WithRetryInfo(err error, attempt, maxAttempts int) error {
	if err == nil {
		return nil
	}
	return &RetryError{Err: err, Attempt: attempt, MaxAttempts: maxAttempts}
}

// WithUserAction attaches an actionable hint. If err already carries retry
// information the hint is added to it instead of wrapping again.
func WithUserAction(err error, action string) error {
	if err == nil {
		return nil
	}
	var re *RetryError
	if errors.As(err, &re) {
		re.UserAction = action
		return err
	}
	return &RetryError{Err: err, Attempt: 1, MaxAttempts: 1, UserAction: action}
}
