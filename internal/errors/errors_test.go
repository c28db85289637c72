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

package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{
			name:     "wrapped invalid token error",
			err:      fmt.Errorf("failed to authenticate: %w", ErrInvalidToken),
			sentinel: ErrInvalidToken,
			want:     true,
		},
		{
			name:     "wrapped schema mismatch",
			err:      fmt.Errorf("commit abc: path %q: %w", "src/", ErrSchemaMismatch),
			sentinel: ErrSchemaMismatch,
			want:     true,
		},
		{
			name:     "complexity is not a network failure",
			err:      fmt.Errorf("page 3: %w", ErrQueryComplexity),
			sentinel: ErrNetworkFailure,
			want:     false,
		},
		{
			name:     "nil error",
			err:      nil,
			sentinel: ErrRefNotFound,
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.sentinel))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidToken, "invalid github token"},
		{ErrRepoNotFound, "repository not found"},
		{ErrNetworkFailure, "network connection failed"},
		{ErrRateLimit, "github rate limit exceeded"},
		{ErrQueryComplexity, "graphql query too complex"},
		{ErrRefNotFound, "ref not found"},
		{ErrSchemaMismatch, "unexpected response shape"},
		{ErrNoRelease, "no release found"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.want)
		})
	}
}
