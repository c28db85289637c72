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

package version

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// coercePattern finds the first run of up to three dot separated numbers
// that is not embedded in a longer number.
var coercePattern = regexp.MustCompile(`(?:^|[^\d])(\d{1,16})(?:\.(\d{1,16}))?(?:\.(\d{1,16}))?(?:$|[^\d])`)

// Candidate is anything a version can be read from. VersionStrings lists the
// strings to try, most authoritative first.
type Candidate interface {
	VersionStrings() []string
}

// Tag is a bare tag or version string.
type Tag string

// VersionStrings implements Candidate.
func (t Tag) VersionStrings() []string { return []string{string(t)} }

// Coerce leniently extracts a version from s after removing a literal
// prefix. "v1.2" becomes 1.2.0 and "release-3" becomes 3.0.0. Pre-release
// and build suffixes are dropped. It returns nil when s holds no number.
func Coerce(s, prefix string) *semver.Version {
	if prefix != "" {
		s = strings.TrimPrefix(s, prefix)
	}
	m := coercePattern.FindStringSubmatch(s)
	if m == nil {
		return nil
	}

	var nums [3]uint64
	for i, p := range m[1:4] {
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil
		}
		nums[i] = n
	}
	return semver.New(nums[0], nums[1], nums[2], "", "")
}

// CoerceCandidate returns the first of c's version strings that coerces.
func CoerceCandidate(c Candidate, prefix string) *semver.Version {
	if c == nil {
		return nil
	}
	for _, s := range c.VersionStrings() {
		if s == "" {
			continue
		}
		if v := Coerce(s, prefix); v != nil {
			return v
		}
	}
	return nil
}
