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
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Increment names a version bump.
type Increment string

// Supported increments.
const (
	Major      Increment = "major"
	Minor      Increment = "minor"
	Patch      Increment = "patch"
	PreMajor   Increment = "premajor"
	PreMinor   Increment = "preminor"
	PrePatch   Increment = "prepatch"
	PreRelease Increment = "prerelease"
)

// ParseIncrement validates s. An empty string selects Patch.
func ParseIncrement(s string) (Increment, error) {
	switch inc := Increment(strings.ToLower(strings.TrimSpace(s))); inc {
	case "":
		return Patch, nil
	case Major, Minor, Patch, PreMajor, PreMinor, PrePatch, PreRelease:
		return inc, nil
	default:
		return "", fmt.Errorf("unknown version increment %q (want major, minor, patch, premajor, preminor, prepatch or prerelease)", s)
	}
}

// Apply bumps v by inc. Major resets minor and patch, minor resets patch.
// The pre-variants bump the named component and start a "-0" pre-release;
// prerelease advances an existing numeric pre-release or starts one on the
// next patch.
func (inc Increment) Apply(v *semver.Version) (*semver.Version, error) {
	if v == nil {
		return nil, fmt.Errorf("cannot increment a missing version")
	}

	var next semver.Version
	switch inc {
	case Major:
		next = v.IncMajor()
	case Minor:
		next = v.IncMinor()
	case Patch, "":
		next = v.IncPatch()
	case PreMajor:
		return startPre(v.IncMajor())
	case PreMinor:
		return startPre(v.IncMinor())
	case PrePatch:
		return startPre(v.IncPatch())
	case PreRelease:
		if v.Prerelease() == "" {
			return startPre(v.IncPatch())
		}
		return bumpPre(v)
	default:
		return nil, fmt.Errorf("unknown version increment %q", string(inc))
	}
	return &next, nil
}

func startPre(v semver.Version) (*semver.Version, error) {
	next, err := v.SetPrerelease("0")
	if err != nil {
		return nil, err
	}
	return &next, nil
}

func bumpPre(v *semver.Version) (*semver.Version, error) {
	ids := strings.Split(v.Prerelease(), ".")
	last := len(ids) - 1
	if n, err := strconv.ParseUint(ids[last], 10, 64); err == nil {
		ids[last] = strconv.FormatUint(n+1, 10)
	} else {
		ids = append(ids, "0")
	}

	base, err := semver.NewVersion(fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch()))
	if err != nil {
		return nil, err
	}
	next, err := base.SetPrerelease(strings.Join(ids, "."))
	if err != nil {
		return nil, err
	}
	return &next, nil
}
