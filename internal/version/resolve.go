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

// Package version resolves the semantic version variables used by version
// templates ($MAJOR, $NEXT_MINOR_VERSION, $RESOLVED_VERSION, ...) from the
// last release and an optional explicit version.
package version

import (
	"strconv"

	"github.com/Masterminds/semver/v3"
)

// Info is one resolved version together with the inputs it came from.
type Info struct {
	Version *semver.Version `json:"version"`
	Major   uint64          `json:"$MAJOR"`
	Minor   uint64          `json:"$MINOR"`
	Patch   uint64          `json:"$PATCH"`

	Template     string          `json:"template,omitempty"`
	InputVersion *semver.Version `json:"inputVersion,omitempty"`
	Increment    Increment       `json:"versionKeyIncrement,omitempty"`
}

func newInfo(v *semver.Version, in inputs) *Info {
	if v == nil {
		return nil
	}
	return &Info{
		Version:      v,
		Major:        v.Major(),
		Minor:        v.Minor(),
		Patch:        v.Patch(),
		Template:     in.template,
		InputVersion: in.input,
		Increment:    in.increment,
	}
}

// Templatable bundles the version variants a template may reference. The
// next-version variants are nil when the release carried no version.
type Templatable struct {
	NextMajor *Info `json:"$NEXT_MAJOR_VERSION"`
	NextMinor *Info `json:"$NEXT_MINOR_VERSION"`
	NextPatch *Info `json:"$NEXT_PATCH_VERSION"`
	Input     *Info `json:"$INPUT_VERSION"`
	Resolved  *Info `json:"$RESOLVED_VERSION"`
}

// Options carries the optional resolver inputs.
type Options struct {
	// Template is copied into every Info for the renderer's benefit.
	Template string

	// InputVersion is an explicit version that overrides any bump.
	InputVersion string

	// Increment selects the bump behind $RESOLVED_VERSION. Defaults to patch.
	Increment Increment

	// TagPrefix is stripped from tags, names and the input version before
	// coercion.
	TagPrefix string
}

type inputs struct {
	template  string
	input     *semver.Version
	increment Increment
}

// Resolve computes the templatable versions for release. It returns nil
// when neither release nor the input version yields a version; callers
// must treat that as "no version context", not as a failure.
func Resolve(release Candidate, inputVersion string, increment Increment, tagPrefix string) *Templatable {
	return ResolveWithOptions(release, Options{
		InputVersion: inputVersion,
		Increment:    increment,
		TagPrefix:    tagPrefix,
	})
}

// ResolveWithOptions is Resolve with the template carried along.
func ResolveWithOptions(release Candidate, opts Options) *Templatable {
	current := CoerceCandidate(release, opts.TagPrefix)

	var input *semver.Version
	if opts.InputVersion != "" {
		input = Coerce(opts.InputVersion, opts.TagPrefix)
	}

	if current == nil && input == nil {
		return nil
	}

	in := inputs{template: opts.Template, input: input, increment: opts.Increment}
	bump := func(inc Increment) *Info {
		if current == nil {
			return nil
		}
		next, err := inc.Apply(current)
		if err != nil {
			return nil
		}
		return newInfo(next, in)
	}

	t := &Templatable{
		NextMajor: bump(Major),
		NextMinor: bump(Minor),
		NextPatch: bump(Patch),
		Input:     newInfo(input, in),
	}

	if t.Input != nil {
		t.Resolved = t.Input
	} else {
		inc := opts.Increment
		if inc == "" {
			inc = Patch
		}
		t.Resolved = bump(inc)
	}
	return t
}

// Variables flattens t into the string substitutions a version template
// understands, e.g. "$RESOLVED_VERSION" -> "1.2.4" and "$MAJOR" -> "1".
// The bare $MAJOR/$MINOR/$PATCH refer to the resolved version.
func (t *Templatable) Variables() map[string]string {
	vars := make(map[string]string)
	if t == nil {
		return vars
	}

	named := map[string]*Info{
		"$NEXT_MAJOR_VERSION": t.NextMajor,
		"$NEXT_MINOR_VERSION": t.NextMinor,
		"$NEXT_PATCH_VERSION": t.NextPatch,
		"$INPUT_VERSION":      t.Input,
		"$RESOLVED_VERSION":   t.Resolved,
	}
	for name, info := range named {
		if info == nil {
			continue
		}
		vars[name] = info.Version.String()
	}

	if r := t.Resolved; r != nil {
		vars["$MAJOR"] = strconv.FormatUint(r.Major, 10)
		vars["$MINOR"] = strconv.FormatUint(r.Minor, 10)
		vars["$PATCH"] = strconv.FormatUint(r.Patch, 10)
	}
	return vars
}
