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

package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-notes/internal/config"
	"github.com/sirseerhq/sirseer-notes/internal/version"
)

type versionOptions struct {
	inputVersion string
	tag          string
	template     string
	variables    bool
}

func newVersionCommand() *cobra.Command {
	var opts versionOptions

	cmd := &cobra.Command{
		Use:   "version <owner>/<repo>",
		Short: "Resolve the next version from the last release",
		Long: `Resolve the version variables of the next release.

The previous version is read from the last release (or from --tag, without
any API call). $RESOLVED_VERSION is --version when given, otherwise the
previous version bumped by --increment. Prints null when neither source
holds a version.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args[0])
			if err != nil {
				return err
			}
			return runVersion(cmd.Context(), a, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.inputVersion, "version", "", "Explicit version of the next release")
	flags.StringVar(&opts.tag, "tag", "", "Use this tag as the previous release instead of looking it up")
	flags.StringVar(&opts.template, "version-template", "", "Version template carried into the output")
	flags.BoolVar(&opts.variables, "variables", false, "Print a flat map of template variables instead")
	flags.String(config.FlagIncrement, "", "Bump for $RESOLVED_VERSION: major, minor, patch, premajor, preminor, prepatch or prerelease")
	flags.String(config.FlagTagPrefix, "", "Strip this prefix from tags and only consider releases carrying it")
	flags.Bool(config.FlagIncludePreReleases, false, "Consider pre-releases when looking for the last release")

	return cmd
}

func runVersion(ctx context.Context, a *app, opts versionOptions) error {
	increment, err := version.ParseIncrement(a.settings.VersionIncrement)
	if err != nil {
		return err
	}

	var previous version.Candidate
	if opts.tag != "" {
		previous = version.Tag(opts.tag)
	} else {
		if err := a.requireToken(); err != nil {
			return err
		}
		release, err := a.lastRelease(ctx, "")
		if err != nil {
			return err
		}
		if release != nil {
			previous = *release
		}
	}

	resolved := version.ResolveWithOptions(previous, version.Options{
		Template:     opts.template,
		InputVersion: opts.inputVersion,
		Increment:    increment,
		TagPrefix:    a.settings.TagPrefix,
	})
	if opts.variables {
		return a.printJSON(resolved.Variables())
	}
	return a.printJSON(resolved)
}
