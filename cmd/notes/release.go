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
	"github.com/spf13/cobra"

	"github.com/sirseerhq/sirseer-notes/internal/config"
)

func newReleaseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "release <owner>/<repo>",
		Short: "Show the last published release",
		Long: `Show the release collect would start from. Drafts are never considered;
pre-releases only with --include-pre-releases. Prints null when there is
none.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd, args[0])
			if err != nil {
				return err
			}
			if err := a.requireToken(); err != nil {
				return err
			}

			release, err := a.lastRelease(cmd.Context(), "")
			if err != nil {
				return err
			}
			return a.printJSON(release)
		},
	}

	cmd.Flags().String(config.FlagTagPrefix, "", "Only consider releases whose tag starts with this prefix")
	cmd.Flags().Bool(config.FlagIncludePreReleases, false, "Consider pre-releases")

	return cmd
}
