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

package config

import "github.com/spf13/pflag"

// Flag names read by MergeFlags.
const (
	FlagRef                = "ref"
	FlagTagPrefix          = "tag-prefix"
	FlagIncrement          = "increment"
	FlagChangeTemplate     = "change-template"
	FlagIncludePath        = "include-path"
	FlagIncludePreReleases = "include-pre-releases"
	FlagPageSize           = "page-size"
	FlagFormat             = "format"
	FlagMetadataDir        = "metadata-dir"
	FlagLogLevel           = "log-level"
	FlagLogFormat          = "log-format"
)

// MergeFlags applies the flags the user set explicitly on top of settings.
// Flags left at their default, or not defined on this flag set, keep the
// configured value.
func MergeFlags(settings DefaultsConfig, flags *pflag.FlagSet) DefaultsConfig {
	if v, err := flags.GetString(FlagRef); err == nil && flags.Changed(FlagRef) {
		settings.Ref = v
	}
	if v, err := flags.GetString(FlagTagPrefix); err == nil && flags.Changed(FlagTagPrefix) {
		settings.TagPrefix = v
	}
	if v, err := flags.GetString(FlagIncrement); err == nil && flags.Changed(FlagIncrement) {
		settings.VersionIncrement = v
	}
	if v, err := flags.GetString(FlagChangeTemplate); err == nil && flags.Changed(FlagChangeTemplate) {
		settings.ChangeTemplate = v
	}
	if v, err := flags.GetStringSlice(FlagIncludePath); err == nil && flags.Changed(FlagIncludePath) {
		settings.IncludePaths = v
	}
	if v, err := flags.GetBool(FlagIncludePreReleases); err == nil && flags.Changed(FlagIncludePreReleases) {
		settings.IncludePreReleases = v
	}
	if v, err := flags.GetInt(FlagPageSize); err == nil && flags.Changed(FlagPageSize) {
		settings.PageSize = v
	}
	if v, err := flags.GetString(FlagFormat); err == nil && flags.Changed(FlagFormat) {
		settings.OutputFormat = v
	}
	if v, err := flags.GetString(FlagMetadataDir); err == nil && flags.Changed(FlagMetadataDir) {
		settings.MetadataDir = expandPath(v)
	}
	return settings
}

// MergeLogFlags applies --log-level and --log-format on top of cfg.Log.
func MergeLogFlags(cfg LogConfig, flags *pflag.FlagSet) LogConfig {
	if v, err := flags.GetString(FlagLogLevel); err == nil && flags.Changed(FlagLogLevel) {
		cfg.Level = v
	}
	if v, err := flags.GetString(FlagLogFormat); err == nil && flags.Changed(FlagLogFormat) {
		cfg.Format = v
	}
	return cfg
}
