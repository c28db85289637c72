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

package history

import "strings"

// DefaultChangeTemplate is the per-change line used when none is configured.
const DefaultChangeTemplate = "* $TITLE (#$NUMBER) @$AUTHOR"

// TemplateFields reports which optional pull request fields
// changeTemplate references, so the query only fetches what is rendered.
func TemplateFields(changeTemplate string) (withBody, withURL bool) {
	return strings.Contains(changeTemplate, "$BODY"), strings.Contains(changeTemplate, "$URL")
}
