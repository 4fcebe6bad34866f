// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package props

import (
	"fmt"
	"strings"

	"github.com/dotorg/slackprops/internal/models"
)

// Rewrite replaces each "<@SLACKID>" token of a resolved account with
// "@login". Tokens of unresolved users are left as they are.
func Rewrite(text string, accounts models.Accounts) string {
	if accounts.Len() == 0 {
		return text
	}

	pairs := make([]string, 0, accounts.Len()*2)
	for _, acct := range accounts.All() {
		pairs = append(pairs, fmt.Sprintf("<@%s>", acct.SlackID), "@"+acct.Login)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
