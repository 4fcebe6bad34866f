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
	"github.com/slack-go/slack"
)

// ExtractMentions returns the Slack ids of users mentioned in the blocks,
// each once, in the order they first appear.
//
// Only user elements directly inside a rich text section are counted. Lists,
// quotes and non-rich-text blocks are skipped.
func ExtractMentions(blocks []slack.Block) []string {
	ids := []string{}
	seen := make(map[string]struct{})

	for _, block := range blocks {
		rt, ok := block.(*slack.RichTextBlock)
		if !ok || rt == nil {
			continue
		}

		for _, element := range rt.Elements {
			section, ok := element.(*slack.RichTextSection)
			if !ok || section == nil {
				continue
			}

			for _, inner := range section.Elements {
				user, ok := inner.(*slack.RichTextSectionUserElement)
				if !ok || user == nil || user.UserID == "" {
					continue
				}
				if _, dup := seen[user.UserID]; dup {
					continue
				}
				seen[user.UserID] = struct{}{}
				ids = append(ids, user.UserID)
			}
		}
	}

	return ids
}
