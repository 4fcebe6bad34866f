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

// Package models defines the data structures shared across the props service.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// MessageEventType is the Events API type of a new channel message.
const MessageEventType = "message"

// InboundEvent is the inner "event" object of a Slack Events API callback.
//
// Blocks is kept raw so the validator can tell a missing or scalar value
// apart from an empty list.
type InboundEvent struct {
	Type      string          `json:"type"`
	Channel   string          `json:"channel"`
	Timestamp string          `json:"ts"`
	User      string          `json:"user"`
	Text      string          `json:"text"`
	Blocks    json.RawMessage `json:"blocks,omitempty"`
	Subtype   string          `json:"subtype,omitempty"`
	Hidden    bool            `json:"hidden,omitempty"`
	ThreadTS  string          `json:"thread_ts,omitempty"`
}

// HasBlockList reports whether blocks is present and is a JSON array.
func (e *InboundEvent) HasBlockList() bool {
	raw := bytes.TrimSpace(e.Blocks)
	return len(raw) > 0 && raw[0] == '['
}

// ContentBlocks decodes the event's rich text blocks.
//
// Only rich_text blocks can carry user mentions, so other block types are
// dropped. A block that does not decode is skipped and the rest are kept.
func (e *InboundEvent) ContentBlocks() []slack.Block {
	if !e.HasBlockList() {
		return nil
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(e.Blocks, &raws); err != nil {
		slog.Debug("blocks are not a list of objects", "channel", e.Channel, "error", err)
		return nil
	}

	blocks := make([]slack.Block, 0, len(raws))
	for i, raw := range raws {
		block, err := decodeBlock(raw)
		if err != nil {
			slog.Debug("skipping malformed block",
				"channel", e.Channel,
				"ts", e.Timestamp,
				"index", i,
				"error", err,
			)
			continue
		}
		if block != nil {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

func decodeBlock(raw json.RawMessage) (slack.Block, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, fmt.Errorf("decode block type: %w", err)
	}

	if head.Type != string(slack.MBTRichText) {
		return nil, nil
	}

	var rt slack.RichTextBlock
	if err := json.Unmarshal(raw, &rt); err != nil {
		return nil, fmt.Errorf("decode rich_text block: %w", err)
	}
	return &rt, nil
}

// Permalink builds the archive URL of a message in the given workspace.
func (e *InboundEvent) Permalink(workspace string) string {
	return fmt.Sprintf("https://%s.slack.com/archives/%s/p%s", workspace, e.Channel, e.Timestamp)
}

// MessageID is the workspace-unique message key: channel and ts joined by a dash.
func (e *InboundEvent) MessageID() string {
	return fmt.Sprintf("%s-%s", e.Channel, e.Timestamp)
}
