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

// Package props turns Slack messages posted in the props channels into
// Profiles activity. Processor runs the pipeline; the validator, mention
// extractor and rewriter are exported for reuse and testing.
package props

import (
	"github.com/dotorg/slackprops/internal/models"
)

const (
	// DefaultChannel is #props.
	DefaultChannel = "C0FRG66LR"

	// DefaultSandboxChannel is the testing channel accepted in sandboxed mode.
	DefaultSandboxChannel = "C03AKLN7P9U"
)

// Validator decides whether an inbound event is a props message.
type Validator struct {
	channels map[string]struct{}
}

// NewValidator builds a validator for the given channels. When sandboxed is
// true the sandbox channel is also accepted.
func NewValidator(channels []string, sandboxed bool, sandboxChannel string) *Validator {
	v := &Validator{channels: make(map[string]struct{}, len(channels)+1)}
	for _, c := range channels {
		if c != "" {
			v.channels[c] = struct{}{}
		}
	}
	if sandboxed && sandboxChannel != "" {
		v.channels[sandboxChannel] = struct{}{}
	}
	return v
}

// IsValid reports whether the event is a new, top-level, visible message in
// an allowed channel.
func (v *Validator) IsValid(event *models.InboundEvent) bool {
	if event == nil {
		return false
	}

	hasRequired := event.Channel != "" && event.Type != "" && event.HasBlockList()
	if !hasRequired {
		return false
	}

	if _, ok := v.channels[event.Channel]; !ok {
		return false
	}

	// Edits and deletions carry a subtype (message_changed, message_deleted).
	return event.Type == models.MessageEventType &&
		event.Subtype == "" &&
		!event.Hidden &&
		event.ThreadTS == ""
}
