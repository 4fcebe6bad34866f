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
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dotorg/slackprops/internal/models"
	"github.com/dotorg/slackprops/internal/profiles"
)

// Outcome is the result reported back to Slack for a delivery.
type Outcome string

const (
	OutcomeInvalid         Outcome = "Invalid props"
	OutcomeNobodyMentioned Outcome = "Nobody was mentioned"
	OutcomeNoRecipients    Outcome = "No recipients"
	OutcomeSuccess         Outcome = "Success"
)

// DefaultWorkspace is the Slack workspace used in permalinks.
const DefaultWorkspace = "wordpress"

// ErrGiverNotFound means the sender has no directory account. Every member
// of the workspace should have one, so this points at broken link data.
var ErrGiverNotFound = errors.New("giver has no directory account")

// Resolver maps Slack ids to directory accounts.
type Resolver interface {
	Resolve(ctx context.Context, slackIDs []string) (models.Accounts, error)
}

// Dispatcher records the activity on Profiles.
type Dispatcher interface {
	Dispatch(ctx context.Context, rec models.ActivityRecord) profiles.Result
}

// Notifier announces recorded props. Optional.
type Notifier interface {
	PublishPropsGiven(ctx context.Context, rec models.ActivityRecord, activityID int64) error
}

// Processor runs a Slack message through validation, mention extraction,
// account resolution, rewriting and dispatch. It keeps no state between
// calls and is safe for concurrent use.
type Processor struct {
	validator  *Validator
	resolver   Resolver
	dispatcher Dispatcher
	notifier   Notifier
	workspace  string
}

// ProcessorConfig holds the processor's collaborators.
type ProcessorConfig struct {
	Validator  *Validator
	Resolver   Resolver
	Dispatcher Dispatcher
	Notifier   Notifier
	Workspace  string
}

// NewProcessor creates a processor.
func NewProcessor(cfg ProcessorConfig) *Processor {
	workspace := cfg.Workspace
	if workspace == "" {
		workspace = DefaultWorkspace
	}
	return &Processor{
		validator:  cfg.Validator,
		resolver:   cfg.Resolver,
		dispatcher: cfg.Dispatcher,
		notifier:   cfg.Notifier,
		workspace:  workspace,
	}
}

// Handle processes one message event. The only errors returned are a
// failed directory lookup and ErrGiverNotFound; a failed dispatch is logged
// and still reported as OutcomeSuccess because the delivery was handled.
func (p *Processor) Handle(ctx context.Context, event *models.InboundEvent) (Outcome, error) {
	if !p.validator.IsValid(event) {
		slog.Debug("ignoring event", "type", eventType(event), "channel", eventChannel(event))
		return OutcomeInvalid, nil
	}

	mentions := ExtractMentions(event.ContentBlocks())
	if len(mentions) == 0 {
		return OutcomeNobodyMentioned, nil
	}

	givers, err := p.resolver.Resolve(ctx, []string{event.User})
	if err != nil {
		return "", fmt.Errorf("look up giver: %w", err)
	}
	giver, ok := givers.Get(event.User)
	if !ok {
		return "", fmt.Errorf("slack user %s: %w", event.User, ErrGiverNotFound)
	}

	recipients, err := p.resolver.Resolve(ctx, mentions)
	if err != nil {
		return "", fmt.Errorf("look up recipients: %w", err)
	}
	if recipients.Len() == 0 {
		slog.Info("no mentioned users have directory accounts",
			"message_id", event.MessageID(),
			"mentions", len(mentions),
		)
		return OutcomeNoRecipients, nil
	}

	rec := models.ActivityRecord{
		Giver:        giver,
		RecipientIDs: recipients.IDs(),
		Permalink:    event.Permalink(p.workspace),
		MessageID:    event.MessageID(),
		Message:      Rewrite(event.Text, recipients),
	}

	// Slack may hang up before we answer; the record must still go out once.
	// The HTTP client timeout bounds the call.
	sendCtx := context.WithoutCancel(ctx)

	res := p.dispatcher.Dispatch(sendCtx, rec)
	if res.OK() && p.notifier != nil {
		if err := p.notifier.PublishPropsGiven(sendCtx, rec, res.ActivityID); err != nil {
			slog.Error("publish props notification failed",
				"message_id", rec.MessageID,
				"error", err,
			)
		}
	}

	return OutcomeSuccess, nil
}

func eventType(e *models.InboundEvent) string {
	if e == nil {
		return ""
	}
	return e.Type
}

func eventChannel(e *models.InboundEvent) string {
	if e == nil {
		return ""
	}
	return e.Channel
}
