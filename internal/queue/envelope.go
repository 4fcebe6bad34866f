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

// Package queue publishes props.given notifications after Profiles has
// recorded an activity, either to a Redis list or to a RabbitMQ topic
// exchange. Consumers (Make WordPress digests, bots) read the envelope JSON.
package queue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dotorg/slackprops/internal/models"
)

const (
	// PropsGivenType is the event name and version of a props notification.
	PropsGivenType = "props.given.v1"

	producer = "slackprops"
)

// Meta describes an emitted event.
type Meta struct {
	ID            string    `json:"id"`
	Type          string    `json:"type"`
	Producer      string    `json:"producer"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Time          time.Time `json:"time"`
}

// PropsGiven is the payload of a props.given.v1 event.
type PropsGiven struct {
	ActivityID int64                 `json:"activity_id"`
	Record     models.ActivityRecord `json:"record"`
}

// Envelope wraps an event payload with its metadata.
type Envelope struct {
	Meta Meta       `json:"meta"`
	Data PropsGiven `json:"data"`
}

// Publisher emits props notifications.
type Publisher interface {
	PublishPropsGiven(ctx context.Context, rec models.ActivityRecord, activityID int64) error
	Ping(ctx context.Context) error
	Close() error
}

// newEnvelope wraps a record; the message id doubles as correlation id so
// consumers can match it to the Slack message.
func newEnvelope(rec models.ActivityRecord, activityID int64, now time.Time) Envelope {
	return Envelope{
		Meta: Meta{
			ID:            uuid.NewString(),
			Type:          PropsGivenType,
			Producer:      producer,
			CorrelationID: rec.MessageID,
			Time:          now.UTC(),
		},
		Data: PropsGiven{
			ActivityID: activityID,
			Record:     rec,
		},
	}
}
