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

package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dotorg/slackprops/internal/models"
)

// RedisPublisher pushes notifications onto a Redis list.
type RedisPublisher struct {
	rdb       *redis.Client
	queueName string
}

// NewRedisPublisher creates a publisher targeting the given list.
func NewRedisPublisher(rdb *redis.Client, queueName string) *RedisPublisher {
	return &RedisPublisher{
		rdb:       rdb,
		queueName: queueName,
	}
}

// PublishPropsGiven LPUSHes the envelope; consumers BRPOP for FIFO order.
func (p *RedisPublisher) PublishPropsGiven(ctx context.Context, rec models.ActivityRecord, activityID int64) error {
	env := newEnvelope(rec, activityID, time.Now())

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal props envelope: %w", err)
	}

	if err := p.rdb.LPush(ctx, p.queueName, string(body)).Err(); err != nil {
		return fmt.Errorf("redis LPUSH: %w", err)
	}

	slog.Info("published props notification",
		"event_id", env.Meta.ID,
		"message_id", rec.MessageID,
		"queue", p.queueName,
	)
	return nil
}

// Ping checks the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.rdb.Ping(ctx).Err()
}

// Close is a no-op; the Redis client is shared and closed by its owner.
func (p *RedisPublisher) Close() error {
	return nil
}
