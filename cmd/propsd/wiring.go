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

package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dotorg/slackprops/internal/config"
	"github.com/dotorg/slackprops/internal/directory"
	"github.com/dotorg/slackprops/internal/props"
	"github.com/dotorg/slackprops/internal/queue"
)

// profilesHTTPClient returns an OAuth2 client-credentials client when
// credentials are configured, otherwise a plain client.
func profilesHTTPClient(ctx context.Context, cfg config.ProfilesConfig) *http.Client {
	if cfg.ClientID == "" {
		return &http.Client{Timeout: cfg.Timeout}
	}

	creds := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}
	client := creds.Client(ctx)
	client.Timeout = cfg.Timeout
	return client
}

// connectPostgres opens the directory pool and pings it.
func connectPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create Postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to PostgreSQL: %w", err)
	}
	return pool, nil
}

// newNotifier builds the configured props notifier; nil when disabled.
func newNotifier(cfg *config.Config, rdb *redis.Client) (queue.Publisher, error) {
	switch cfg.NotifyDriver {
	case config.NotifyRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis notify driver needs a Redis client")
		}
		return queue.NewRedisPublisher(rdb, cfg.PropsQueue), nil
	case config.NotifyAMQP:
		pub, err := queue.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return nil, err
		}
		return pub, nil
	default:
		return nil, nil
	}
}

// newProcessor wires the props pipeline.
func newProcessor(cfg *config.Config, lookup directory.Lookup, dispatcher props.Dispatcher, notifier queue.Publisher) *props.Processor {
	pc := props.ProcessorConfig{
		Validator:  props.NewValidator(cfg.Slack.Channels, cfg.Sandboxed, cfg.Slack.SandboxChannel),
		Resolver:   directory.NewResolver(lookup),
		Dispatcher: dispatcher,
		Workspace:  cfg.Slack.Workspace,
	}
	if notifier != nil {
		pc.Notifier = notifier
	}
	return props.NewProcessor(pc)
}
