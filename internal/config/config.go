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

// Package config loads configuration from config.yaml and environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Notification drivers.
const (
	NotifyNone  = "none"
	NotifyRedis = "redis"
	NotifyAMQP  = "amqp"
)

// SlackConfig describes the monitored workspace.
type SlackConfig struct {
	Workspace      string
	SigningSecret  string
	Channels       []string
	SandboxChannel string
}

// ProfilesConfig describes the activity endpoint and its credentials.
// OAuth2 client credentials are used when ClientID is set.
type ProfilesConfig struct {
	URL          string
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scopes       []string
	Timeout      time.Duration
}

// Config holds all configuration for the props service.
type Config struct {
	Slack     SlackConfig
	Sandboxed bool

	DatabaseURL string
	Profiles    ProfilesConfig

	// Redis
	RedisURL   string
	PropsQueue string
	DedupTTL   time.Duration

	// Notifications
	NotifyDriver string
	AMQPURL      string
	AMQPExchange string

	// Server
	Port        int // health check
	WebhookPort int
	LogLevel    slog.Level
}

// rawConfig mirrors the YAML structure for unmarshalling.
type rawConfig struct {
	Slack struct {
		Workspace      string   `yaml:"workspace"`
		SigningSecret  string   `yaml:"signing_secret"`
		Channels       []string `yaml:"channels"`
		SandboxChannel string   `yaml:"sandbox_channel"`
	} `yaml:"slack"`
	Sandboxed *bool `yaml:"sandboxed"`
	Database  struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Profiles struct {
		URL          string   `yaml:"url"`
		ClientID     string   `yaml:"client_id"`
		ClientSecret string   `yaml:"client_secret"`
		TokenURL     string   `yaml:"token_url"`
		Scopes       []string `yaml:"scopes"`
	} `yaml:"profiles"`
	Redis struct {
		URL    string `yaml:"url"`
		Queues struct {
			Props string `yaml:"props"`
		} `yaml:"queues"`
	} `yaml:"redis"`
	Notify struct {
		Driver string `yaml:"driver"`
	} `yaml:"notify"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
	} `yaml:"amqp"`
}

// Load reads configuration from config.yaml (with env var expansion) and
// environment variables for non-YAML settings.
func Load() (*Config, error) {
	configPath := envOrDefault("CONFIG_PATH", "/app/config/config.yaml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse builds a Config from YAML bytes. ${VAR} references are expanded
// before parsing.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config YAML: %w", err)
	}

	sandboxed := envOrDefaultBool("SANDBOXED", false)
	if raw.Sandboxed != nil {
		sandboxed = *raw.Sandboxed
	}

	cfg := &Config{
		Slack: SlackConfig{
			Workspace:      firstNonEmpty(raw.Slack.Workspace, "wordpress"),
			SigningSecret:  firstNonEmpty(raw.Slack.SigningSecret, os.Getenv("SLACK_SIGNING_SECRET")),
			Channels:       nonEmpty(raw.Slack.Channels),
			SandboxChannel: firstNonEmpty(raw.Slack.SandboxChannel, "C03AKLN7P9U"),
		},
		Sandboxed:   sandboxed,
		DatabaseURL: firstNonEmpty(raw.Database.URL, os.Getenv("DATABASE_URL")),
		Profiles: ProfilesConfig{
			URL:          firstNonEmpty(raw.Profiles.URL, os.Getenv("PROFILES_URL")),
			ClientID:     raw.Profiles.ClientID,
			ClientSecret: raw.Profiles.ClientSecret,
			TokenURL:     raw.Profiles.TokenURL,
			Scopes:       nonEmpty(raw.Profiles.Scopes),
			Timeout:      envOrDefaultDuration("PROFILES_TIMEOUT", 10*time.Second),
		},
		RedisURL:     firstNonEmpty(raw.Redis.URL, envOrDefault("REDIS_URL", "redis://localhost:6379/0")),
		PropsQueue:   firstNonEmpty(raw.Redis.Queues.Props, envOrDefault("PROPS_QUEUE", "props")),
		DedupTTL:     envOrDefaultDuration("DEDUP_TTL", time.Hour),
		NotifyDriver: strings.ToLower(firstNonEmpty(raw.Notify.Driver, envOrDefault("NOTIFY_DRIVER", NotifyNone))),
		AMQPURL:      firstNonEmpty(raw.AMQP.URL, os.Getenv("AMQP_URL")),
		AMQPExchange: firstNonEmpty(raw.AMQP.Exchange, "props"),
		Port:         envOrDefaultInt("PORT", 8080),
		WebhookPort:  envOrDefaultInt("WEBHOOK_PORT", 8081),
		LogLevel:     envOrDefaultLevel("LOG_LEVEL", slog.LevelInfo),
	}

	if len(cfg.Slack.Channels) == 0 {
		cfg.Slack.Channels = []string{"C0FRG66LR"} // #props
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("database.url is required")
	}
	if c.Profiles.URL == "" {
		return fmt.Errorf("profiles.url is required")
	}
	if c.Profiles.ClientID != "" && c.Profiles.TokenURL == "" {
		return fmt.Errorf("profiles.token_url is required when client_id is set")
	}

	switch c.NotifyDriver {
	case NotifyNone, NotifyRedis:
	case NotifyAMQP:
		if c.AMQPURL == "" {
			return fmt.Errorf("amqp.url is required for the amqp notify driver")
		}
	default:
		return fmt.Errorf("unknown notify driver %q", c.NotifyDriver)
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOrDefaultBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envOrDefaultLevel(key string, fallback slog.Level) slog.Level {
	if v := os.Getenv(key); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			return lvl
		}
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
