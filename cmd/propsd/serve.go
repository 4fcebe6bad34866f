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
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dotorg/slackprops/internal/config"
	"github.com/dotorg/slackprops/internal/dedup"
	"github.com/dotorg/slackprops/internal/directory"
	"github.com/dotorg/slackprops/internal/profiles"
	"github.com/dotorg/slackprops/internal/webhook"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the Slack Events API webhook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		setupLogging(slog.LevelInfo)
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	setupLogging(cfg.LogLevel)

	slog.Info("starting props service",
		"workspace", cfg.Slack.Workspace,
		"channels", cfg.Slack.Channels,
		"sandboxed", cfg.Sandboxed,
		"notify", cfg.NotifyDriver,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Connect to PostgreSQL (directory) ---
	pgPool, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to directory database", "error", err)
		return err
	}
	defer pgPool.Close()
	slog.Info("connected to PostgreSQL")

	// --- Connect to Redis ---
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		slog.Error("invalid REDIS_URL", "error", err)
		return err
	}
	rdb := redis.NewClient(opt)
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("failed to connect to Redis", "error", err)
		return err
	}
	slog.Info("connected to Redis")

	// --- Notifications ---
	notifier, err := newNotifier(cfg, rdb)
	if err != nil {
		slog.Error("failed to set up notifier", "driver", cfg.NotifyDriver, "error", err)
		return err
	}
	if notifier != nil {
		defer notifier.Close()
	}

	// --- Pipeline ---
	client := profiles.NewClient(profilesHTTPClient(ctx, cfg.Profiles), cfg.Profiles.URL)
	processor := newProcessor(cfg,
		directory.NewStore(pgPool),
		profiles.NewDispatcher(client),
		notifier,
	)

	// --- Webhook Server ---
	handler := webhook.NewHandler(processor, dedup.NewFilter(rdb, cfg.DedupTTL), cfg.Slack.SigningSecret)
	if cfg.Slack.SigningSecret == "" {
		slog.Warn("slack signing secret not set; request signatures are not verified")
	}
	ready, err := webhook.Serve(ctx, cfg.WebhookPort, handler)
	if err != nil {
		slog.Error("failed to start webhook server", "error", err)
		return err
	}
	<-ready

	// --- Health Check Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := rdb.Ping(r.Context()).Err(); err != nil {
			http.Error(w, "redis unhealthy", http.StatusServiceUnavailable)
			return
		}
		if err := pgPool.Ping(r.Context()); err != nil {
			http.Error(w, "postgres unhealthy", http.StatusServiceUnavailable)
			return
		}
		if notifier != nil {
			if err := notifier.Ping(r.Context()); err != nil {
				http.Error(w, "notifier unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// --- Graceful Shutdown ---
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh

		slog.Info("received shutdown signal", "signal", sig)
		cancel() // stops the webhook server

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("health server listening", "addr", addr)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		return err
	}

	slog.Info("props service stopped")
	return nil
}
