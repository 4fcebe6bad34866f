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
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotorg/slackprops/internal/config"
	"github.com/dotorg/slackprops/internal/directory"
	"github.com/dotorg/slackprops/internal/models"
	"github.com/dotorg/slackprops/internal/profiles"
	"github.com/dotorg/slackprops/internal/props"
)

func replayCmd() *cobra.Command {
	var (
		file   string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Run a saved Slack event through the props pipeline",
		Long: "Reads an Events API callback (or its inner message event) from a JSON file\n" +
			"and processes it once. Useful for recovering deliveries that failed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), file, dryRun)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the event JSON (required)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve and rewrite but do not post to Profiles")
	cmd.MarkFlagRequired("file")

	return cmd
}

func runReplay(ctx context.Context, file string, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		setupLogging(slog.LevelInfo)
		slog.Error("failed to load configuration", "error", err)
		return err
	}
	setupLogging(cfg.LogLevel)

	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("read event file: %w", err)
	}

	event, err := parseReplayEvent(data)
	if err != nil {
		return err
	}

	pgPool, err := connectPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pgPool.Close()

	var dispatcher props.Dispatcher
	if dryRun {
		dispatcher = dryRunDispatcher{}
	} else {
		client := profiles.NewClient(profilesHTTPClient(ctx, cfg.Profiles), cfg.Profiles.URL)
		dispatcher = profiles.NewDispatcher(client)
	}

	// Notifications are skipped on replay; the first delivery may already
	// have produced one.
	processor := newProcessor(cfg, directory.NewStore(pgPool), dispatcher, nil)

	outcome, err := processor.Handle(ctx, event)
	if err != nil {
		slog.Error("replay failed", "message_id", event.MessageID(), "error", err)
		return err
	}

	fmt.Println(outcome)
	return nil
}

// parseReplayEvent accepts either a full event_callback envelope or a bare
// message event.
func parseReplayEvent(data []byte) (*models.InboundEvent, error) {
	var env struct {
		Event json.RawMessage `json:"event"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode event file: %w", err)
	}

	raw := data
	if len(env.Event) > 0 {
		raw = env.Event
	}

	var event models.InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("decode message event: %w", err)
	}
	return &event, nil
}

// dryRunDispatcher prints the record instead of posting it.
type dryRunDispatcher struct{}

func (dryRunDispatcher) Dispatch(_ context.Context, rec models.ActivityRecord) profiles.Result {
	out, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Fprintln(os.Stderr, string(out))
	return profiles.Result{Status: profiles.Failed, Response: "dry run"}
}
