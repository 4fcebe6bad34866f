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

// propsd — Slack props to WordPress.org Profiles
//
// Receives Slack Events API callbacks for messages posted in #props,
// resolves the giver and mentioned users to WordPress.org accounts and
// records a props_given activity on their profiles.
//
// Usage:
//
//	propsd serve
//	propsd replay --file event.json [--dry-run]
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "propsd",
		Short:        "Record Slack props on WordPress.org profiles",
		SilenceUsage: true,
	}

	root.AddCommand(serveCmd())
	root.AddCommand(replayCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setupLogging installs the structured JSON logger as default.
func setupLogging(level slog.Level) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
