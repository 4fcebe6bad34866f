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

// Package webhook serves the Slack Events API endpoint. Slack POSTs a
// callback for every message in the channels the app is a member of; the
// handler answers the URL verification handshake, drops redeliveries and
// runs message events through the props processor.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/dotorg/slackprops/internal/models"
	"github.com/dotorg/slackprops/internal/props"
)

// maxBodyBytes caps an Events API request body.
const maxBodyBytes = 1 << 20

// outcomeDuplicate is returned for an event that was already handled.
const outcomeDuplicate = "Duplicate event"

// Envelope is the outer Events API payload.
type Envelope struct {
	Token     string          `json:"token"`
	Type      string          `json:"type"`
	Challenge string          `json:"challenge"`
	TeamID    string          `json:"team_id"`
	EventID   string          `json:"event_id"`
	EventTime int64           `json:"event_time"`
	Event     json.RawMessage `json:"event"`
}

// Processor handles a single message event.
type Processor interface {
	Handle(ctx context.Context, event *models.InboundEvent) (props.Outcome, error)
}

// Deduper claims event ids. Implemented by dedup.Filter.
type Deduper interface {
	IsNew(ctx context.Context, eventID string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

// Handler processes Slack Events API requests.
type Handler struct {
	processor     Processor
	filter        Deduper
	signingSecret string
}

// NewHandler creates an Events API handler. filter may be nil to disable
// redelivery suppression; an empty signingSecret disables signature checks.
func NewHandler(processor Processor, filter Deduper, signingSecret string) *Handler {
	return &Handler{
		processor:     processor,
		filter:        filter,
		signingSecret: signingSecret,
	}
}

// ServeEvents handles Events API webhook requests.
//
// URL verification flow:
//   - When the request URL is configured, Slack POSTs type=url_verification
//   - We must respond 200 OK with the challenge in plain text
//
// Event callback flow:
//   - Slack POSTs type=event_callback with the message in "event"
//   - The message is processed synchronously and the outcome is returned
func (h *Handler) ServeEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		slog.Error("failed to read event body", "error", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if h.signingSecret != "" {
		if err := verifySignature(r.Header, body, h.signingSecret); err != nil {
			slog.Warn("rejecting request with bad signature", "error", err)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		slog.Info("event body not valid JSON", "body_len", len(body))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	switch env.Type {
	case slackevents.URLVerification:
		slog.Info("url verification challenge received")
		writeText(w, http.StatusOK, env.Challenge)
		return
	case slackevents.CallbackEvent:
		h.handleCallback(w, r, env)
	default:
		slog.Debug("ignoring events api payload", "type", env.Type)
		writeText(w, http.StatusOK, string(props.OutcomeInvalid))
	}
}

func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request, env Envelope) {
	ctx := r.Context()

	if h.filter != nil && env.EventID != "" {
		isNew, err := h.filter.IsNew(ctx, env.EventID)
		if err != nil {
			slog.Warn("dedup check failed, proceeding", "error", err)
		} else if !isNew {
			slog.Debug("skipping duplicate event",
				"event_id", env.EventID,
				"retry", r.Header.Get("X-Slack-Retry-Num"),
			)
			writeText(w, http.StatusOK, outcomeDuplicate)
			return
		}
	}

	event, err := decodeEvent(env.Event)
	if err != nil {
		slog.Debug("callback without a decodable event", "event_id", env.EventID, "error", err)
		writeText(w, http.StatusOK, string(props.OutcomeInvalid))
		return
	}

	outcome, err := h.processor.Handle(ctx, event)
	if err != nil {
		slog.Error("props processing failed",
			"event_id", env.EventID,
			"channel", event.Channel,
			"user", event.User,
			"giver_missing", errors.Is(err, props.ErrGiverNotFound),
			"error", err,
		)
		h.release(ctx, env.EventID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if outcome != props.OutcomeInvalid {
		slog.Info("props event handled",
			"event_id", env.EventID,
			"message_id", event.MessageID(),
			"outcome", string(outcome),
		)
	}
	writeText(w, http.StatusOK, string(outcome))
}

// release un-claims an event so Slack's retry is processed.
func (h *Handler) release(ctx context.Context, eventID string) {
	if h.filter == nil || eventID == "" {
		return
	}
	if err := h.filter.Forget(context.WithoutCancel(ctx), eventID); err != nil {
		slog.Warn("failed to release dedup claim", "event_id", eventID, "error", err)
	}
}

func decodeEvent(raw json.RawMessage) (*models.InboundEvent, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, errors.New("missing event")
	}

	var event models.InboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		return nil, fmt.Errorf("decode event: %w", err)
	}
	return &event, nil
}

func verifySignature(header http.Header, body []byte, secret string) error {
	sv, err := slack.NewSecretsVerifier(header, secret)
	if err != nil {
		return fmt.Errorf("init verifier: %w", err)
	}
	if _, err := sv.Write(body); err != nil {
		return fmt.Errorf("hash body: %w", err)
	}
	return sv.Ensure()
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

// Serve starts the webhook HTTP server on the given port.
// It binds the port immediately and signals readiness via the returned channel
// before starting to accept connections.
func Serve(ctx context.Context, port int, handler *Handler) (<-chan struct{}, error) {
	mux := http.NewServeMux()
	mux.HandleFunc("/slack/events", handler.ServeEvents)

	server := &http.Server{
		Handler: mux,
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind webhook port %d: %w", port, err)
	}

	ready := make(chan struct{})

	go func() {
		<-ctx.Done()
		slog.Info("webhook server shutting down")
		server.Close()
	}()

	go func() {
		slog.Info("webhook server listening", "port", port)
		close(ready)
		if err := server.Serve(ln); err != http.ErrServerClosed {
			slog.Error("webhook server error", "error", err)
		}
	}()

	return ready, nil
}
