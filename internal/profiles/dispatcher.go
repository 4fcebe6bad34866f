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

package profiles

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/dotorg/slackprops/internal/models"
)

// Status is the outcome of a dispatch.
type Status int

const (
	// Failed means Profiles did not accept the activity.
	Failed Status = iota
	// Dispatched means Profiles recorded the activity.
	Dispatched
)

func (s Status) String() string {
	if s == Dispatched {
		return "dispatched"
	}
	return "failed"
}

// Result describes a single dispatch attempt.
type Result struct {
	Status Status
	// ActivityID is the id Profiles assigned, set when Dispatched.
	ActivityID int64
	// Response is the raw response body.
	Response string
	// Err is the transport error, if any.
	Err error
}

// OK reports whether the activity was recorded.
func (r Result) OK() bool {
	return r.Status == Dispatched
}

// Poster sends a record and returns the raw response. Implemented by Client.
type Poster interface {
	Post(ctx context.Context, rec models.ActivityRecord) (string, error)
}

// Dispatcher makes one attempt to record a props activity.
type Dispatcher struct {
	poster Poster
}

// NewDispatcher creates a dispatcher over the given poster.
func NewDispatcher(poster Poster) *Dispatcher {
	return &Dispatcher{poster: poster}
}

// Dispatch posts the record once. Failures are logged and reported in the
// Result; nothing is retried.
func (d *Dispatcher) Dispatch(ctx context.Context, rec models.ActivityRecord) Result {
	body, err := d.poster.Post(ctx, rec)
	res := classify(body, err)

	if res.OK() {
		slog.Info("props activity recorded",
			"message_id", rec.MessageID,
			"giver", rec.Giver.Login,
			"recipients", len(rec.RecipientIDs),
			"activity_id", res.ActivityID,
		)
		return res
	}

	slog.Warn("adding activity failed",
		"message_id", rec.MessageID,
		"response", res.Response,
		"error", res.Err,
	)
	return res
}

// classify reads the Profiles response: a numeric body whose integer part
// is positive is the new activity id, anything else is a failure.
func classify(body string, err error) Result {
	res := Result{Status: Failed, Response: body, Err: err}
	if err != nil {
		return res
	}

	token := strings.TrimSpace(body)
	if strings.ContainsAny(token, "xX") {
		// Hex floats parse in Go but are not numeric to Profiles.
		return res
	}

	v, perr := strconv.ParseFloat(token, 64)
	if perr != nil || math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 {
		return res
	}

	id := int64(v)
	if id <= 0 {
		return res
	}

	res.Status = Dispatched
	res.ActivityID = id
	return res
}
