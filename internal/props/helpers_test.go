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
	"encoding/json"
	"os"
	"testing"

	"github.com/dotorg/slackprops/internal/models"
)

// validEvent returns a fresh copy of the message event in testdata.
func validEvent(t *testing.T) *models.InboundEvent {
	t.Helper()

	data, err := os.ReadFile("testdata/valid-request.json")
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}

	var env struct {
		Event models.InboundEvent `json:"event"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return &env.Event
}

// eventWithBlocks returns a valid event whose blocks are replaced by raw JSON.
func eventWithBlocks(t *testing.T, blocks string) *models.InboundEvent {
	t.Helper()
	e := validEvent(t)
	e.Blocks = json.RawMessage(blocks)
	return e
}

// fixtureMentions is every user mentioned in the fixture, in order.
var fixtureMentions = []string{
	"U02RR6SGY",
	"U02RQHNND",
	"U3KJ0TK4L",
	"U4L99HZB6",
	"U024MFP4L",
	"U6R2E3Y9Y",
	"U023GFZJ07L",
	"U1E5RLU1L",
}
