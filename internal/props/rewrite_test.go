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
	"testing"

	"github.com/dotorg/slackprops/internal/models"
)

// fixtureAccounts are the directory accounts for every fixture mention.
func fixtureAccounts() models.Accounts {
	return models.NewAccounts(
		models.DirectoryAccount{SlackID: "U02RR6SGY", ID: 2255796, Login: "Mamaduka"},
		models.DirectoryAccount{SlackID: "U02RQHNND", ID: 297445, Login: "SergeyBiryukov"},
		models.DirectoryAccount{SlackID: "U3KJ0TK4L", ID: 15049054, Login: "davidbaumwald"},
		models.DirectoryAccount{SlackID: "U4L99HZB6", ID: 8976791, Login: "pbiron"},
		models.DirectoryAccount{SlackID: "U024MFP4L", ID: 2545, Login: "markjaquith"},
		models.DirectoryAccount{SlackID: "U6R2E3Y9Y", ID: 15524609, Login: "webcommsat"},
		models.DirectoryAccount{SlackID: "U023GFZJ07L", ID: 18752239, Login: "costdev"},
		models.DirectoryAccount{SlackID: "U1E5RLU1L", ID: 15152479, Login: "jeroenrotty"},
	)
}

const fixtureRewritten = "props to @Mamaduka for co-leading 5.9.3 RC 1, to @SergeyBiryukov for running mission control and to @davidbaumwald @pbiron @markjaquith @webcommsat @costdev @jeroenrotty for their help testing the release package :community: :wordpress:"

func TestRewrite(t *testing.T) {
	alice := models.DirectoryAccount{SlackID: "U1", ID: 1, Login: "alice"}
	bob := models.DirectoryAccount{SlackID: "U2", ID: 2, Login: "bob"}

	tests := []struct {
		name     string
		text     string
		accounts models.Accounts
		want     string
	}{
		{
			name:     "no accounts",
			text:     "thanks <@U1>",
			accounts: models.Accounts{},
			want:     "thanks <@U1>",
		},
		{
			name:     "two recipients",
			text:     "thanks <@U1> and <@U2>",
			accounts: models.NewAccounts(alice, bob),
			want:     "thanks @alice and @bob",
		},
		{
			name:     "repeated token",
			text:     "<@U1> <@U1>!",
			accounts: models.NewAccounts(alice),
			want:     "@alice @alice!",
		},
		{
			name:     "unresolved token left alone",
			text:     "thanks <@U1> and <@U9>",
			accounts: models.NewAccounts(alice),
			want:     "thanks @alice and <@U9>",
		},
		{
			name:     "bare id is not a token",
			text:     "U1 said hi",
			accounts: models.NewAccounts(alice),
			want:     "U1 said hi",
		},
		{
			name:     "empty text",
			text:     "",
			accounts: models.NewAccounts(alice),
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Rewrite(tt.text, tt.accounts); got != tt.want {
				t.Errorf("Rewrite() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRewrite_Fixture(t *testing.T) {
	e := validEvent(t)
	if got := Rewrite(e.Text, fixtureAccounts()); got != fixtureRewritten {
		t.Errorf("Rewrite() =\n%q\nwant\n%q", got, fixtureRewritten)
	}
}
