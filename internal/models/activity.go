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

package models

// DirectoryAccount is a directory user linked to a Slack account.
type DirectoryAccount struct {
	SlackID string `json:"slack_id"`
	ID      int64  `json:"id"`
	Login   string `json:"user_login"`
}

// Accounts is a set of directory accounts keyed by Slack id. Iteration
// follows insertion order.
type Accounts struct {
	order []string
	byID  map[string]DirectoryAccount
}

// NewAccounts builds an Accounts set. Later duplicates of a Slack id are ignored.
func NewAccounts(accounts ...DirectoryAccount) Accounts {
	var a Accounts
	for _, acct := range accounts {
		a.Add(acct)
	}
	return a
}

// Add inserts an account unless its Slack id is already present.
func (a *Accounts) Add(acct DirectoryAccount) {
	if a.byID == nil {
		a.byID = make(map[string]DirectoryAccount)
	}
	if _, ok := a.byID[acct.SlackID]; ok {
		return
	}
	a.byID[acct.SlackID] = acct
	a.order = append(a.order, acct.SlackID)
}

// Get returns the account linked to a Slack id.
func (a Accounts) Get(slackID string) (DirectoryAccount, bool) {
	acct, ok := a.byID[slackID]
	return acct, ok
}

// Len returns the number of accounts.
func (a Accounts) Len() int {
	return len(a.order)
}

// All returns the accounts in insertion order.
func (a Accounts) All() []DirectoryAccount {
	out := make([]DirectoryAccount, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id])
	}
	return out
}

// IDs returns the directory ids in insertion order.
func (a Accounts) IDs() []int64 {
	ids := make([]int64, 0, len(a.order))
	for _, id := range a.order {
		ids = append(ids, a.byID[id].ID)
	}
	return ids
}

// ActivityRecord is the props activity sent to Profiles.
type ActivityRecord struct {
	Giver        DirectoryAccount `json:"giver_user"`
	RecipientIDs []int64          `json:"recipient_ids"`
	Permalink    string           `json:"url"`
	MessageID    string           `json:"message_id"`
	Message      string           `json:"message"`
}
