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

package directory

import (
	"context"
	"fmt"

	"github.com/dotorg/slackprops/internal/models"
)

// Lookup fetches the directory accounts linked to a batch of Slack ids.
// Implemented by Store.
type Lookup interface {
	LookupSlackUsers(ctx context.Context, slackIDs []string) ([]models.DirectoryAccount, error)
}

// Resolver maps Slack ids to directory accounts with one batched lookup.
type Resolver struct {
	lookup Lookup
}

// NewResolver creates a resolver over the given lookup.
func NewResolver(lookup Lookup) *Resolver {
	return &Resolver{lookup: lookup}
}

// Resolve returns the accounts linked to slackIDs, ordered like slackIDs.
// Unlinked ids are simply absent. An empty input never reaches the lookup.
func (r *Resolver) Resolve(ctx context.Context, slackIDs []string) (models.Accounts, error) {
	ids := uniqueNonEmpty(slackIDs)
	if len(ids) == 0 {
		return models.Accounts{}, nil
	}

	rows, err := r.lookup.LookupSlackUsers(ctx, ids)
	if err != nil {
		return models.Accounts{}, fmt.Errorf("resolve %d slack ids: %w", len(ids), err)
	}

	found := make(map[string]models.DirectoryAccount, len(rows))
	for _, row := range rows {
		if _, ok := found[row.SlackID]; !ok {
			found[row.SlackID] = row
		}
	}

	var accounts models.Accounts
	for _, id := range ids {
		if acct, ok := found[id]; ok {
			accounts.Add(acct)
		}
	}
	return accounts, nil
}

func uniqueNonEmpty(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
