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
	"errors"
	"reflect"
	"testing"

	"github.com/dotorg/slackprops/internal/models"
)

// fakeLookup serves accounts from memory and records each batch it is asked for.
type fakeLookup struct {
	accounts map[string]models.DirectoryAccount
	err      error
	batches  [][]string
}

func (f *fakeLookup) LookupSlackUsers(_ context.Context, ids []string) ([]models.DirectoryAccount, error) {
	f.batches = append(f.batches, append([]string(nil), ids...))
	if f.err != nil {
		return nil, f.err
	}
	var out []models.DirectoryAccount
	// Reverse order, like an unordered SQL result.
	for i := len(ids) - 1; i >= 0; i-- {
		if a, ok := f.accounts[ids[i]]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func newFakeLookup() *fakeLookup {
	return &fakeLookup{accounts: map[string]models.DirectoryAccount{
		"U1": {SlackID: "U1", ID: 1, Login: "alice"},
		"U2": {SlackID: "U2", ID: 2, Login: "bob"},
		"U3": {SlackID: "U3", ID: 3, Login: "carol"},
	}}
}

func TestResolver_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		wantIDs     []int64
		wantBatches [][]string
	}{
		{
			name:        "empty input",
			ids:         nil,
			wantIDs:     []int64{},
			wantBatches: nil,
		},
		{
			name:        "only blanks",
			ids:         []string{"", ""},
			wantIDs:     []int64{},
			wantBatches: nil,
		},
		{
			name:        "all found in input order",
			ids:         []string{"U3", "U1", "U2"},
			wantIDs:     []int64{3, 1, 2},
			wantBatches: [][]string{{"U3", "U1", "U2"}},
		},
		{
			name:        "partial",
			ids:         []string{"U1", "U9", "U2"},
			wantIDs:     []int64{1, 2},
			wantBatches: [][]string{{"U1", "U9", "U2"}},
		},
		{
			name:        "duplicates collapsed into one batch",
			ids:         []string{"U2", "U2", "U1"},
			wantIDs:     []int64{2, 1},
			wantBatches: [][]string{{"U2", "U1"}},
		},
		{
			name:        "none found",
			ids:         []string{"U8", "U9"},
			wantIDs:     []int64{},
			wantBatches: [][]string{{"U8", "U9"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := newFakeLookup()
			r := NewResolver(lookup)

			got, err := r.Resolve(context.Background(), tt.ids)
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if ids := got.IDs(); !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Resolve() ids = %v, want %v", ids, tt.wantIDs)
			}
			if !reflect.DeepEqual(lookup.batches, tt.wantBatches) {
				t.Errorf("lookup batches = %v, want %v", lookup.batches, tt.wantBatches)
			}
		})
	}
}

func TestResolver_ResolveError(t *testing.T) {
	boom := errors.New("too many connections")
	lookup := &fakeLookup{err: boom}
	r := NewResolver(lookup)

	got, err := r.Resolve(context.Background(), []string{"U1"})
	if !errors.Is(err, boom) {
		t.Fatalf("Resolve() error = %v, want wrapped %v", err, boom)
	}
	if got.Len() != 0 {
		t.Errorf("Resolve() returned %d accounts on error", got.Len())
	}
}

// TestResolver_Login verifies the account fields survive resolution.
func TestResolver_Login(t *testing.T) {
	r := NewResolver(newFakeLookup())

	got, err := r.Resolve(context.Background(), []string{"U2"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	acct, ok := got.Get("U2")
	if !ok || acct.Login != "bob" || acct.ID != 2 {
		t.Errorf("Get(U2) = %+v, %v; want bob/2", acct, ok)
	}
}
