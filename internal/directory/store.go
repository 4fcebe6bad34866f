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

// Package directory resolves Slack user ids to directory (WordPress.org)
// accounts. Store reads the slack_users link table in Postgres; Resolver
// wraps any Lookup with the batching rules the props pipeline relies on.
package directory

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dotorg/slackprops/internal/models"
)

// Querier is the subset of *pgxpool.Pool the store needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store looks up directory accounts in Postgres.
type Store struct {
	db Querier
}

// NewStore creates a directory store backed by the given pool.
func NewStore(db Querier) *Store {
	return &Store{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// buildLookupQuery selects the linked accounts for a set of Slack ids. The
// ids are always passed as bound parameters.
func buildLookupQuery(slackIDs []string) (string, []any, error) {
	return psql.
		Select("su.slack_id", "su.user_id", "u.user_login").
		From("slack_users su").
		Join("users u ON su.user_id = u.id").
		Where(sq.Eq{"su.slack_id": slackIDs}).
		ToSql()
}

// LookupSlackUsers returns one account per linked Slack id. Ids without a
// linked account produce no row.
func (s *Store) LookupSlackUsers(ctx context.Context, slackIDs []string) ([]models.DirectoryAccount, error) {
	if len(slackIDs) == 0 {
		return nil, nil
	}

	query, args, err := buildLookupQuery(slackIDs)
	if err != nil {
		return nil, fmt.Errorf("build lookup query: %w", err)
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query slack users: %w", err)
	}
	defer rows.Close()

	var accounts []models.DirectoryAccount
	for rows.Next() {
		var a models.DirectoryAccount
		if err := rows.Scan(&a.SlackID, &a.ID, &a.Login); err != nil {
			return nil, fmt.Errorf("scan slack user: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slack users: %w", err)
	}

	return accounts, nil
}
