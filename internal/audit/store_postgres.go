// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package audit

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
Insert appends an audit entry into the audit.trail table.

Parameters:
  - context: context.Context
  - entry: *Entry

Returns:
  - error: Storage failures
*/
func (repository *PostgresRepository) Insert(context context.Context, entry *Entry) error {
	const query = `
		INSERT INTO audit.trail (
			id, entitytype, entityid, action, oldvalue, newvalue, actorid, createdat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := repository.pool.Exec(context, query,
		entry.ID,
		entry.EntityType,
		entry.EntityID,
		entry.Action,
		entry.OldValue,
		entry.NewValue,
		entry.ActorID,
		entry.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("postgres_audit_repo_insert_failed: %w", err)
	}

	return nil
}

/*
ListByEntity retrieves entries for one entity, newest first.

Parameters:
  - context: context.Context
  - entityType, entityID: string
  - limit: int

Returns:
  - []*Entry: Matching entries
  - error: Query failures
*/
func (repository *PostgresRepository) ListByEntity(context context.Context, entityType, entityID string, limit int) ([]*Entry, error) {
	const query = `
		SELECT id, entitytype, entityid, action, oldvalue, newvalue, actorid, createdat
		FROM audit.trail
		WHERE entitytype = $1 AND entityid = $2
		ORDER BY createdat DESC
		LIMIT $3`

	rows, err := repository.pool.Query(context, query, entityType, entityID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_audit_repo_list_by_entity_failed: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

/*
ListByActor retrieves entries produced by one actor, newest first.
*/
func (repository *PostgresRepository) ListByActor(context context.Context, actorID string, limit int) ([]*Entry, error) {
	const query = `
		SELECT id, entitytype, entityid, action, oldvalue, newvalue, actorid, createdat
		FROM audit.trail
		WHERE actorid = $1
		ORDER BY createdat DESC
		LIMIT $2`

	rows, err := repository.pool.Query(context, query, actorID, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres_audit_repo_list_by_actor_failed: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// rowScanner is the subset of pgx.Rows needed by scanEntries.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanEntries(rows rowScanner) ([]*Entry, error) {
	entries := make([]*Entry, 0)
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Action,
			&entry.OldValue,
			&entry.NewValue,
			&entry.ActorID,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres_audit_repo_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_audit_repo_rows_failed: %w", err)
	}

	return entries, nil
}
