// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentiva/rentiva/internal/platform/apperr"
)

// # Postgres Lock Repository

// PostgresRepository implements the Repository interface using pgx.
//
// # Serialization
//
// Reserve runs inside a transaction that first takes
// pg_advisory_xact_lock(hashtext(variantid)). Every reservation for the same
// variant therefore queues on the same advisory key, making the overlap
// check and the insert a single critical section. The lock is released
// automatically at commit or rollback.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const lockColumns = "id, variantid, orderid, startsat, endsat, status, releasedat, createdat, updatedat"

func scanLock(row pgx.Row) (*Lock, error) {
	lock := &Lock{}
	err := row.Scan(
		&lock.ID,
		&lock.VariantID,
		&lock.OrderID,
		&lock.StartsAt,
		&lock.EndsAt,
		&lock.Status,
		&lock.ReleasedAt,
		&lock.CreatedAt,
		&lock.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return lock, nil
}

/*
Reserve atomically checks for overlap and inserts the lock.

Description: The half-open overlap predicate (startsat < $end AND
endsat > $start) mirrors the domain rule in [Lock.Overlaps]. Released locks
never block.

Parameters:
  - context: context.Context
  - lock: *Lock

Returns:
  - error: apperr.Conflict when the range is taken, otherwise storage failures
*/
func (repository *PostgresRepository) Reserve(context context.Context, lock *Lock) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_lock_repo_begin_failed: %w", err)
	}
	defer func() { _ = transaction.Rollback(context) }()

	// Serialize all reservations for this variant.
	if _, err := transaction.Exec(context,
		"SELECT pg_advisory_xact_lock(hashtext($1))", lock.VariantID); err != nil {
		return fmt.Errorf("postgres_lock_repo_advisory_lock_failed: %w", err)
	}

	// Check-then-insert under the advisory lock.
	const overlapQuery = `
		SELECT COUNT(*)
		FROM rental.inventorylock
		WHERE variantid = $1
		  AND status = 'active'
		  AND startsat < $3
		  AND endsat > $2`

	var overlapping int
	if err := transaction.QueryRow(context, overlapQuery,
		lock.VariantID, lock.StartsAt, lock.EndsAt).Scan(&overlapping); err != nil {
		return fmt.Errorf("postgres_lock_repo_overlap_check_failed: %w", err)
	}

	if overlapping > 0 {
		return apperr.Conflict("The requested time range is no longer available")
	}

	const insertQuery = `
		INSERT INTO rental.inventorylock (
			id, variantid, orderid, startsat, endsat, status, releasedat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	now := time.Now()
	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = now
	}
	lock.UpdatedAt = now

	if _, err := transaction.Exec(context, insertQuery,
		lock.ID,
		lock.VariantID,
		lock.OrderID,
		lock.StartsAt,
		lock.EndsAt,
		lock.Status,
		lock.ReleasedAt,
		lock.CreatedAt,
		lock.UpdatedAt,
	); err != nil {
		return fmt.Errorf("postgres_lock_repo_insert_failed: %w", err)
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_lock_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves a lock by its unique ID.

Returns:
  - *Lock: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Lock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM rental.inventorylock
		WHERE id = $1`

	lock, err := scanLock(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Inventory lock")
		}
		return nil, fmt.Errorf("postgres_lock_repo_find_by_id_failed: %w", err)
	}

	return lock, nil
}

/*
ListActiveOverlapping returns active locks intersecting [startsAt, endsAt).
*/
func (repository *PostgresRepository) ListActiveOverlapping(context context.Context, variantID string, startsAt, endsAt time.Time) ([]*Lock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM rental.inventorylock
		WHERE variantid = $1
		  AND status = 'active'
		  AND startsat < $3
		  AND endsat > $2
		ORDER BY startsat`

	rows, err := repository.pool.Query(context, query, variantID, startsAt, endsAt)
	if err != nil {
		return nil, fmt.Errorf("postgres_lock_repo_list_overlapping_failed: %w", err)
	}
	defer rows.Close()

	return collectLocks(rows)
}

/*
ListByOrder returns all locks claimed for the order.
*/
func (repository *PostgresRepository) ListByOrder(context context.Context, orderID string) ([]*Lock, error) {
	query := `
		SELECT ` + lockColumns + `
		FROM rental.inventorylock
		WHERE orderid = $1
		ORDER BY createdat`

	rows, err := repository.pool.Query(context, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("postgres_lock_repo_list_by_order_failed: %w", err)
	}
	defer rows.Close()

	return collectLocks(rows)
}

/*
Update persists the lock's status, release timestamp, and updatedat.
*/
func (repository *PostgresRepository) Update(context context.Context, lock *Lock) error {
	const query = `
		UPDATE rental.inventorylock
		SET status = $2, releasedat = $3, updatedat = $4
		WHERE id = $1`

	lock.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query, lock.ID, lock.Status, lock.ReleasedAt, lock.UpdatedAt)
	if err != nil {
		return fmt.Errorf("postgres_lock_repo_update_failed: %w", err)
	}

	return nil
}

func collectLocks(rows pgx.Rows) ([]*Lock, error) {
	locks := make([]*Lock, 0)
	for rows.Next() {
		lock, err := scanLock(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_lock_repo_scan_failed: %w", err)
		}
		locks = append(locks, lock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_lock_repo_rows_failed: %w", err)
	}

	return locks, nil
}
