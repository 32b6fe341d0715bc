// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/dberr"
	"github.com/rentiva/rentiva/pkg/pagination"
)

// # Postgres Order Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const orderColumns = "id, customerid, vendorid, status, startsat, endsat, createdat, updatedat"

func scanOrder(row pgx.Row) (*Order, error) {
	order := &Order{}
	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.VendorID,
		&order.Status,
		&order.StartsAt,
		&order.EndsAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

/*
Create persists the order and its items in one transaction.

Returns:
  - error: apperr.Conflict on duplicate ID, otherwise storage failures
*/
func (repository *PostgresRepository) Create(context context.Context, order *Order) error {
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now

	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_begin_failed: %w", err)
	}
	defer transaction.Rollback(context)

	const orderQuery = `
		INSERT INTO rental.order (
			id, customerid, vendorid, status, startsat, endsat, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = transaction.Exec(context, orderQuery,
		order.ID,
		order.CustomerID,
		order.VendorID,
		order.Status,
		order.StartsAt,
		order.EndsAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "orders_create")
	}

	const itemQuery = `
		INSERT INTO rental.orderitem (
			id, orderid, variantid, productid
		) VALUES ($1, $2, $3, $4)`

	for _, item := range order.Items {
		_, err = transaction.Exec(context, itemQuery,
			item.ID,
			item.OrderID,
			item.VariantID,
			item.ProductID,
		)
		if err != nil {
			return dberr.Wrap(err, "orders_create_item")
		}
	}

	if err := transaction.Commit(context); err != nil {
		return fmt.Errorf("postgres_order_repo_commit_failed: %w", err)
	}

	return nil
}

/*
FindByID retrieves one order together with its items.
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM rental.order
		WHERE id = $1`

	order, err := scanOrder(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Order")
		}
		return nil, fmt.Errorf("postgres_order_repo_find_failed: %w", err)
	}

	if err := repository.loadItems(context, order); err != nil {
		return nil, err
	}

	return order, nil
}

/*
ListByCustomer returns the customer's orders, newest first.
*/
func (repository *PostgresRepository) ListByCustomer(context context.Context, customerID string, params pagination.Params) ([]*Order, int, error) {
	return repository.list(context, "customerid", customerID, params)
}

/*
ListByVendor returns the vendor's incoming orders, newest first.
*/
func (repository *PostgresRepository) ListByVendor(context context.Context, vendorID string, params pagination.Params) ([]*Order, int, error) {
	return repository.list(context, "vendorid", vendorID, params)
}

// list pages orders filtered on one owner column. The column name comes from
// the two callers above, never from request input.
func (repository *PostgresRepository) list(context context.Context, column, value string, params pagination.Params) ([]*Order, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM rental.order
		WHERE ` + column + ` = $1`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, value).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_count_failed: %w", err)
	}

	query := `
		SELECT ` + orderColumns + `
		FROM rental.order
		WHERE ` + column + ` = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, value, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_list_failed: %w", err)
	}
	defer rows.Close()

	result := make([]*Order, 0, params.Limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_order_repo_scan_failed: %w", err)
		}
		result = append(result, order)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_order_repo_rows_failed: %w", err)
	}

	for _, order := range result {
		if err := repository.loadItems(context, order); err != nil {
			return nil, 0, err
		}
	}

	return result, total, nil
}

/*
UpdateStatus persists a status transition.
*/
func (repository *PostgresRepository) UpdateStatus(context context.Context, orderID string, status Status) error {
	const query = `
		UPDATE rental.order
		SET status = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, orderID, status, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_order_repo_update_status_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Order")
	}

	return nil
}

func (repository *PostgresRepository) loadItems(context context.Context, order *Order) error {
	const query = `
		SELECT id, orderid, variantid, productid
		FROM rental.orderitem
		WHERE orderid = $1
		ORDER BY id`

	rows, err := repository.pool.Query(context, query, order.ID)
	if err != nil {
		return fmt.Errorf("postgres_order_repo_items_failed: %w", err)
	}
	defer rows.Close()

	order.Items = make([]Item, 0)
	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.OrderID, &item.VariantID, &item.ProductID); err != nil {
			return fmt.Errorf("postgres_order_repo_scan_item_failed: %w", err)
		}
		order.Items = append(order.Items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("postgres_order_repo_item_rows_failed: %w", err)
	}

	return nil
}
