// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package catalog

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

// # Postgres Catalog Repository

// PostgresRepository implements the Repository interface using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of Repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const productColumns = "id, vendorid, categoryid, name, slug, description, dailyprice, currency, ispublished, createdat, updatedat"

func scanProduct(row pgx.Row) (*Product, error) {
	product := &Product{}
	err := row.Scan(
		&product.ID,
		&product.VendorID,
		&product.CategoryID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.DailyPrice,
		&product.Currency,
		&product.IsPublished,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

/*
CreateProduct persists a new listing into the rental.product table.

Returns:
  - error: apperr.Conflict on duplicate slug, otherwise storage failures
*/
func (repository *PostgresRepository) CreateProduct(context context.Context, product *Product) error {
	const query = `
		INSERT INTO rental.product (
			id, vendorid, categoryid, name, slug, description, dailyprice, currency, ispublished, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.VendorID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.DailyPrice,
		product.Currency,
		product.IsPublished,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_create_product")
	}

	return nil
}

/*
FindProductByID retrieves a listing by its unique ID.
*/
func (repository *PostgresRepository) FindProductByID(context context.Context, id string) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM rental.product
		WHERE id = $1`

	product, err := scanProduct(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_catalog_repo_find_product_failed: %w", err)
	}

	return product, nil
}

/*
FindProductBySlug retrieves a published listing by its slug.
*/
func (repository *PostgresRepository) FindProductBySlug(context context.Context, slug string) (*Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM rental.product
		WHERE slug = $1 AND ispublished = TRUE`

	product, err := scanProduct(repository.pool.QueryRow(context, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Product")
		}
		return nil, fmt.Errorf("postgres_catalog_repo_find_by_slug_failed: %w", err)
	}

	return product, nil
}

/*
ListProducts returns one page of published listings, newest first.

Parameters:
  - params: pagination.Params
  - vendorID: string (empty lists all vendors)

Returns:
  - []*Product, int (total), error
*/
func (repository *PostgresRepository) ListProducts(context context.Context, params pagination.Params, vendorID string) ([]*Product, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM rental.product
		WHERE ispublished = TRUE AND ($1 = '' OR vendorid = $1)`

	var total int
	if err := repository.pool.QueryRow(context, countQuery, vendorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_repo_count_failed: %w", err)
	}

	query := `
		SELECT ` + productColumns + `
		FROM rental.product
		WHERE ispublished = TRUE AND ($1 = '' OR vendorid = $1)
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, vendorID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_repo_list_failed: %w", err)
	}
	defer rows.Close()

	products := make([]*Product, 0, params.Limit)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_catalog_repo_scan_failed: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_catalog_repo_rows_failed: %w", err)
	}

	return products, total, nil
}

/*
UpdateProduct persists a listing's mutable fields.
*/
func (repository *PostgresRepository) UpdateProduct(context context.Context, product *Product) error {
	const query = `
		UPDATE rental.product
		SET categoryid = $2, name = $3, slug = $4, description = $5,
		    dailyprice = $6, currency = $7, ispublished = $8, updatedat = $9
		WHERE id = $1`

	product.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.CategoryID,
		product.Name,
		product.Slug,
		product.Description,
		product.DailyPrice,
		product.Currency,
		product.IsPublished,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_update_product")
	}

	return nil
}

/*
DeleteProduct removes the listing; variants go with it via ON DELETE CASCADE.
*/
func (repository *PostgresRepository) DeleteProduct(context context.Context, id string) error {
	const query = "DELETE FROM rental.product WHERE id = $1"
	_, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_catalog_repo_delete_failed: %w", err)
	}
	return nil
}

// # Variants

const variantColumns = "id, productid, sku, condition, isactive, createdat, updatedat"

func scanVariant(row pgx.Row) (*Variant, error) {
	variant := &Variant{}
	err := row.Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.SKU,
		&variant.Condition,
		&variant.IsActive,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return variant, nil
}

/*
CreateVariant persists a new physical unit.
*/
func (repository *PostgresRepository) CreateVariant(context context.Context, variant *Variant) error {
	const query = `
		INSERT INTO rental.variant (
			id, productid, sku, condition, isactive, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if variant.CreatedAt.IsZero() {
		variant.CreatedAt = now
	}
	variant.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		variant.ID,
		variant.ProductID,
		variant.SKU,
		variant.Condition,
		variant.IsActive,
		variant.CreatedAt,
		variant.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_create_variant")
	}

	return nil
}

/*
FindVariantByID retrieves a variant by its unique ID.
*/
func (repository *PostgresRepository) FindVariantByID(context context.Context, id string) (*Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM rental.variant
		WHERE id = $1`

	variant, err := scanVariant(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Variant")
		}
		return nil, fmt.Errorf("postgres_catalog_repo_find_variant_failed: %w", err)
	}

	return variant, nil
}

/*
ListVariants returns all variants of a product.
*/
func (repository *PostgresRepository) ListVariants(context context.Context, productID string) ([]*Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM rental.variant
		WHERE productid = $1
		ORDER BY createdat`

	rows, err := repository.pool.Query(context, query, productID)
	if err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_list_variants_failed: %w", err)
	}
	defer rows.Close()

	variants := make([]*Variant, 0)
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_catalog_repo_scan_variant_failed: %w", err)
		}
		variants = append(variants, variant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres_catalog_repo_variant_rows_failed: %w", err)
	}

	return variants, nil
}

/*
UpdateVariant persists a variant's mutable fields.
*/
func (repository *PostgresRepository) UpdateVariant(context context.Context, variant *Variant) error {
	const query = `
		UPDATE rental.variant
		SET sku = $2, condition = $3, isactive = $4, updatedat = $5
		WHERE id = $1`

	variant.UpdatedAt = time.Now()
	_, err := repository.pool.Exec(context, query,
		variant.ID,
		variant.SKU,
		variant.Condition,
		variant.IsActive,
		variant.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "catalog_update_variant")
	}

	return nil
}
