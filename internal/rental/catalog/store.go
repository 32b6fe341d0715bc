// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package catalog

import (
	"context"

	"github.com/rentiva/rentiva/pkg/pagination"
)

// # Product Data Access

// Repository defines the persistence contract for products and variants.
type Repository interface {

	/*
		CreateProduct persists a new listing.

		Returns:
		  - error: Persistence failures (unique slug violations surface as
		    conflicts through dberr)
	*/
	CreateProduct(context context.Context, product *Product) error

	/*
		FindProductByID returns the product with the given ID.

		Returns:
		  - *Product: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindProductByID(context context.Context, id string) (*Product, error)

	/*
		FindProductBySlug returns the published product with the given slug.

		Returns:
		  - *Product: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindProductBySlug(context context.Context, slug string) (*Product, error)

	/*
		ListProducts returns published products, newest first.

		Parameters:
		  - params: pagination.Params
		  - vendorID: string (empty lists all vendors)

		Returns:
		  - []*Product: One page of listings
		  - int: Total number of matching rows
		  - error: Retrieval failures
	*/
	ListProducts(context context.Context, params pagination.Params, vendorID string) ([]*Product, int, error)

	/*
		UpdateProduct persists a listing's mutable fields.
	*/
	UpdateProduct(context context.Context, product *Product) error

	/*
		DeleteProduct removes the listing and its variants.
	*/
	DeleteProduct(context context.Context, id string) error

	/*
		CreateVariant persists a new physical unit of a product.
	*/
	CreateVariant(context context.Context, variant *Variant) error

	/*
		FindVariantByID returns the variant with the given ID.

		Returns:
		  - *Variant: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindVariantByID(context context.Context, id string) (*Variant, error)

	/*
		ListVariants returns all variants of a product.
	*/
	ListVariants(context context.Context, productID string) ([]*Variant, error)

	/*
		UpdateVariant persists a variant's mutable fields.
	*/
	UpdateVariant(context context.Context, variant *Variant) error
}
