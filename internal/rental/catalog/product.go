// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package catalog implements the rentable product listings of the marketplace.

A product is a vendor's listing (e.g. "Canon EOS R5 body"); its variants are
the physical units that can be locked for a rental period. Customers browse
the whole catalogue; every write is scoped to the owning vendor by the
authorization engine.
*/
package catalog

import (
	"time"
)

// # Domain Entities

// Product is a vendor's rentable listing.
type Product struct {
	ID          string    `json:"id"`
	VendorID    string    `json:"vendor_id"`
	CategoryID  string    `json:"category_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	DailyPrice  int64     `json:"daily_price_cents"`
	Currency    string    `json:"currency"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Variant is one physical unit of a product. Inventory locks claim variants,
// never products.
type Variant struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	SKU       string    `json:"sku"`
	Condition string    `json:"condition,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldDailyPrice  = "daily_price_cents"
	FieldCurrency    = "currency"
	FieldSKU         = "sku"
	FieldCondition   = "condition"
)
