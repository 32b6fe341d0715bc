// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package orders

import (
	"context"

	"github.com/rentiva/rentiva/pkg/pagination"
)

// # Order Data Access

// Repository defines the persistence contract for orders.
type Repository interface {

	/*
		Create persists a new order together with its items.

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, order *Order) error

	/*
		FindByID returns the order with its items.

		Returns:
		  - *Order: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Order, error)

	/*
		ListByCustomer returns the customer's orders, newest first.

		Returns:
		  - []*Order, int (total), error
	*/
	ListByCustomer(context context.Context, customerID string, params pagination.Params) ([]*Order, int, error)

	/*
		ListByVendor returns the vendor's incoming orders, newest first.

		Returns:
		  - []*Order, int (total), error
	*/
	ListByVendor(context context.Context, vendorID string, params pagination.Params) ([]*Order, int, error)

	/*
		UpdateStatus persists a status transition.

		Returns:
		  - error: Persistence failures
	*/
	UpdateStatus(context context.Context, orderID string, status Status) error
}
