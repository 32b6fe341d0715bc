// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package orders implements the rental order lifecycle.

An order is a customer's claim on one vendor's equipment for a rental period.
Placing an order reserves an inventory lock per requested variant; the locks
live as long as the order blocks the calendar and are released when the order
reaches a state that frees the stock.

# Lifecycle

	pending ──approve──▶ approved ──complete──▶ completed
	   │                                            (locks released)
	   ├──reject──▶ rejected  (locks released)
	   └──cancel──▶ cancelled (locks released)

Approval keeps the locks: an approved rental still blocks the calendar until
the equipment comes back.
*/
package orders

import (
	"time"
)

// # Order States

// Status is the lifecycle state of an order.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// transitions lists the permitted state changes.
var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// CanTransition reports whether the move from the current status to the
// target is permitted.
func (s Status) CanTransition(target Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is an end state.
func (s Status) Terminal() bool {
	return len(transitions[s]) == 0
}

// # Entities

// Order is a customer's rental claim against one vendor.
type Order struct {
	ID         string    `json:"id"`
	CustomerID string    `json:"customer_id"`
	VendorID   string    `json:"vendor_id"`
	Status     Status    `json:"status"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"` // Exclusive, mirrors the lock range.
	Items      []Item    `json:"items"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Item is one requested variant within an order.
type Item struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	VariantID string `json:"variant_id"`
	ProductID string `json:"product_id"`
}
