// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package inventory implements time-range locking for rentable stock.

A lock claims one product variant for a half-open interval [start, end): the
start day is included, the end day is the return day and is already bookable
by the next customer. Overlap against other active locks is what "this item
is taken" means — there are no quantity counters.

# Concurrency

Correctness hinges on check-then-insert being serialized per variant. Two
concurrent reservations for overlapping ranges must resolve to exactly one
winner. The in-memory path serializes through a single store mutex; the
PostgreSQL path takes a transaction-scoped advisory lock on the variant key.
*/
package inventory

import (
	"time"
)

// # Lock States

// Status is the lifecycle state of an inventory lock.
type Status string

const (
	// StatusActive marks a lock that currently blocks its time range.
	StatusActive Status = "active"

	// StatusReleased is terminal: the range is free again and the lock can
	// never return to active.
	StatusReleased Status = "released"
)

// # Entity

// Lock claims one variant for a half-open time range on behalf of an order.
type Lock struct {
	ID         string     `json:"id"`
	VariantID  string     `json:"variant_id"`
	OrderID    string     `json:"order_id"`
	StartsAt   time.Time  `json:"starts_at"`
	EndsAt     time.Time  `json:"ends_at"` // Exclusive: the return day is bookable.
	Status     Status     `json:"status"`
	ReleasedAt *time.Time `json:"released_at,omitempty"` // Nil while active.
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Active reports whether the lock currently blocks its range.
func (l *Lock) Active() bool {
	return l.Status == StatusActive
}

// Overlaps reports whether the half-open interval [starts, ends) intersects
// the lock's own range. Back-to-back rentals — one ending exactly when the
// next starts — do not overlap.
func (l *Lock) Overlaps(starts, ends time.Time) bool {
	return starts.Before(l.EndsAt) && ends.After(l.StartsAt)
}

// Release moves the lock to its terminal state, stamping the release time.
// Releasing an already released lock is a no-op, which keeps order
// cancellation idempotent and freezes the original release timestamp.
func (l *Lock) Release(now time.Time) {
	if l.Status == StatusReleased {
		return
	}
	l.Status = StatusReleased
	l.ReleasedAt = &now
	l.UpdatedAt = now
}
