// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package inventory

import (
	"context"
	"time"
)

// # Lock Data Access

// Repository defines the persistence contract for inventory locks.
//
// Implementations must make Reserve atomic per variant: the overlap check and
// the insert happen under a serialization primitive keyed by the variant, so
// concurrent overlapping reservations resolve to exactly one winner.
type Repository interface {

	/*
		Reserve atomically checks the variant for active overlapping locks in
		[startsAt, endsAt) and inserts the new lock when the range is free.

		Parameters:
		  - context: context.Context
		  - lock: *Lock (Status must be StatusActive)

		Returns:
		  - error: apperr.Conflict when an active lock overlaps, otherwise
		    persistence failures
	*/
	Reserve(context context.Context, lock *Lock) error

	/*
		FindByID returns the lock with the given ID.

		Returns:
		  - *Lock: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Lock, error)

	/*
		ListActiveOverlapping returns active locks on the variant whose range
		intersects [startsAt, endsAt).

		Returns:
		  - []*Lock: Overlapping active locks (possibly empty)
		  - error: Retrieval failures
	*/
	ListActiveOverlapping(context context.Context, variantID string, startsAt, endsAt time.Time) ([]*Lock, error)

	/*
		ListByOrder returns all locks claimed for the order, any status.

		Returns:
		  - []*Lock: The order's locks
		  - error: Retrieval failures
	*/
	ListByOrder(context context.Context, orderID string) ([]*Lock, error)

	/*
		Update persists a lock's mutable fields (status, updatedat).

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, lock *Lock) error
}
