// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/validate"
	"github.com/rentiva/rentiva/pkg/uuidv7"
)

// # Contracts

// Recorder receives inventory lifecycle events for the audit trail.
type Recorder interface {
	Log(ctx context.Context, entityType, entityID, action, oldValue, newValue, actorID string)
}

// # Service

// Service implements the inventory locking use cases.
type Service struct {
	repository Repository
	recorder   Recorder
	now        func() time.Time
}

// NewService wires the inventory service to its storage.
// The recorder may be nil, in which case lock events are not audited.
func NewService(repository Repository, recorder Recorder) *Service {
	return &Service{
		repository: repository,
		recorder:   recorder,
		now:        time.Now,
	}
}

// WithClock overrides the service's time source. Test hook.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// # Reservation Flow

// ReserveInput describes a reservation claim.
type ReserveInput struct {
	VariantID string
	OrderID   string
	StartsAt  time.Time
	EndsAt    time.Time // Exclusive.
	ActorID   string
}

/*
Reserve claims the variant for [StartsAt, EndsAt) on behalf of an order.

Description: Validates the range, then delegates the serialized
check-then-insert to the repository. When another active lock overlaps, the
caller gets a 409 Conflict — the reservation either fully succeeds or leaves
no trace.

Parameters:
  - context: context.Context
  - input: ReserveInput

Returns:
  - *Lock: The active lock on success
  - error: Validation failures, apperr.Conflict, or storage errors
*/
func (service *Service) Reserve(context context.Context, input ReserveInput) (*Lock, error) {
	validator := &validate.Validator{}
	validator.Required("variant_id", input.VariantID).
		Required("order_id", input.OrderID).
		Custom("starts_at", input.StartsAt.IsZero(), "starts_at is required").
		Custom("ends_at", input.EndsAt.IsZero(), "ends_at is required").
		DateRange("rental_period", input.StartsAt, input.EndsAt)

	if err := validator.Err(); err != nil {
		return nil, err
	}

	now := service.now()
	lock := &Lock{
		ID:        uuidv7.New(),
		VariantID: input.VariantID,
		OrderID:   input.OrderID,
		StartsAt:  input.StartsAt,
		EndsAt:    input.EndsAt,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Reserve(context, lock); err != nil {
		return nil, err
	}

	service.audit(context, lock, "inventory.lock_reserved", input.ActorID)
	return lock, nil
}

/*
CheckAvailability reports whether the variant is free for [startsAt, endsAt).

Returns:
  - bool: true when no active lock overlaps
  - error: Validation or retrieval failures
*/
func (service *Service) CheckAvailability(context context.Context, variantID string, startsAt, endsAt time.Time) (bool, error) {
	validator := &validate.Validator{}
	validator.Required("variant_id", variantID).
		DateRange("rental_period", startsAt, endsAt)

	if err := validator.Err(); err != nil {
		return false, err
	}

	overlapping, err := service.repository.ListActiveOverlapping(context, variantID, startsAt, endsAt)
	if err != nil {
		return false, err
	}

	return len(overlapping) == 0, nil
}

// # Release Flow

/*
Release moves one lock to its terminal released state.

Description: Releasing an already released lock succeeds without effect —
released is terminal and the transition is idempotent. There is no path back
to active; re-claiming the range means a new Reserve.

Parameters:
  - context: context.Context
  - lockID: string
  - actorID: string

Returns:
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Release(context context.Context, lockID, actorID string) error {
	lock, err := service.repository.FindByID(context, lockID)
	if err != nil {
		return err
	}

	if !lock.Active() {
		return nil
	}

	lock.Release(service.now())
	if err := service.repository.Update(context, lock); err != nil {
		return fmt.Errorf("inventory_service_release_failed: %w", err)
	}

	service.audit(context, lock, "inventory.lock_released", actorID)
	return nil
}

/*
ReleaseForOrder releases every active lock held by the order.

Description: Used when an order is rejected, cancelled, or completed. The
operation is idempotent: already released locks are skipped.

Returns:
  - error: Storage failures (the first one encountered)
*/
func (service *Service) ReleaseForOrder(context context.Context, orderID, actorID string) error {
	locks, err := service.repository.ListByOrder(context, orderID)
	if err != nil {
		return err
	}

	now := service.now()
	for _, lock := range locks {
		if !lock.Active() {
			continue
		}

		lock.Release(now)
		if err := service.repository.Update(context, lock); err != nil {
			return fmt.Errorf("inventory_service_release_for_order_failed: %w", err)
		}
		service.audit(context, lock, "inventory.lock_released", actorID)
	}

	return nil
}

/*
LocksForOrder returns every lock claimed by the order, any status.
*/
func (service *Service) LocksForOrder(context context.Context, orderID string) ([]*Lock, error) {
	if orderID == "" {
		return nil, apperr.ValidationError("order_id is required")
	}
	return service.repository.ListByOrder(context, orderID)
}

func (service *Service) audit(context context.Context, lock *Lock, action, actorID string) {
	if service.recorder == nil {
		return
	}
	service.recorder.Log(context, "inventory_lock", lock.ID, action,
		"", fmt.Sprintf("variant=%s order=%s", lock.VariantID, lock.OrderID), actorID)
}
