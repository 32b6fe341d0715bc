// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/platform/validate"
	"github.com/rentiva/rentiva/internal/rbac"
	"github.com/rentiva/rentiva/internal/rental/inventory"
	"github.com/rentiva/rentiva/pkg/pagination"
	"github.com/rentiva/rentiva/pkg/uuidv7"
)

// # Contracts

// Locker is the slice of the inventory service the order flow needs.
type Locker interface {
	Reserve(ctx context.Context, input inventory.ReserveInput) (*inventory.Lock, error)
	ReleaseForOrder(ctx context.Context, orderID, actorID string) error
}

// Recorder receives order lifecycle events for the audit trail.
type Recorder interface {
	Log(ctx context.Context, entityType, entityID, action, oldValue, newValue, actorID string)
}

// # Service

// Service implements the order use cases on top of the authorization engine
// and the inventory locker.
type Service struct {
	repository Repository
	locker     Locker
	engine     *rbac.Engine
	recorder   Recorder
}

// NewService wires the order service.
// The recorder may be nil, in which case transitions are not audited.
func NewService(repository Repository, locker Locker, engine *rbac.Engine, recorder Recorder) *Service {
	return &Service{
		repository: repository,
		locker:     locker,
		engine:     engine,
		recorder:   recorder,
	}
}

// # Placement

// ItemInput names one requested variant.
type ItemInput struct {
	VariantID string
	ProductID string
}

// CreateInput describes a new order.
type CreateInput struct {
	VendorID string
	StartsAt time.Time
	EndsAt   time.Time // Exclusive.
	Items    []ItemInput
}

/*
Create places a new order and reserves an inventory lock per item.

Description: Only customers place orders (the matrix grants order create to
no other role). Reservation is all-or-nothing: if any variant's range is
taken, every lock reserved so far is released and the whole placement fails
with the conflict.

Parameters:
  - context: context.Context
  - identity: *rbac.Identity
  - input: CreateInput

Returns:
  - *Order: The pending order with all locks held
  - error: Authorization, validation, apperr.Conflict, or storage failures
*/
func (service *Service) Create(context context.Context, identity *rbac.Identity, input CreateInput) (*Order, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceOrder, rbac.ActionCreate); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	validator.Required("vendor_id", input.VendorID).
		Custom("items", len(input.Items) == 0, "at least one item is required").
		DateRange("rental_period", input.StartsAt, input.EndsAt)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	order := &Order{
		ID:         uuidv7.New(),
		CustomerID: identity.UserID,
		VendorID:   input.VendorID,
		Status:     StatusPending,
		StartsAt:   input.StartsAt,
		EndsAt:     input.EndsAt,
		Items:      make([]Item, 0, len(input.Items)),
	}

	for _, item := range input.Items {
		order.Items = append(order.Items, Item{
			ID:        uuidv7.New(),
			OrderID:   order.ID,
			VariantID: item.VariantID,
			ProductID: item.ProductID,
		})
	}

	// Reserve every item. On the first conflict, undo what was taken: the
	// placement either holds all locks or none.
	for _, item := range order.Items {
		_, err := service.locker.Reserve(context, inventory.ReserveInput{
			VariantID: item.VariantID,
			OrderID:   order.ID,
			StartsAt:  input.StartsAt,
			EndsAt:    input.EndsAt,
			ActorID:   identity.UserID,
		})
		if err != nil {
			if releaseErr := service.locker.ReleaseForOrder(context, order.ID, identity.UserID); releaseErr != nil {
				return nil, fmt.Errorf("orders_service_rollback_failed: %w", releaseErr)
			}
			return nil, err
		}
	}

	if err := service.repository.Create(context, order); err != nil {
		if releaseErr := service.locker.ReleaseForOrder(context, order.ID, identity.UserID); releaseErr != nil {
			return nil, fmt.Errorf("orders_service_rollback_failed: %w", releaseErr)
		}
		return nil, fmt.Errorf("orders_service_create_failed: %w", err)
	}

	service.audit(context, order, "order.created", identity.UserID)
	return order, nil
}

// # Retrieval

/*
Get returns one order, gated by the three-party access rule: the ordering
customer, the fulfilling vendor, or an administrator.
*/
func (service *Service) Get(context context.Context, identity *rbac.Identity, orderID string) (*Order, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceOrder, rbac.ActionRead); err != nil {
		return nil, err
	}

	order, err := service.repository.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireOrderDataAccess(context, identity, order.CustomerID, order.VendorID); err != nil {
		return nil, err
	}

	return order, nil
}

/*
ListMine returns the caller's own orders: placed orders for customers,
incoming orders for vendors.
*/
func (service *Service) ListMine(context context.Context, identity *rbac.Identity, params pagination.Params) ([]*Order, pagination.Meta, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceOrder, rbac.ActionRead); err != nil {
		return nil, pagination.Meta{}, err
	}

	var (
		result []*Order
		total  int
		err    error
	)

	if identity.Role == sec.RoleVendor {
		result, total, err = service.repository.ListByVendor(context, identity.VendorID, params)
	} else {
		result, total, err = service.repository.ListByCustomer(context, identity.UserID, params)
	}
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return result, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// # Transitions

/*
Approve moves a pending order to approved. Locks stay: an approved rental
still blocks the calendar.

Returns:
  - error: Authorization, apperr.Conflict on an illegal transition, or
    storage failures
*/
func (service *Service) Approve(context context.Context, identity *rbac.Identity, orderID string) (*Order, error) {
	return service.transition(context, identity, orderID, StatusApproved, rbac.ActionApprove, false)
}

/*
Reject moves a pending order to rejected and releases its locks.
*/
func (service *Service) Reject(context context.Context, identity *rbac.Identity, orderID string) (*Order, error) {
	return service.transition(context, identity, orderID, StatusRejected, rbac.ActionReject, true)
}

/*
Complete moves an approved order to completed and releases its locks — the
equipment is back and the calendar opens up.
*/
func (service *Service) Complete(context context.Context, identity *rbac.Identity, orderID string) (*Order, error) {
	return service.transition(context, identity, orderID, StatusCompleted, rbac.ActionUpdate, true)
}

/*
Cancel withdraws the order and releases its locks. The ordering customer
cancels their own pending order; vendors and administrators cancel through
the update capability.
*/
func (service *Service) Cancel(context context.Context, identity *rbac.Identity, orderID string) (*Order, error) {
	// Customers cancel with their order-read capability plus ownership; the
	// matrix deliberately gives them no generic order update.
	order, err := service.Get(context, identity, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(StatusCancelled) {
		return nil, apperr.Conflict(fmt.Sprintf("Order in status '%s' cannot be cancelled", order.Status))
	}

	previous := order.Status
	if err := service.repository.UpdateStatus(context, order.ID, StatusCancelled); err != nil {
		return nil, fmt.Errorf("orders_service_cancel_failed: %w", err)
	}
	order.Status = StatusCancelled

	if err := service.locker.ReleaseForOrder(context, order.ID, identity.UserID); err != nil {
		return nil, err
	}

	service.auditTransition(context, order, previous, identity.UserID)
	return order, nil
}

// transition applies a gated status change, optionally releasing the order's
// locks afterwards.
func (service *Service) transition(context context.Context, identity *rbac.Identity, orderID string, target Status, action rbac.Action, releaseLocks bool) (*Order, error) {
	if err := service.engine.Require(context, identity, rbac.ResourceOrder, action); err != nil {
		return nil, err
	}

	order, err := service.repository.FindByID(context, orderID)
	if err != nil {
		return nil, err
	}

	if err := service.engine.RequireOrderDataAccess(context, identity, order.CustomerID, order.VendorID); err != nil {
		return nil, err
	}

	if !order.Status.CanTransition(target) {
		return nil, apperr.Conflict(fmt.Sprintf("Order in status '%s' cannot move to '%s'", order.Status, target))
	}

	previous := order.Status
	if err := service.repository.UpdateStatus(context, order.ID, target); err != nil {
		return nil, fmt.Errorf("orders_service_transition_failed: %w", err)
	}
	order.Status = target

	if releaseLocks {
		if err := service.locker.ReleaseForOrder(context, order.ID, identity.UserID); err != nil {
			return nil, err
		}
	}

	service.auditTransition(context, order, previous, identity.UserID)
	return order, nil
}

func (service *Service) audit(context context.Context, order *Order, action, actorID string) {
	if service.recorder == nil {
		return
	}
	service.recorder.Log(context, "order", order.ID, action, "", string(order.Status), actorID)
}

func (service *Service) auditTransition(context context.Context, order *Order, previous Status, actorID string) {
	if service.recorder == nil {
		return
	}
	service.recorder.Log(context, "order", order.ID, "order.status_changed",
		string(previous), string(order.Status), actorID)
}
