// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package rbac

import (
	"context"
	"fmt"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
)

// # Contracts

// Recorder receives authorization denial events for the audit trail.
//
// # Why an interface?
//
// Defining Recorder here decouples the engine from the audit storage
// implementation and lets tests run with a nil or capturing recorder.
type Recorder interface {
	Log(ctx context.Context, entityType, entityID, action, oldValue, newValue, actorID string)
}

// # Deterministic Denial Messages

const (
	msgAuthenticationRequired = "Authentication required"
	msgUserDataDenied         = "You are not authorized to access this user's data"
	msgVendorDataDenied       = "You are not authorized to access this vendor's data"
	msgOrderDataDenied        = "You are not authorized to access this order"
	msgProductDataDenied      = "You are not authorized to access this product"
	msgProductModifyDenied    = "You are not authorized to modify this product"
)

// # Engine

// Engine is the authorization decision layer.
//
// The matrix governs capability (may this role ever do this action on this
// resource class); the ownership rules govern instance access (may this
// caller touch this particular row). Both are pure functions of their
// arguments — the engine holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	matrix Matrix
	audit  Recorder
}

// NewEngine constructs an [Engine] over the given matrix.
// The recorder may be nil, in which case denials are not audited.
func NewEngine(matrix Matrix, recorder Recorder) *Engine {
	return &Engine{matrix: matrix, audit: recorder}
}

// Matrix exposes the engine's permission table for read-only introspection
// (e.g., the capability listing endpoint).
func (engine *Engine) Matrix() Matrix {
	return engine.matrix
}

// # Capability Queries

/*
Authorize reports whether the identity may perform the action on the resource
class, by matrix lookup on the identity's role.

Description: A nil identity (absent or expired session) yields false — never
an error. Denial is final for the request; there is nothing to retry.

Parameters:
  - identity: *Identity (nil means unauthenticated)
  - resource: Resource
  - action: Action

Returns:
  - bool: true only if the matrix explicitly permits it
*/
func (engine *Engine) Authorize(identity *Identity, resource Resource, action Action) bool {
	if identity == nil {
		return false
	}
	return engine.matrix.HasPermission(identity.Role, resource, action)
}

// # Ownership Queries
//
// The matrix decides capability; these rules decide which instance. They are
// intentionally independent: a customer can pass CanAccessProductData for any
// product (browsing), while the matrix still denies every write action.

// CanAccessUserData reports whether the identity may read the target user's
// records. Administrators always may; everyone else only their own.
func (engine *Engine) CanAccessUserData(identity *Identity, targetUserID string) bool {
	if identity == nil {
		return false
	}
	if identity.Role == sec.RoleAdministrator {
		return true
	}
	return identity.UserID == targetUserID
}

// CanAccessVendorData reports whether the identity may access the target
// vendor's records. Vendors only their own vendor; customers never.
func (engine *Engine) CanAccessVendorData(identity *Identity, targetVendorID string) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case sec.RoleAdministrator:
		return true
	case sec.RoleVendor:
		return identity.VendorID != "" && identity.VendorID == targetVendorID
	default:
		return false
	}
}

// CanAccessOrderData reports whether the identity may access an order owned
// by orderCustomerID and fulfilled by orderVendorID.
func (engine *Engine) CanAccessOrderData(identity *Identity, orderCustomerID, orderVendorID string) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case sec.RoleAdministrator:
		return true
	case sec.RoleCustomer:
		return identity.UserID == orderCustomerID
	case sec.RoleVendor:
		return identity.VendorID != "" && identity.VendorID == orderVendorID
	default:
		return false
	}
}

// CanAccessProductData reports whether the identity may read the product
// instance. Customers may browse any listing — write capability is separately
// denied by the matrix.
func (engine *Engine) CanAccessProductData(identity *Identity, productVendorID string) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case sec.RoleAdministrator, sec.RoleCustomer:
		return true
	case sec.RoleVendor:
		return identity.VendorID != "" && identity.VendorID == productVendorID
	default:
		return false
	}
}

// CanModifyProductData reports whether the identity may modify the product
// instance. Unlike read access, modification is never instance-permitted for
// customers.
func (engine *Engine) CanModifyProductData(identity *Identity, productVendorID string) bool {
	if identity == nil {
		return false
	}

	switch identity.Role {
	case sec.RoleAdministrator:
		return true
	case sec.RoleVendor:
		return identity.VendorID != "" && identity.VendorID == productVendorID
	default:
		return false
	}
}

// # Guards
//
// Each Require* performs exactly the same check as its Can* counterpart and
// returns a typed [apperr.AppError] instead of false: nil identity maps to
// 401, an authenticated denial to 403. Guards return nil on success — they
// are pure gates with no other effect beyond the audit signal on denial.

/*
Require gates a capability check.

Returns:
  - error: nil on success; 401 if unauthenticated; 403 with the deterministic
    message "User with role '<role>' is not authorized to perform '<action>'
    on '<resource>'" on denial
*/
func (engine *Engine) Require(ctx context.Context, identity *Identity, resource Resource, action Action) error {
	if identity == nil {
		return engine.deny(ctx, string(resource), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}

	if !engine.Authorize(identity, resource, action) {
		msg := fmt.Sprintf("User with role '%s' is not authorized to perform '%s' on '%s'",
			identity.Role, action, resource)
		return engine.deny(ctx, string(resource), identity.UserID, msg, apperr.Forbidden(msg))
	}

	return nil
}

// RequireUserDataAccess gates [Engine.CanAccessUserData].
func (engine *Engine) RequireUserDataAccess(ctx context.Context, identity *Identity, targetUserID string) error {
	if identity == nil {
		return engine.deny(ctx, string(ResourceUser), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}
	if !engine.CanAccessUserData(identity, targetUserID) {
		return engine.deny(ctx, string(ResourceUser), identity.UserID, msgUserDataDenied, apperr.Forbidden(msgUserDataDenied))
	}
	return nil
}

// RequireVendorDataAccess gates [Engine.CanAccessVendorData].
func (engine *Engine) RequireVendorDataAccess(ctx context.Context, identity *Identity, targetVendorID string) error {
	if identity == nil {
		return engine.deny(ctx, string(ResourceVendor), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}
	if !engine.CanAccessVendorData(identity, targetVendorID) {
		return engine.deny(ctx, string(ResourceVendor), identity.UserID, msgVendorDataDenied, apperr.Forbidden(msgVendorDataDenied))
	}
	return nil
}

// RequireOrderDataAccess gates [Engine.CanAccessOrderData].
func (engine *Engine) RequireOrderDataAccess(ctx context.Context, identity *Identity, orderCustomerID, orderVendorID string) error {
	if identity == nil {
		return engine.deny(ctx, string(ResourceOrder), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}
	if !engine.CanAccessOrderData(identity, orderCustomerID, orderVendorID) {
		return engine.deny(ctx, string(ResourceOrder), identity.UserID, msgOrderDataDenied, apperr.Forbidden(msgOrderDataDenied))
	}
	return nil
}

// RequireProductDataAccess gates [Engine.CanAccessProductData].
func (engine *Engine) RequireProductDataAccess(ctx context.Context, identity *Identity, productVendorID string) error {
	if identity == nil {
		return engine.deny(ctx, string(ResourceProduct), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}
	if !engine.CanAccessProductData(identity, productVendorID) {
		return engine.deny(ctx, string(ResourceProduct), identity.UserID, msgProductDataDenied, apperr.Forbidden(msgProductDataDenied))
	}
	return nil
}

// RequireProductModification gates [Engine.CanModifyProductData].
func (engine *Engine) RequireProductModification(ctx context.Context, identity *Identity, productVendorID string) error {
	if identity == nil {
		return engine.deny(ctx, string(ResourceProduct), "", msgAuthenticationRequired, apperr.Unauthorized(msgAuthenticationRequired))
	}
	if !engine.CanModifyProductData(identity, productVendorID) {
		return engine.deny(ctx, string(ResourceProduct), identity.UserID, msgProductModifyDenied, apperr.Forbidden(msgProductModifyDenied))
	}
	return nil
}

// deny reports the denial to the audit trail (best effort) and returns the
// prepared error unchanged.
func (engine *Engine) deny(ctx context.Context, entityType, actorID, reason string, err *apperr.AppError) error {
	if engine.audit != nil {
		engine.audit.Log(ctx, entityType, "", "authorization.denied", "", reason, actorID)
	}
	return err
}
