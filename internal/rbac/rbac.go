// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package rbac implements role-based access control for the Rentiva marketplace.

It combines a static permission matrix (which role may perform which action on
which resource class) with instance-level ownership rules (which concrete row a
caller may touch: their own orders, their vendor's products).

Architecture:

  - Matrix: Immutable role → resource → action lookup. Closed-world — anything
    not explicitly listed is denied.
  - Engine: Decision layer. Pure query functions (Can*) return booleans for
    flow branching; guard functions (Require*) return a typed
    [apperr.AppError] for request-entry points.
  - Identity: The resolved caller, passed explicitly to every check. There is
    no ambient session state inside this package.

The engine is stateless and reentrant: every decision is a pure function of
(identity, ownership fields, matrix).
*/
package rbac

import "github.com/rentiva/rentiva/internal/platform/sec"

// # Protected Resources

// Resource identifies a class of protected entity.
type Resource string

const (
	ResourceUser           Resource = "user"
	ResourceProduct        Resource = "product"
	ResourceOrder          Resource = "order"
	ResourceInvoice        Resource = "invoice"
	ResourceDocument       Resource = "document"
	ResourceVendor         Resource = "vendor"
	ResourceCategory       Resource = "category"
	ResourceReport         Resource = "report"
	ResourcePlatformConfig Resource = "platform_config"
	ResourceAuditLog       Resource = "audit_log"
)

// # Actions

// Action identifies an operation type on a resource class.
type Action string

const (
	ActionCreate  Action = "create"
	ActionRead    Action = "read"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionRefund  Action = "refund"

	// ActionManage is the administrative superset action. The matrix treats
	// it as orthogonal: holding manage does NOT transitively unlock read or
	// any other action — every action a role needs must be listed explicitly.
	ActionManage Action = "manage"
)

// # Caller Identity

// Identity is the resolved caller for one request.
//
// # Explicit Passing
//
// A thin adapter at the request boundary (middleware.Authenticate) resolves
// the session into an Identity exactly once; every authorization function
// receives it as an argument. A nil *Identity means "not authenticated" and
// fails every check.
type Identity struct {
	// UserID is the account's primary key.
	UserID string
	// Username is carried for audit trails and error messages.
	Username string
	// Email is carried for notification hooks and audit trails.
	Email string
	// Role determines the baseline capability set via matrix lookup.
	Role sec.Role
	// VendorID is the vendor the caller belongs to. Empty for customers
	// and administrators.
	VendorID string
}

// IsAdministrator reports whether the identity carries the administrator role.
func (i *Identity) IsAdministrator() bool {
	return i != nil && i.Role == sec.RoleAdministrator
}
