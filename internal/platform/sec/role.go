// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package sec

// # User Roles

// Role represents the account category assigned to a user.
//
// # Flatness
//
// Roles are a flat set: there is no hierarchy or inheritance between them.
// What a role may do is decided exclusively by matrix lookup in the rbac
// package, never by comparing roles against each other.
type Role string

const (
	// Browses the catalogue, places rental orders, manages own account
	RoleCustomer Role = "customer"

	// Lists rentable products and fulfils orders for their own vendor
	RoleVendor Role = "vendor"

	// Platform operators with oversight across all vendors and users
	RoleAdministrator Role = "administrator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleVendor, RoleAdministrator:
		return true
	default:
		return false
	}
}

// ParseRole converts a stored string into a [Role].
// Unknown values map to the empty Role, which fails every permission check.
func ParseRole(s string) Role {
	role := Role(s)
	if !role.Valid() {
		return ""
	}
	return role
}
