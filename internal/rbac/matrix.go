// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package rbac

import "github.com/rentiva/rentiva/internal/platform/sec"

// # Permission Matrix

// actionSet is the internal set representation for allowed actions.
type actionSet map[Action]struct{}

// Matrix is the immutable role → resource → action permission table.
//
// # Closed World
//
// Absence means denial: an unknown role, an unknown resource for a role, or
// an unlisted action all evaluate to false — never to an error. There are no
// wildcards and no implication between actions.
//
// # Injection
//
// The matrix is plain configuration data. Production code uses [Default];
// tests inject custom tables through [NewMatrix] to pin down edge behavior.
type Matrix struct {
	entries map[sec.Role]map[Resource]actionSet
}

// NewMatrix builds a [Matrix] from a literal permission table.
//
// The input is deep-copied so later mutation of the argument cannot affect
// the constructed matrix.
func NewMatrix(table map[sec.Role]map[Resource][]Action) Matrix {
	entries := make(map[sec.Role]map[Resource]actionSet, len(table))

	for role, resources := range table {
		entries[role] = make(map[Resource]actionSet, len(resources))
		for resource, actions := range resources {
			set := make(actionSet, len(actions))
			for _, action := range actions {
				set[action] = struct{}{}
			}
			entries[role][resource] = set
		}
	}

	return Matrix{entries: entries}
}

/*
HasPermission reports whether the role may perform the action on the resource
class.

Description: Pure set-membership lookup. Unknown (role, resource, action)
combinations return false.

Parameters:
  - role: sec.Role
  - resource: Resource
  - action: Action

Returns:
  - bool: true only if the action is explicitly listed
*/
func (m Matrix) HasPermission(role sec.Role, resource Resource, action Action) bool {
	resources, ok := m.entries[role]
	if !ok {
		return false
	}

	actions, ok := resources[resource]
	if !ok {
		return false
	}

	_, ok = actions[action]
	return ok
}

/*
AllowedActions returns the set of actions the role may perform on the resource.

Description: Returns an empty slice for unknown combinations. The returned
slice is a fresh copy and never aliases internal matrix state.

Parameters:
  - role: sec.Role
  - resource: Resource

Returns:
  - []Action: Explicitly permitted actions (unordered)
*/
func (m Matrix) AllowedActions(role sec.Role, resource Resource) []Action {
	resources, ok := m.entries[role]
	if !ok {
		return nil
	}

	actions, ok := resources[resource]
	if !ok {
		return nil
	}

	result := make([]Action, 0, len(actions))
	for action := range actions {
		result = append(result, action)
	}
	return result
}

/*
PermissionsForRole returns the full resource → actions map for a role.

Description: Returns an empty map for unknown roles. The result is a deep
copy; callers may mutate it freely.

Parameters:
  - role: sec.Role

Returns:
  - map[Resource][]Action: Copy of the role's permission rows
*/
func (m Matrix) PermissionsForRole(role sec.Role) map[Resource][]Action {
	resources, ok := m.entries[role]
	if !ok {
		return map[Resource][]Action{}
	}

	result := make(map[Resource][]Action, len(resources))
	for resource := range resources {
		result[resource] = m.AllowedActions(role, resource)
	}
	return result
}

// # Baseline Table

// fullActionSet lists every action, including manage, each one explicitly.
// manage does not imply the others; administrators hold all of them because
// all of them are listed, not because manage expands.
var fullActionSet = []Action{
	ActionCreate, ActionRead, ActionUpdate, ActionDelete,
	ActionApprove, ActionReject, ActionRefund, ActionManage,
}

// Default returns the production permission matrix for the marketplace.
//
// # Baseline
//
// Customers read the catalogue and manage their own orders and documents.
// Vendors manage their own listings and fulfil orders. Administrators hold
// the full action set on every resource class.
func Default() Matrix {
	return NewMatrix(map[sec.Role]map[Resource][]Action{
		sec.RoleCustomer: {
			ResourceUser:     {ActionRead, ActionUpdate},
			ResourceProduct:  {ActionRead},
			ResourceOrder:    {ActionCreate, ActionRead},
			ResourceInvoice:  {ActionRead},
			ResourceDocument: {ActionCreate, ActionRead},
			ResourceReport:   {ActionRead},
		},
		sec.RoleVendor: {
			ResourceUser:     {ActionRead, ActionUpdate},
			ResourceProduct:  {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
			ResourceOrder:    {ActionRead, ActionUpdate, ActionApprove, ActionReject},
			ResourceInvoice:  {ActionRead},
			ResourceDocument: {ActionRead},
			ResourceVendor:   {ActionRead, ActionUpdate},
			ResourceReport:   {ActionRead},
		},
		sec.RoleAdministrator: {
			ResourceUser:           fullActionSet,
			ResourceProduct:        fullActionSet,
			ResourceOrder:          fullActionSet,
			ResourceInvoice:        fullActionSet,
			ResourceDocument:       fullActionSet,
			ResourceVendor:         fullActionSet,
			ResourceCategory:       fullActionSet,
			ResourceReport:         fullActionSet,
			ResourcePlatformConfig: fullActionSet,
			ResourceAuditLog:       fullActionSet,
		},
	})
}
