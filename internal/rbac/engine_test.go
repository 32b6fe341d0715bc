// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package rbac_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/rbac"
)

// capturingRecorder collects audit events emitted by the engine.
type capturingRecorder struct {
	events []capturedEvent
}

type capturedEvent struct {
	entityType string
	action     string
	newValue   string
	actorID    string
}

func (r *capturingRecorder) Log(_ context.Context, entityType, _, action, _, newValue, actorID string) {
	r.events = append(r.events, capturedEvent{entityType, action, newValue, actorID})
}

func customer(id string) *rbac.Identity {
	return &rbac.Identity{UserID: id, Username: id, Role: sec.RoleCustomer}
}

func vendor(userID, vendorID string) *rbac.Identity {
	return &rbac.Identity{UserID: userID, Username: userID, Role: sec.RoleVendor, VendorID: vendorID}
}

func admin(id string) *rbac.Identity {
	return &rbac.Identity{UserID: id, Username: id, Role: sec.RoleAdministrator}
}

/*
TestEngine_Authorize_NilIdentity verifies the fail-closed rule: an absent
identity is always denied, never an error or a panic.
*/
func TestEngine_Authorize_NilIdentity(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	assert.False(t, engine.Authorize(nil, rbac.ResourceProduct, rbac.ActionRead))
	assert.False(t, engine.CanAccessUserData(nil, "u1"))
	assert.False(t, engine.CanAccessVendorData(nil, "v1"))
	assert.False(t, engine.CanAccessOrderData(nil, "c1", "v1"))
	assert.False(t, engine.CanAccessProductData(nil, "v1"))
	assert.False(t, engine.CanModifyProductData(nil, "v1"))
}

/*
TestEngine_CanAccessUserData covers the self-or-admin rule.
*/
func TestEngine_CanAccessUserData(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	assert.True(t, engine.CanAccessUserData(customer("c1"), "c1"))
	assert.False(t, engine.CanAccessUserData(customer("c1"), "c2"))
	assert.True(t, engine.CanAccessUserData(vendor("v-user", "vd1"), "v-user"))
	assert.False(t, engine.CanAccessUserData(vendor("v-user", "vd1"), "c1"))
	assert.True(t, engine.CanAccessUserData(admin("a1"), "anyone"))
}

/*
TestEngine_CanAccessVendorData covers vendor-owns-vendor: a vendor identity
reaches only its own vendor record, a vendor with no vendor binding reaches
none, and customers never reach any.
*/
func TestEngine_CanAccessVendorData(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	assert.True(t, engine.CanAccessVendorData(vendor("u1", "vd1"), "vd1"))
	assert.False(t, engine.CanAccessVendorData(vendor("u1", "vd1"), "vd2"))
	assert.False(t, engine.CanAccessVendorData(vendor("u1", ""), "vd1"))
	assert.False(t, engine.CanAccessVendorData(customer("c1"), "vd1"))
	assert.True(t, engine.CanAccessVendorData(admin("a1"), "vd1"))
}

/*
TestEngine_CanAccessOrderData exercises the three-party order rule: the
ordering customer, the fulfilling vendor, and administrators.
*/
func TestEngine_CanAccessOrderData(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	tests := []struct {
		name     string
		identity *rbac.Identity
		allowed  bool
	}{
		{"owning_customer", customer("c1"), true},
		{"other_customer", customer("c2"), false},
		{"fulfilling_vendor", vendor("u1", "vd1"), true},
		{"other_vendor", vendor("u2", "vd2"), false},
		{"vendor_without_binding", vendor("u3", ""), false},
		{"administrator", admin("a1"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, engine.CanAccessOrderData(tt.identity, "c1", "vd1"))
		})
	}
}

/*
TestEngine_ProductAccessVsModification pins the split between browsing and
writing: customers read any listing but can never modify one, vendors touch
only their own.
*/
func TestEngine_ProductAccessVsModification(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	// Read side
	assert.True(t, engine.CanAccessProductData(customer("c1"), "vd1"))
	assert.True(t, engine.CanAccessProductData(vendor("u1", "vd1"), "vd1"))
	assert.False(t, engine.CanAccessProductData(vendor("u1", "vd1"), "vd2"))
	assert.True(t, engine.CanAccessProductData(admin("a1"), "vd2"))

	// Write side
	assert.False(t, engine.CanModifyProductData(customer("c1"), "vd1"))
	assert.True(t, engine.CanModifyProductData(vendor("u1", "vd1"), "vd1"))
	assert.False(t, engine.CanModifyProductData(vendor("u1", "vd1"), "vd2"))
	assert.True(t, engine.CanModifyProductData(admin("a1"), "vd1"))
}

/*
TestEngine_Require_ErrorMapping verifies the guard contract: nil identity maps
to 401, an authenticated denial to 403 with the deterministic message, and a
granted check returns nil.
*/
func TestEngine_Require_ErrorMapping(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)
	ctx := context.Background()

	// Unauthenticated → 401
	err := engine.Require(ctx, nil, rbac.ResourceProduct, rbac.ActionRead)
	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	assert.Equal(t, "Authentication required", ae.Message)

	// Authenticated but denied → 403 with role/action/resource named
	err = engine.Require(ctx, customer("c1"), rbac.ResourceProduct, rbac.ActionCreate)
	require.Error(t, err)
	ae = apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	assert.Equal(t, "User with role 'customer' is not authorized to perform 'create' on 'product'", ae.Message)

	// Granted → nil
	assert.NoError(t, engine.Require(ctx, vendor("u1", "vd1"), rbac.ResourceProduct, rbac.ActionCreate))
}

/*
TestEngine_RequireOrderDataAccess_CrossVendor pins cross-tenant isolation:
vendor two requesting vendor one's order gets a 403 whose message does not
leak who owns the order.
*/
func TestEngine_RequireOrderDataAccess_CrossVendor(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	err := engine.RequireOrderDataAccess(context.Background(), vendor("u2", "vd2"), "c1", "vd1")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, http.StatusForbidden, ae.HTTPStatus)
	assert.Equal(t, "You are not authorized to access this order", ae.Message)
}

/*
TestEngine_RequireGuards_MatchCanCounterparts asserts that every Require*
guard agrees with its Can* counterpart on the same inputs.
*/
func TestEngine_RequireGuards_MatchCanCounterparts(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)
	ctx := context.Background()

	identities := []*rbac.Identity{nil, customer("c1"), vendor("u1", "vd1"), admin("a1")}

	for _, identity := range identities {
		assert.Equal(t,
			engine.CanAccessUserData(identity, "c1"),
			engine.RequireUserDataAccess(ctx, identity, "c1") == nil)
		assert.Equal(t,
			engine.CanAccessVendorData(identity, "vd1"),
			engine.RequireVendorDataAccess(ctx, identity, "vd1") == nil)
		assert.Equal(t,
			engine.CanAccessOrderData(identity, "c1", "vd1"),
			engine.RequireOrderDataAccess(ctx, identity, "c1", "vd1") == nil)
		assert.Equal(t,
			engine.CanAccessProductData(identity, "vd1"),
			engine.RequireProductDataAccess(ctx, identity, "vd1") == nil)
		assert.Equal(t,
			engine.CanModifyProductData(identity, "vd1"),
			engine.RequireProductModification(ctx, identity, "vd1") == nil)
	}
}

/*
TestEngine_DenialAudit verifies that denials reach the audit recorder with the
actor and reason, and that granted checks emit nothing.
*/
func TestEngine_DenialAudit(t *testing.T) {
	recorder := &capturingRecorder{}
	engine := rbac.NewEngine(rbac.Default(), recorder)
	ctx := context.Background()

	require.NoError(t, engine.Require(ctx, admin("a1"), rbac.ResourceOrder, rbac.ActionRefund))
	assert.Empty(t, recorder.events)

	_ = engine.Require(ctx, customer("c1"), rbac.ResourceOrder, rbac.ActionRefund)
	require.Len(t, recorder.events, 1)
	assert.Equal(t, "order", recorder.events[0].entityType)
	assert.Equal(t, "authorization.denied", recorder.events[0].action)
	assert.Equal(t, "c1", recorder.events[0].actorID)
	assert.Contains(t, recorder.events[0].newValue, "refund")
}
