// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/platform/constants"
	"github.com/rentiva/rentiva/internal/platform/ctxutil"
	"github.com/rentiva/rentiva/internal/platform/middleware"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/rbac"
)

// fakeAuthenticator resolves a single known session id.
type fakeAuthenticator struct {
	sessionID string
	identity  *rbac.Identity
	calls     int
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, sessionID, _, _ string) (*rbac.Identity, error) {
	f.calls++
	if sessionID == f.sessionID {
		return f.identity, nil
	}
	return nil, errors.New("session invalid")
}

// echoIdentity records the identity visible to the final handler.
func echoIdentity(captured **rbac.Identity) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*captured = ctxutil.GetIdentity(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
}

/*
TestAuthenticate_NoCookie verifies that a request without a session cookie
proceeds anonymously and never hits the session backend.
*/
func TestAuthenticate_NoCookie(t *testing.T) {
	authenticator := &fakeAuthenticator{}

	var seen *rbac.Identity
	handler := middleware.Authenticate(authenticator)(echoIdentity(&seen))

	request := httptest.NewRequest(http.MethodGet, "/orders", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, seen)
	assert.Zero(t, authenticator.calls)
}

/*
TestAuthenticate_ValidSession verifies that a valid cookie resolves to an
identity in the request context.
*/
func TestAuthenticate_ValidSession(t *testing.T) {
	authenticator := &fakeAuthenticator{
		sessionID: "sid-valid",
		identity:  &rbac.Identity{UserID: "user-1", Role: sec.RoleVendor, VendorID: "vendor-7"},
	}

	var seen *rbac.Identity
	handler := middleware.Authenticate(authenticator)(echoIdentity(&seen))

	request := httptest.NewRequest(http.MethodGet, "/orders", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "sid-valid"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	require.NotNil(t, seen)
	assert.Equal(t, "user-1", seen.UserID)
	assert.Equal(t, sec.RoleVendor, seen.Role)
	assert.Equal(t, "vendor-7", seen.VendorID)
}

/*
TestAuthenticate_InvalidSession verifies that a rejected session expires the
client cookie and leaves the request anonymous, so a guarded route answers
with the same generic 401 as a missing cookie.
*/
func TestAuthenticate_InvalidSession(t *testing.T) {
	authenticator := &fakeAuthenticator{sessionID: "sid-valid"}

	var seen *rbac.Identity
	handler := middleware.Authenticate(authenticator)(middleware.RequireAuth(echoIdentity(&seen)))

	request := httptest.NewRequest(http.MethodGet, "/orders", nil)
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "sid-stolen"})
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Authentication required")

	// The stale cookie must be expired on the client.
	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

/*
TestRequireAuth_Anonymous checks that unauthenticated requests are rejected
with 401 before reaching the handler.
*/
func TestRequireAuth_Anonymous(t *testing.T) {
	var seen *rbac.Identity
	handler := middleware.RequireAuth(echoIdentity(&seen))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Nil(t, seen)
}

/*
TestRequireAnyRole enforces exact role membership. Roles are flat, so a
vendor does not pass an administrator gate and an administrator does not
pass a vendor-only gate by implication.
*/
func TestRequireAnyRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *rbac.Identity
		accepted   []sec.Role
		wantStatus int
	}{
		{"anonymous_rejected", nil, []sec.Role{sec.RoleVendor}, http.StatusUnauthorized},
		{"exact_match_passes", &rbac.Identity{UserID: "u1", Role: sec.RoleVendor}, []sec.Role{sec.RoleVendor}, http.StatusOK},
		{"vendor_blocked_on_admin_gate", &rbac.Identity{UserID: "u1", Role: sec.RoleVendor}, []sec.Role{sec.RoleAdministrator}, http.StatusForbidden},
		{"admin_blocked_on_vendor_gate", &rbac.Identity{UserID: "u2", Role: sec.RoleAdministrator}, []sec.Role{sec.RoleVendor}, http.StatusForbidden},
		{"multi_role_gate", &rbac.Identity{UserID: "u3", Role: sec.RoleAdministrator}, []sec.Role{sec.RoleVendor, sec.RoleAdministrator}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *rbac.Identity
			handler := middleware.RequireAnyRole(tt.accepted...)(echoIdentity(&seen))

			request := httptest.NewRequest(http.MethodGet, "/gated", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestDenyRole verifies the exclusion guard: the named role is blocked with 403,
every other authenticated role passes, anonymous callers get 401.
*/
func TestDenyRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *rbac.Identity
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer_blocked", &rbac.Identity{UserID: "c1", Role: sec.RoleCustomer}, http.StatusForbidden},
		{"vendor_passes", &rbac.Identity{UserID: "v1", Role: sec.RoleVendor}, http.StatusOK},
		{"admin_passes", &rbac.Identity{UserID: "a1", Role: sec.RoleAdministrator}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *rbac.Identity
			handler := middleware.DenyRole(sec.RoleCustomer)(echoIdentity(&seen))

			request := httptest.NewRequest(http.MethodGet, "/vendor-area", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

/*
TestRequirePermission routes matrix decisions through the engine: customers
may read products but not create them, and anonymous callers get 401.
*/
func TestRequirePermission(t *testing.T) {
	engine := rbac.NewEngine(rbac.Default(), nil)

	tests := []struct {
		name       string
		identity   *rbac.Identity
		action     rbac.Action
		wantStatus int
	}{
		{"anonymous", nil, rbac.ActionRead, http.StatusUnauthorized},
		{"customer_read_allowed", &rbac.Identity{UserID: "c1", Role: sec.RoleCustomer}, rbac.ActionRead, http.StatusOK},
		{"customer_create_denied", &rbac.Identity{UserID: "c1", Role: sec.RoleCustomer}, rbac.ActionCreate, http.StatusForbidden},
		{"vendor_create_allowed", &rbac.Identity{UserID: "v1", Role: sec.RoleVendor, VendorID: "vd1"}, rbac.ActionCreate, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen *rbac.Identity
			handler := middleware.RequirePermission(engine, rbac.ResourceProduct, tt.action)(echoIdentity(&seen))

			request := httptest.NewRequest(http.MethodPost, "/products", nil)
			if tt.identity != nil {
				request = request.WithContext(ctxutil.WithIdentity(request.Context(), tt.identity))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}
