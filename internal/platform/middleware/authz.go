// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package middleware

import (
	"context"
	"net/http"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/constants"
	"github.com/rentiva/rentiva/internal/platform/ctxutil"
	"github.com/rentiva/rentiva/internal/platform/respond"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/rbac"
)

// SessionAuthenticator defines the interface needed to resolve sessions in middleware.
//
// # Why an interface?
//
// Defining SessionAuthenticator here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject mocks during unit testing.
type SessionAuthenticator interface {
	// Authenticate validates the session id against its stored record,
	// verifies the client fingerprint (IP + User-Agent) and the inactivity
	// window, refreshes the sliding expiry, and returns the caller identity.
	//
	// A session that fails any check is destroyed before the error is
	// returned; there is no partial acceptance.
	Authenticate(ctx context.Context, sessionID, clientIP, userAgent string) (*rbac.Identity, error)
}

// Authenticate resolves the session cookie into a caller identity.
//
// # Flow
//  1. Check for the session cookie. If absent, the request proceeds as anonymous.
//  2. Resolve the session via [SessionAuthenticator], which enforces the
//     fingerprint binding and the sliding inactivity window.
//  3. On failure the stale cookie is expired on the client and the request
//     proceeds as anonymous — the guards downstream decide whether anonymous
//     access is acceptable. The reason for the failure is never exposed.
//  4. On success the [*rbac.Identity] is injected into the request context.
//
// # Parameters
//   - sessions: The SessionAuthenticator instance.
//
// # Returns
//   - An [http.Handler] middleware.
func Authenticate(sessions SessionAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			identity, err := sessions.Authenticate(
				request.Context(),
				cookie.Value,
				RealIP(request),
				request.UserAgent(),
			)
			if err != nil {
				// The session manager has already torn the session down.
				// Expire the client cookie and continue anonymously so the
				// response carries the same generic 401 as a missing cookie.
				ExpireSessionCookie(writer)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithIdentity(request.Context(), identity)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Flow
//  1. Check if [*rbac.Identity] exists in context.
//  2. If missing, abort with HTTP 401 Unauthorized.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		identity := ctxutil.GetIdentity(request.Context())
		if identity == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests unless the caller holds exactly the given role.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It automatically
// implies [RequireAuth] so you don't need to mount both.
//
// Roles are a flat set: there is no ordering between customer, vendor and
// administrator, and no role implies another. Routes that accept several
// roles use [RequireAnyRole].
func RequireRole(role sec.Role) func(http.Handler) http.Handler {
	return RequireAnyRole(role)
}

// RequireAnyRole blocks requests unless the caller holds one of the given roles.
//
// # Flow
//  1. Check if [*rbac.Identity] exists in context (implies AuthN).
//  2. Check the caller's role against the accepted set by exact comparison.
//  3. If not in the set, abort with HTTP 403 Forbidden.
func RequireAnyRole(roles ...sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			for _, role := range roles {
				if identity.Role == role {
					next.ServeHTTP(writer, request)
					return
				}
			}

			respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
		})
	}
}

// RequireCustomer allows only callers with the customer role.
func RequireCustomer(next http.Handler) http.Handler {
	return RequireRole(sec.RoleCustomer)(next)
}

// RequireVendor allows only callers with the vendor role.
func RequireVendor(next http.Handler) http.Handler {
	return RequireRole(sec.RoleVendor)(next)
}

// RequireAdministrator allows only callers with the administrator role.
func RequireAdministrator(next http.Handler) http.Handler {
	return RequireRole(sec.RoleAdministrator)(next)
}

// RequireVendorOrAdmin allows vendor and administrator callers.
func RequireVendorOrAdmin(next http.Handler) http.Handler {
	return RequireAnyRole(sec.RoleVendor, sec.RoleAdministrator)(next)
}

// DenyRole blocks authenticated callers that hold the given role. All other
// authenticated callers pass. Anonymous callers are rejected with 401.
//
// This is the guard for exclusion rules such as "everyone except customers".
func DenyRole(role sec.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if identity == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if identity.Role == role {
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// DenyCustomer blocks customer callers; vendors and administrators pass.
func DenyCustomer(next http.Handler) http.Handler {
	return DenyRole(sec.RoleCustomer)(next)
}

// DenyVendor blocks vendor callers; customers and administrators pass.
func DenyVendor(next http.Handler) http.Handler {
	return DenyRole(sec.RoleVendor)(next)
}

// RequirePermission checks a resource/action pair against the authorization
// engine. It implies [RequireAuth].
//
// # Usage
//
//	router.With(middleware.RequirePermission(engine, rbac.ResourceProduct, rbac.ActionCreate)).
//	    Post("/products", handler.Create)
func RequirePermission(engine *rbac.Engine, resource rbac.Resource, action rbac.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			identity := ctxutil.GetIdentity(request.Context())

			if err := engine.Require(request.Context(), identity, resource, action); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Session Cookie Helpers

// SetSessionCookie writes the session cookie on a successful login.
// HttpOnly keeps it out of script reach; SameSite=Lax blocks cross-site
// POSTs while keeping top-level navigation working.
func SetSessionCookie(writer http.ResponseWriter, sessionID string, secure bool) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    sessionID,
		Path:     constants.SessionCookiePath,
		MaxAge:   int(constants.SessionHardTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ExpireSessionCookie instructs the client to drop the session cookie.
func ExpireSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
