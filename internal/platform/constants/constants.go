// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: Session policy, JWT issuer, and cookie configuration.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "rentiva-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication & Sessions

const (
	// AuthIssuer is the standard 'iss' claim in JWTs issued for the integration API.
	AuthIssuer = "rentiva.app"

	// SessionCookieName is the name of the cookie carrying the opaque session id.
	SessionCookieName = "rentiva_session"

	// SessionCookiePath scopes the session cookie to the API tree.
	SessionCookiePath = "/"

	// SessionIdleTimeout is the sliding inactivity window. A session whose
	// last activity is older than this is expired and torn down on the next
	// authentication check. There is no resurrection.
	SessionIdleTimeout = 30 * time.Minute

	// SessionHardTTL is the absolute ceiling a session record may live in
	// Redis. The sliding window is enforced by the session manager; this TTL
	// is a storage-level backstop against orphaned records.
	SessionHardTTL = 24 * time.Hour

	// SessionIDLength is the byte length of the random session identifier.
	SessionIDLength = 32

	// IntegrationTokenTTL is the lifetime of JWTs issued for the stateless
	// integration API. Short by policy: tokens cannot be revoked server-side.
	IntegrationTokenTTL = 15 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Database Schemas

const (
	SchemaRental = "rental"
	SchemaUsers  = "users"
	SchemaAudit  = "audit"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixSession = "auth:session:"

	// RedisPrefixSessionUser indexes the session ids held by one user, so a
	// password change can revoke all of them in one pass.
	RedisPrefixSessionUser = "auth:session_user:"
)
