// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth

import (
	"context"
	"log/slog"
	"time"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/constants"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/rbac"
)

// # Session Lifecycle

// SessionRecorder receives session lifecycle events for the audit trail.
type SessionRecorder interface {
	Log(ctx context.Context, entityType, entityID, action, oldValue, newValue, actorID string)
}

// Manager owns the server-side session lifecycle: creation with a fresh
// random identifier, per-request validation, sliding-window refresh, and
// teardown.
//
// # Fail-Closed Validation
//
// Authenticate accepts a session only when every check passes: the record
// exists, the client fingerprint matches the one captured at login, and the
// inactivity window has not elapsed. Any failure destroys the record before
// the error is returned, so a rejected session cannot be retried.
//
// # Fixation Defence
//
// Create always generates a brand-new identifier and never accepts one from
// the client. A pre-login identifier therefore never survives into an
// authenticated session.
type Manager struct {
	store       SessionStore
	recorder    SessionRecorder
	logger      *slog.Logger
	idleTimeout time.Duration
	hardTTL     time.Duration
	now         func() time.Time
}

// NewManager wires a session manager to its store.
// The recorder may be nil, in which case lifecycle events are not audited.
func NewManager(store SessionStore, recorder SessionRecorder, logger *slog.Logger) *Manager {
	return &Manager{
		store:       store,
		recorder:    recorder,
		logger:      logger,
		idleTimeout: constants.SessionIdleTimeout,
		hardTTL:     constants.SessionHardTTL,
		now:         time.Now,
	}
}

// WithClock overrides the manager's time source. Test hook.
func (manager *Manager) WithClock(now func() time.Time) *Manager {
	manager.now = now
	return manager
}

/*
Create establishes a new session for the user and returns its identifier.

Description: Generates a fresh cryptographically random identifier, binds the
client fingerprint presented at login, and persists the record. The returned
identifier is the only copy — it is never derivable from the record.

Parameters:
  - context: context.Context
  - user: *User (Authenticated account)
  - ipAddress: string (Client IP at login)
  - userAgent: string (Client User-Agent at login)

Returns:
  - string: The new opaque session identifier
  - error: Identifier generation or persistence failures
*/
func (manager *Manager) Create(context context.Context, user *User, ipAddress, userAgent string) (string, error) {
	sessionID, err := sec.GenerateSecureToken(constants.SessionIDLength)
	if err != nil {
		return "", apperr.Internal(err)
	}

	now := manager.now()
	session := &Session{
		ID:         sessionID,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		VendorID:   user.VendorID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		CreatedAt:  now,
		LastSeenAt: now,
	}

	if err := manager.store.Save(context, session, manager.hardTTL); err != nil {
		return "", err
	}

	manager.audit(context, sessionID, "session.created", "", user.ID)
	return sessionID, nil
}

/*
Authenticate validates a presented session identifier and returns the caller
identity.

Description: Looks up the record, verifies the client fingerprint and the
sliding inactivity window, then refreshes the window (Peek + Touch in one
step). Every rejection tears the session down first and surfaces the same
generic 401 — the reason is logged server-side but never exposed.

Parameters:
  - context: context.Context
  - sessionID: string (Value of the session cookie)
  - ipAddress: string (Client IP of this request)
  - userAgent: string (Client User-Agent of this request)

Returns:
  - *rbac.Identity: The resolved caller
  - error: apperr.Unauthorized on any validation failure
*/
func (manager *Manager) Authenticate(context context.Context, sessionID, ipAddress, userAgent string) (*rbac.Identity, error) {
	session, err := manager.Peek(context, sessionID)
	if err != nil {
		return nil, err
	}

	// Fingerprint binding: reject and destroy on any mismatch. A changed IP
	// or User-Agent on a live session is indistinguishable from cookie theft.
	if !session.MatchesClient(ipAddress, userAgent) {
		manager.teardown(context, session, "fingerprint_mismatch")
		return nil, apperr.Unauthorized("Authentication required")
	}

	// Sliding window: expiry is checked against the last activity, not the
	// login time. There is no resurrection of an expired session.
	if session.ExpiredAt(manager.now(), manager.idleTimeout) {
		manager.teardown(context, session, "idle_timeout")
		return nil, apperr.Unauthorized("Authentication required")
	}

	if err := manager.Touch(context, session); err != nil {
		return nil, err
	}

	return &rbac.Identity{
		UserID:   session.UserID,
		Username: session.Username,
		Email:    session.Email,
		Role:     session.Role,
		VendorID: session.VendorID,
	}, nil
}

/*
Peek returns the stored session without side effects.

Description: Read-only lookup — it performs no fingerprint or expiry checks
and does not refresh the sliding window. Introspection and administrative
tooling use this; request authentication goes through [Manager.Authenticate].

Returns:
  - *Session: The stored record
  - error: apperr.Unauthorized when the record does not exist
*/
func (manager *Manager) Peek(context context.Context, sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, apperr.Unauthorized("Authentication required")
	}

	session, err := manager.store.Find(context, sessionID)
	if err != nil {
		if apperr.IsAppError(err) {
			return nil, apperr.Unauthorized("Authentication required")
		}
		return nil, err
	}

	session.ID = sessionID
	return session, nil
}

/*
Touch advances the session's activity timestamp, restarting the sliding
inactivity window.

Parameters:
  - context: context.Context
  - session: *Session (Record previously returned by Peek)

Returns:
  - error: Persistence failures
*/
func (manager *Manager) Touch(context context.Context, session *Session) error {
	session.LastSeenAt = manager.now()
	return manager.store.Save(context, session, manager.hardTTL)
}

/*
Destroy removes the session record. Destroying an unknown identifier is a
no-op, so logout is idempotent.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures
*/
func (manager *Manager) Destroy(context context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := manager.store.Delete(context, sessionID); err != nil {
		return err
	}
	manager.audit(context, sessionID, "session.destroyed", "", "")
	return nil
}

/*
DestroyAllForUser removes every session belonging to the user. Called on
password change and account deactivation.
*/
func (manager *Manager) DestroyAllForUser(context context.Context, userID string) error {
	if err := manager.store.DeleteAllForUser(context, userID); err != nil {
		return err
	}
	manager.audit(context, "", "session.destroyed_all", "", userID)
	return nil
}

// teardown destroys a failed session and records why. The reason stays
// server-side.
func (manager *Manager) teardown(context context.Context, session *Session, reason string) {
	if err := manager.store.Delete(context, session.ID); err != nil {
		manager.logger.ErrorContext(context, "session_teardown_failed",
			slog.String("reason", reason),
			slog.Any("error", err),
		)
	}

	manager.logger.WarnContext(context, "session_rejected",
		slog.String("reason", reason),
		slog.String("user_id", session.UserID),
	)
	manager.audit(context, session.ID, "session.rejected", reason, session.UserID)
}

func (manager *Manager) audit(context context.Context, sessionID, action, detail, actorID string) {
	if manager.recorder == nil {
		return
	}

	// Only the hash of the identifier reaches the trail; the raw value is a
	// bearer credential.
	entityID := ""
	if sessionID != "" {
		entityID = sec.HashToken(sessionID)
	}
	manager.recorder.Log(context, "session", entityID, action, "", detail, actorID)
}
