// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/users/auth"
)

// memorySessionStore is an in-memory SessionStore for tests.
type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]auth.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]auth.Session)}
}

func (store *memorySessionStore) Save(_ context.Context, session *auth.Session, _ time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.sessions[session.ID] = *session
	return nil
}

func (store *memorySessionStore) Find(_ context.Context, sessionID string) (*auth.Session, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	session, ok := store.sessions[sessionID]
	if !ok {
		return nil, apperr.NotFound("Session")
	}
	copied := session
	return &copied, nil
}

func (store *memorySessionStore) Delete(_ context.Context, sessionID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.sessions, sessionID)
	return nil
}

func (store *memorySessionStore) DeleteAllForUser(_ context.Context, userID string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	for id, session := range store.sessions {
		if session.UserID == userID {
			delete(store.sessions, id)
		}
	}
	return nil
}

func (store *memorySessionStore) count() int {
	store.mu.Lock()
	defer store.mu.Unlock()
	return len(store.sessions)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testUser() *auth.User {
	return &auth.User{
		ID:       "user-1",
		Username: "lena",
		Email:    "lena@example.com",
		Role:     sec.RoleVendor,
		VendorID: "vendor-9",
		IsActive: true,
	}
}

// fixedClock returns a controllable time source.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	current := start
	now := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(d)
	}
	return now, advance
}

/*
TestManager_CreateGeneratesFreshIdentifiers verifies that every login gets a
brand-new random identifier — two sessions for the same user never share one.
*/
func TestManager_CreateGeneratesFreshIdentifiers(t *testing.T) {
	store := newMemorySessionStore()
	manager := auth.NewManager(store, nil, discardLogger())
	ctx := context.Background()

	first, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)
	second, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, store.count())
}

/*
TestManager_AuthenticateHappyPath verifies that a matching fingerprint within
the inactivity window yields the stored identity and refreshes the window.
*/
func TestManager_AuthenticateHappyPath(t *testing.T) {
	store := newMemorySessionStore()
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	manager := auth.NewManager(store, nil, discardLogger()).WithClock(now)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)

	advance(10 * time.Minute)
	identity, err := manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.UserID)
	assert.Equal(t, "lena@example.com", identity.Email)
	assert.Equal(t, sec.RoleVendor, identity.Role)
	assert.Equal(t, "vendor-9", identity.VendorID)

	// The sliding window restarted at the last request, so another 25 minutes
	// of idleness (35 total since login) is still within the window.
	advance(25 * time.Minute)
	_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	assert.NoError(t, err)
}

/*
TestManager_AuthenticateIdleTimeout verifies the sliding window: 30 minutes
of inactivity destroys the session, and the identifier cannot be revived.
*/
func TestManager_AuthenticateIdleTimeout(t *testing.T) {
	store := newMemorySessionStore()
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	manager := auth.NewManager(store, nil, discardLogger()).WithClock(now)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)

	// Exactly at the boundary the session is still alive.
	advance(30 * time.Minute)
	_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	require.NoError(t, err)

	// One second past the refreshed window it is gone.
	advance(30*time.Minute + time.Second)
	_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	require.Error(t, err)

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "Authentication required", ae.Message)
	assert.Zero(t, store.count())

	// No resurrection: presenting the same id again still fails.
	_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	assert.Error(t, err)
}

/*
TestManager_AuthenticateFingerprintMismatch verifies the fail-closed binding:
an IP or User-Agent change destroys the session and yields the generic 401.
*/
func TestManager_AuthenticateFingerprintMismatch(t *testing.T) {
	tests := []struct {
		name      string
		ip        string
		userAgent string
	}{
		{"changed_ip", "10.0.0.99", "agent-a"},
		{"changed_user_agent", "10.0.0.1", "agent-b"},
		{"both_changed", "10.0.0.99", "agent-b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemorySessionStore()
			manager := auth.NewManager(store, nil, discardLogger())
			ctx := context.Background()

			sessionID, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
			require.NoError(t, err)

			_, err = manager.Authenticate(ctx, sessionID, tt.ip, tt.userAgent)
			require.Error(t, err)

			ae := apperr.As(err)
			require.NotNil(t, ae)
			assert.Equal(t, "Authentication required", ae.Message)

			// The record is torn down, so even the original fingerprint is
			// now rejected.
			assert.Zero(t, store.count())
			_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
			assert.Error(t, err)
		})
	}
}

/*
TestManager_PeekDoesNotRefresh verifies the read-only contract of Peek: no
fingerprint check, no window refresh.
*/
func TestManager_PeekDoesNotRefresh(t *testing.T) {
	store := newMemorySessionStore()
	now, advance := fixedClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	manager := auth.NewManager(store, nil, discardLogger()).WithClock(now)
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)

	advance(20 * time.Minute)
	session, err := manager.Peek(ctx, sessionID)
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "lena@example.com", session.Email)

	// Peek did not restart the window: 11 more minutes (31 since login)
	// exceeds it.
	advance(11 * time.Minute)
	_, err = manager.Authenticate(ctx, sessionID, "10.0.0.1", "agent-a")
	assert.Error(t, err)
}

/*
TestManager_DestroyIsIdempotent verifies that destroying a session twice, or
destroying an unknown identifier, succeeds quietly.
*/
func TestManager_DestroyIsIdempotent(t *testing.T) {
	store := newMemorySessionStore()
	manager := auth.NewManager(store, nil, discardLogger())
	ctx := context.Background()

	sessionID, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)

	require.NoError(t, manager.Destroy(ctx, sessionID))
	assert.Zero(t, store.count())

	assert.NoError(t, manager.Destroy(ctx, sessionID))
	assert.NoError(t, manager.Destroy(ctx, "never-existed"))
	assert.NoError(t, manager.Destroy(ctx, ""))
}

/*
TestManager_DestroyAllForUser verifies bulk revocation leaves other users'
sessions untouched.
*/
func TestManager_DestroyAllForUser(t *testing.T) {
	store := newMemorySessionStore()
	manager := auth.NewManager(store, nil, discardLogger())
	ctx := context.Background()

	_, err := manager.Create(ctx, testUser(), "10.0.0.1", "agent-a")
	require.NoError(t, err)
	_, err = manager.Create(ctx, testUser(), "10.0.0.2", "agent-b")
	require.NoError(t, err)

	other := &auth.User{ID: "user-2", Username: "marc", Role: sec.RoleCustomer, IsActive: true}
	otherSession, err := manager.Create(ctx, other, "10.0.0.3", "agent-c")
	require.NoError(t, err)

	require.NoError(t, manager.DestroyAllForUser(ctx, "user-1"))
	assert.Equal(t, 1, store.count())

	_, err = manager.Authenticate(ctx, otherSession, "10.0.0.3", "agent-c")
	assert.NoError(t, err)
}
