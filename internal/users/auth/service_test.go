// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/internal/users/auth"
)

// memoryUserRepository is an in-memory UserRepository for tests.
type memoryUserRepository struct {
	mu    sync.Mutex
	users map[string]*auth.User
}

func newMemoryUserRepository() *memoryUserRepository {
	return &memoryUserRepository{users: make(map[string]*auth.User)}
}

func (repo *memoryUserRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[id]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, apperr.NotFound("User not found")
}

func (repo *memoryUserRepository) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this email")
}

func (repo *memoryUserRepository) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, user := range repo.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperr.NotFound("User not found with this username")
}

func (repo *memoryUserRepository) Create(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) Update(_ context.Context, user *auth.User) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	copied := *user
	repo.users[user.ID] = &copied
	return nil
}

func (repo *memoryUserRepository) UpdatePassword(_ context.Context, userID, newHash string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if user, ok := repo.users[userID]; ok {
		user.PasswordHash = newHash
	}
	return nil
}

func (repo *memoryUserRepository) SoftDelete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	delete(repo.users, id)
	return nil
}

func newTestService(t *testing.T) (*auth.Service, *memoryUserRepository, *memorySessionStore) {
	t.Helper()
	userRepo := newMemoryUserRepository()
	sessionStore := newMemorySessionStore()
	manager := auth.NewManager(sessionStore, nil, discardLogger())
	return auth.NewService(userRepo, manager), userRepo, sessionStore
}

func register(t *testing.T, service *auth.Service, username string, role sec.Role, vendorID string) *auth.User {
	t.Helper()
	user, err := service.Register(context.Background(), auth.RegisterInput{
		Username:    username,
		Email:       username + "@example.com",
		Password:    "correct-horse-battery",
		DisplayName: username,
		Role:        role,
		VendorID:    vendorID,
	})
	require.NoError(t, err)
	return user
}

/*
TestService_Register covers role gating and the vendor binding rules.
*/
func TestService_Register(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	customer := register(t, service, "cora", sec.RoleCustomer, "")
	assert.Equal(t, sec.RoleCustomer, customer.Role)
	assert.True(t, customer.IsActive)
	assert.NotEmpty(t, customer.ID)

	vendorUser := register(t, service, "vern", sec.RoleVendor, "vendor-1")
	assert.Equal(t, "vendor-1", vendorUser.VendorID)

	// Administrator accounts cannot be self-registered.
	_, err := service.Register(ctx, auth.RegisterInput{
		Username: "eve", Email: "eve@example.com", Password: "correct-horse-battery",
		Role: sec.RoleAdministrator,
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Vendor role without a binding is rejected.
	_, err = service.Register(ctx, auth.RegisterInput{
		Username: "vick", Email: "vick@example.com", Password: "correct-horse-battery",
		Role: sec.RoleVendor,
	})
	assert.Error(t, err)

	// Customer role with a binding is rejected.
	_, err = service.Register(ctx, auth.RegisterInput{
		Username: "carl", Email: "carl@example.com", Password: "correct-horse-battery",
		Role: sec.RoleCustomer, VendorID: "vendor-1",
	})
	assert.Error(t, err)
}

/*
TestService_Register_Conflicts verifies duplicate email and username handling.
*/
func TestService_Register_Conflicts(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, service, "cora", sec.RoleCustomer, "")

	_, err := service.Register(ctx, auth.RegisterInput{
		Username: "other", Email: "cora@example.com", Password: "correct-horse-battery",
		Role: sec.RoleCustomer,
	})
	require.Error(t, err)
	assert.Equal(t, "Email is already registered", apperr.As(err).Message)

	_, err = service.Register(ctx, auth.RegisterInput{
		Username: "cora", Email: "fresh@example.com", Password: "correct-horse-battery",
		Role: sec.RoleCustomer,
	})
	require.Error(t, err)
	assert.Equal(t, "Username is already taken", apperr.As(err).Message)
}

/*
TestService_Login verifies credential checking, the enumeration-safe error,
and that each login mints a distinct session identifier.
*/
func TestService_Login(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, service, "cora", sec.RoleCustomer, "")

	// Login by username and by email both work.
	first, err := service.Login(ctx, auth.LoginInput{
		Login: "cora", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, "cora", first.User.Username)

	second, err := service.Login(ctx, auth.LoginInput{
		Login: "cora@example.com", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
	})
	require.NoError(t, err)

	// Fixation defence: a second login never reuses an identifier.
	assert.NotEqual(t, first.SessionID, second.SessionID)

	// Unknown user and wrong password produce the identical message.
	_, unknownErr := service.Login(ctx, auth.LoginInput{Login: "ghost", Password: "whatever"})
	_, wrongErr := service.Login(ctx, auth.LoginInput{Login: "cora", Password: "wrong"})
	require.Error(t, unknownErr)
	require.Error(t, wrongErr)
	assert.Equal(t, apperr.As(unknownErr).Message, apperr.As(wrongErr).Message)
}

/*
TestService_Login_SessionBoundToLoginFingerprint verifies that the session
created at login is bound to the fingerprint presented then, not to whatever
the next request claims.
*/
func TestService_Login_SessionBoundToLoginFingerprint(t *testing.T) {
	service, _, _ := newTestService(t)
	ctx := context.Background()

	register(t, service, "cora", sec.RoleCustomer, "")
	result, err := service.Login(ctx, auth.LoginInput{
		Login: "cora", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
	})
	require.NoError(t, err)

	_, err = service.Sessions().Authenticate(ctx, result.SessionID, "10.0.0.1", "agent-a")
	assert.NoError(t, err)

	// A different client presenting the stolen cookie is rejected and the
	// session is gone.
	result2, err := service.Login(ctx, auth.LoginInput{
		Login: "cora", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
	})
	require.NoError(t, err)
	_, err = service.Sessions().Authenticate(ctx, result2.SessionID, "172.16.0.9", "agent-a")
	require.Error(t, err)
	_, err = service.Sessions().Authenticate(ctx, result2.SessionID, "10.0.0.1", "agent-a")
	assert.Error(t, err)
}

/*
TestService_Login_DestroysPresentedSession verifies that a session cookie
presented with the login request is retired server-side: after the new login
succeeds, the old identifier no longer authenticates.
*/
func TestService_Login_DestroysPresentedSession(t *testing.T) {
	service, _, sessionStore := newTestService(t)
	ctx := context.Background()

	register(t, service, "cora", sec.RoleCustomer, "")

	first, err := service.Login(ctx, auth.LoginInput{
		Login: "cora", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
	})
	require.NoError(t, err)
	_, err = service.Sessions().Authenticate(ctx, first.SessionID, "10.0.0.1", "agent-a")
	require.NoError(t, err)

	// Re-login while still holding the first cookie.
	second, err := service.Login(ctx, auth.LoginInput{
		Login: "cora", Password: "correct-horse-battery",
		IPAddress: "10.0.0.1", UserAgent: "agent-a",
		PriorSessionID: first.SessionID,
	})
	require.NoError(t, err)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	// The pre-login identifier is dead; only the fresh one works.
	_, err = service.Sessions().Authenticate(ctx, first.SessionID, "10.0.0.1", "agent-a")
	require.Error(t, err)
	assert.Equal(t, "Authentication required", apperr.As(err).Message)
	_, err = service.Sessions().Authenticate(ctx, second.SessionID, "10.0.0.1", "agent-a")
	assert.NoError(t, err)
	assert.Equal(t, 1, sessionStore.count())
}

/*
TestService_ChangePassword verifies the full rotation: wrong current password
is rejected, success replaces the hash and revokes every session.
*/
func TestService_ChangePassword(t *testing.T) {
	service, _, sessionStore := newTestService(t)
	ctx := context.Background()

	user := register(t, service, "cora", sec.RoleCustomer, "")

	_, err := service.Login(ctx, auth.LoginInput{Login: "cora", Password: "correct-horse-battery", IPAddress: "10.0.0.1", UserAgent: "a"})
	require.NoError(t, err)
	_, err = service.Login(ctx, auth.LoginInput{Login: "cora", Password: "correct-horse-battery", IPAddress: "10.0.0.2", UserAgent: "b"})
	require.NoError(t, err)
	require.Equal(t, 2, sessionStore.count())

	err = service.ChangePassword(ctx, user.ID, "not-the-password", "new-password-123")
	require.Error(t, err)
	assert.Equal(t, "Current password is incorrect", apperr.As(err).Message)
	assert.Equal(t, 2, sessionStore.count())

	require.NoError(t, service.ChangePassword(ctx, user.ID, "correct-horse-battery", "new-password-123"))
	assert.Zero(t, sessionStore.count())

	// Old password no longer works, new one does.
	_, err = service.Login(ctx, auth.LoginInput{Login: "cora", Password: "correct-horse-battery"})
	assert.Error(t, err)
	_, err = service.Login(ctx, auth.LoginInput{Login: "cora", Password: "new-password-123"})
	assert.NoError(t, err)
}

/*
TestService_Deactivate verifies that a deactivated account loses its sessions
and can no longer log in.
*/
func TestService_Deactivate(t *testing.T) {
	service, _, sessionStore := newTestService(t)
	ctx := context.Background()

	user := register(t, service, "cora", sec.RoleCustomer, "")
	_, err := service.Login(ctx, auth.LoginInput{Login: "cora", Password: "correct-horse-battery"})
	require.NoError(t, err)

	require.NoError(t, service.Deactivate(ctx, user.ID))
	assert.Zero(t, sessionStore.count())

	_, err = service.Login(ctx, auth.LoginInput{Login: "cora", Password: "correct-horse-battery"})
	assert.Error(t, err)
}
