// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package auth

import (
	"context"
	"fmt"

	"github.com/rentiva/rentiva/internal/platform/apperr"
	"github.com/rentiva/rentiva/internal/platform/constants"
	"github.com/rentiva/rentiva/internal/platform/sec"
	"github.com/rentiva/rentiva/pkg/uuidv7"
)

// # Service

// Service implements the account and authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, login, or
// session handling must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	sessions       *Manager
	tokens         *sec.TokenService
}

// NewService constructs the authentication service.
func NewService(userRepository UserRepository, sessions *Manager) *Service {
	return &Service{
		userRepository: userRepository,
		sessions:       sessions,
	}
}

// WithTokenService enables JWT issuance for the integration API surface.
func (service *Service) WithTokenService(tokens *sec.TokenService) *Service {
	service.tokens = tokens
	return service
}

// Sessions exposes the session manager for middleware wiring.
func (service *Service) Sessions() *Manager {
	return service.sessions
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new account.
type RegisterInput struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
	Role        sec.Role
	VendorID    string // Required when Role is vendor, forbidden otherwise.
}

/*
Register validates, hashes, and persists a brand new user account.

Description: Enrolls a customer or vendor account. Administrator accounts are
never self-registered — they are provisioned out of band.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - error: Conflict (if identity exists), Forbidden (administrator role), or
    storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {

	// Self-service registration covers the two public roles only.
	if input.Role != sec.RoleCustomer && input.Role != sec.RoleVendor {
		return nil, apperr.Forbidden("This role cannot be self-registered")
	}

	// Vendor accounts must be bound to a vendor; the binding is what scopes
	// every later ownership check.
	if input.Role == sec.RoleVendor && input.VendorID == "" {
		return nil, apperr.Unprocessable("A vendor account requires a vendor binding")
	}
	if input.Role == sec.RoleCustomer && input.VendorID != "" {
		return nil, apperr.Unprocessable("A customer account cannot carry a vendor binding")
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	_, err := service.userRepository.FindByEmail(context, input.Email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	_, err = service.userRepository.FindByUsername(context, input.Username)
	if err == nil {
		return nil, apperr.Conflict("Username is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during registration spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new User entity. Time-sortable ID to prevent PG index fragmentation.
	user := &User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		DisplayName:  input.DisplayName,
		Role:         input.Role,
		VendorID:     input.VendorID,
		IsActive:     true,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginInput defines credentials for an authentication attempt, together
// with the client fingerprint the new session will be bound to.
type LoginInput struct {
	Login          string // Can be Username or Email
	Password       string
	UserAgent      string
	IPAddress      string
	PriorSessionID string // Session cookie presented with the login request, if any.
}

// LoginResult carries the established session and the authenticated account.
type LoginResult struct {
	SessionID string
	User      *User
}

/*
Login validates user credentials and establishes a server-side session.

Description: Verifies identity with a constant-time password comparison, then
creates a session with a freshly generated identifier bound to the presented
client fingerprint. Any session the client presented with the login request
is destroyed first — a pre-login identifier must never remain usable after
credentials change hands, whoever planted it.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginResult: The new session identifier and account
  - error: Unauthorized or internal failures
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginResult, error) {
	var user *User
	var err error
	// Flexible login: look up by Email or Username
	user, err = service.userRepository.FindByEmail(context, input.Login)
	if err != nil {
		user, err = service.userRepository.FindByUsername(context, input.Login)
	}

	// If (err != nil) the user does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Deactivated accounts authenticate like unknown ones.
	if !user.IsActive {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Retire the pre-login session before minting the new one, so the old
	// identifier stops authenticating the moment login succeeds.
	if input.PriorSessionID != "" {
		if err := service.sessions.Destroy(context, input.PriorSessionID); err != nil {
			return nil, fmt.Errorf("auth_service_prior_session_destroy_failed: %w", err)
		}
	}

	sessionID, err := service.sessions.Create(context, user, input.IPAddress, input.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("auth_service_session_create_failed: %w", err)
	}

	return &LoginResult{SessionID: sessionID, User: user}, nil
}

/*
Logout destroys the presented session. Unknown identifiers are ignored so the
operation is idempotent.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	return service.sessions.Destroy(context, sessionID)
}

/*
IssueIntegrationToken signs a short-lived RS256 JWT for the caller's account.

Description: The token serves the stateless integration API (vendor
back-office scripts). It carries the same identity the session resolved to
and expires after [constants.IntegrationTokenTTL]; revocation is not
possible, which is why the lifetime is short.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - string: Signed JWT
  - error: ServiceUnavailable when issuance is not configured, apperr.NotFound,
    or signing failures
*/
func (service *Service) IssueIntegrationToken(context context.Context, userID string) (string, error) {
	if service.tokens == nil {
		return "", apperr.ServiceUnavailable("Token issuance is not configured")
	}

	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return "", err
	}

	token, err := service.tokens.GenerateAccessToken(
		user.ID, user.Username, string(user.Role), user.VendorID, constants.IntegrationTokenTTL)
	if err != nil {
		return "", fmt.Errorf("auth_service_token_issue_failed: %w", err)
	}

	return token, nil
}

// # Account Management

/*
Profile returns the account for the given user ID.

Returns:
  - *User: Hydrated entity
  - error: apperr.NotFound or storage failures
*/
func (service *Service) Profile(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

// UpdateProfileInput holds the mutable profile fields.
type UpdateProfileInput struct {
	DisplayName string
}

/*
UpdateProfile persists changes to the caller's own profile.

Returns:
  - *User: Updated entity
  - error: Storage failures
*/
func (service *Service) UpdateProfile(context context.Context, userID string, input UpdateProfileInput) (*User, error) {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	user.DisplayName = input.DisplayName
	if err := service.userRepository.Update(context, user); err != nil {
		return nil, fmt.Errorf("auth_service_update_profile_failed: %w", err)
	}

	return user, nil
}

/*
ChangePassword replaces the user's password after verifying the current one,
then revokes every session belonging to the user. The caller must log in
again — a credential change invalidates all outstanding proofs of it.

Parameters:
  - context: context.Context
  - userID: string
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized (wrong current password) or storage failures
*/
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	user, err := service.userRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.userRepository.UpdatePassword(context, userID, newHash); err != nil {
		return fmt.Errorf("auth_service_change_password_failed: %w", err)
	}

	return service.sessions.DestroyAllForUser(context, userID)
}

/*
Deactivate soft-deletes the account and revokes all of its sessions.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Deactivate(context context.Context, userID string) error {
	if err := service.userRepository.SoftDelete(context, userID); err != nil {
		return err
	}
	return service.sessions.DestroyAllForUser(context, userID)
}
