// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

/*
Package auth implements the user identity and session management layer.

It defines the core domain entities (User, Session) and the logic for
authentication, session lifecycle, and account management.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.

# Session Model

Sessions are server-side records keyed by an opaque random identifier that the
browser carries in an HttpOnly cookie. Each record binds the client fingerprint
(IP address + User-Agent) captured at login and tracks a sliding inactivity
window. Any mismatch or expiry destroys the session; the caller only ever
learns "Authentication required".
*/
package auth

import (
	"time"

	"github.com/rentiva/rentiva/internal/platform/sec"
)

// # Domain Entities

// User represents a registered member of the Rentiva marketplace.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"display_name"`
	Role         sec.Role  `json:"role"`
	VendorID     string    `json:"vendor_id,omitempty"` // Set only for vendor-role accounts.
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Session is the server-side session record.
//
// The record is stored under its opaque ID; the ID itself never appears in
// the stored payload sent to clients. LastSeenAt drives the sliding
// inactivity window.
type Session struct {
	ID         string    `json:"-"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Role       sec.Role  `json:"role"`
	VendorID   string    `json:"vendor_id,omitempty"`
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// ExpiredAt reports whether the sliding inactivity window has elapsed at the
// given instant.
func (s *Session) ExpiredAt(now time.Time, idleTimeout time.Duration) bool {
	return now.Sub(s.LastSeenAt) > idleTimeout
}

// MatchesClient reports whether the presented client fingerprint is the one
// captured at login. Both components must match exactly.
func (s *Session) MatchesClient(ipAddress, userAgent string) bool {
	return s.IPAddress == ipAddress && s.UserAgent == userAgent
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldDisplayName     = "display_name"
	FieldRole            = "role"
	FieldLogin           = "login"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldUser            = "user"
	FieldToken           = "token"
	FieldMessage         = "message"
)

// Password policy bounds.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72 // bcrypt input limit
)
