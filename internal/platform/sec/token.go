// Copyright (c) 2026 Rentiva. All rights reserved.
// Author: platform@rentiva.app

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns a hex-encoded random token of byteLength bytes.
//
// # Usage
//
// Session identifiers are generated with this function. Because the value is
// read from crypto/rand, identifiers are unguessable and safe to hand to
// clients as opaque cookies.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sec: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the hex-encoded SHA-256 digest of a token.
//
// Stored token digests mean a leaked storage snapshot cannot be replayed
// as live credentials.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
