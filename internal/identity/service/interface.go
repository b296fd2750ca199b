// Package service provides identity-related services: password hashing and
// bearer token signing/verification.
package service

import (
	"time"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// PasswordService defines password hashing operations for user accounts.
type PasswordService interface {
	// HashPassword hashes a plain text password.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword performs a constant-time comparison between a plain
	// password and its hash.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// TokenService defines bearer token operations. Tokens carry only the caller
// identity (user id, role, company id); permission grants are never embedded
// so that revocation takes effect without re-issuing tokens.
type TokenService interface {
	// Sign issues a signed token for the given identity.
	Sign(identity *identityDomain.Identity, ttl time.Duration) (string, error)

	// Verify validates the token signature and expiry and extracts the
	// identity claims.
	Verify(token string) (*identityDomain.Identity, error)
}
