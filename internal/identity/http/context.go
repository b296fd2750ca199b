// Package http provides HTTP handlers and middleware for identity
// operations: registration, login and company user management.
package http

import (
	"context"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// identityKey is a context key type for storing the authenticated identity.
type identityKey struct{}

// WithIdentity stores the authenticated caller identity in the context. This
// is called by the authentication middleware after token verification.
func WithIdentity(ctx context.Context, identity *identityDomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// GetIdentity retrieves the authenticated caller identity from the context.
// Returns (identity, true) if present, or (nil, false) if the request was not
// authenticated.
func GetIdentity(ctx context.Context) (*identityDomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(*identityDomain.Identity)
	return identity, ok
}
