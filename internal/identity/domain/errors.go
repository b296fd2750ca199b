package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Identity-specific error definitions.
var (
	// ErrUserNotFound indicates the user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrCompanyNotFound indicates the company does not exist.
	ErrCompanyNotFound = errors.Wrap(errors.ErrNotFound, "company not found")

	// ErrEmailTaken indicates another user already registered the email.
	ErrEmailTaken = errors.Wrap(errors.ErrConflict, "email already in use")

	// ErrInvalidCredentials indicates the email/password pair did not match.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid credentials")

	// ErrInvalidToken indicates the bearer token failed verification.
	ErrInvalidToken = errors.Wrap(errors.ErrUnauthorized, "invalid token")

	// ErrUserInactive indicates the account exists but is deactivated. This is
	// a hard stop distinct from an empty resolution result.
	ErrUserInactive = errors.Wrap(errors.ErrForbidden, "user is inactive")

	// ErrCrossCompanyGrant indicates a permission grant referenced an entity
	// owned by another company.
	ErrCrossCompanyGrant = errors.Wrap(errors.ErrInvalidInput, "grant references another company")
)
