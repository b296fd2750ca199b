package access

import (
	"github.com/credvault/credvault/internal/errors"
)

// Access-specific error definitions. All of them signal a hard stop for the
// request, distinct from an empty resolution result.
var (
	// ErrCallerUnknown indicates the caller's user record no longer exists.
	ErrCallerUnknown = errors.Wrap(errors.ErrForbidden, "caller not found")

	// ErrCompanyMismatch indicates the token's company does not match the
	// stored user record.
	ErrCompanyMismatch = errors.Wrap(errors.ErrForbidden, "caller company mismatch")

	// ErrCredentialDenied indicates the caller may not see the credential.
	ErrCredentialDenied = errors.Wrap(errors.ErrForbidden, "credential access denied")

	// ErrGroupingDenied indicates the caller may not see the organization,
	// collection or folder.
	ErrGroupingDenied = errors.Wrap(errors.ErrForbidden, "grouping access denied")
)
