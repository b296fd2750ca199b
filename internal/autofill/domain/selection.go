// Package domain contains the core types of credential resolution for
// autofill: remembered selections and locate results.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// Selection remembers one credential choice for a (user, normalized host)
// pair. Writes are last-write-wins; there is no history. A selection pointing
// at a credential the user can no longer see is not an error, resolution
// simply falls back to the most recently updated match.
type Selection struct {
	UserID       uuid.UUID
	Host         string
	CredentialID uuid.UUID
	UpdatedAt    time.Time
}

// LocateInput contains the parameters of a resolution request.
type LocateInput struct {
	// Host is the raw host or URL reported by the browser tab.
	Host string
}

// LocateResult is the outcome of resolving credentials for a host. Matches
// carry decrypted fields and are sorted most recently updated first.
type LocateResult struct {
	Matches []*vaultDomain.Credential

	// Selected is set when exactly one match exists or when a remembered
	// selection is still among the matches.
	Selected *vaultDomain.Credential

	// MatchCount is len(Matches). The extension prompts the user to pick
	// when it exceeds one and Selected is nil.
	MatchCount int
}

// NeedsDisambiguation reports whether the caller has to choose between
// matches before filling.
func (r *LocateResult) NeedsDisambiguation() bool {
	return r.MatchCount > 1 && r.Selected == nil
}

// ErrMissingHost rejects resolution requests without a host before any
// storage access.
var ErrMissingHost = apperrors.Wrap(apperrors.ErrInvalidInput, "host is required")

// ErrSelectionNotFound indicates no selection is remembered for the
// (user, host) pair.
var ErrSelectionNotFound = apperrors.Wrap(apperrors.ErrNotFound, "selection not found")
