// Package usecase implements credential resolution for the browser
// extension: locating the credentials that apply to a site and remembering
// the caller's choice when several do.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/access"
	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// SelectionRepository defines the interface for Selection persistence.
// Upsert is last-write-wins on the (user, host) key.
type SelectionRepository interface {
	Get(ctx context.Context, userID uuid.UUID, host string) (*autofillDomain.Selection, error)
	Upsert(ctx context.Context, selection *autofillDomain.Selection) error
}

// CredentialRepository defines the credential search surface the locator
// needs. The search is the broad first pass; results still go through the
// strict permission re-check and the exact base-domain match.
type CredentialRepository interface {
	Get(ctx context.Context, credentialID uuid.UUID) (*vaultDomain.Credential, error)
	Search(ctx context.Context, search vaultDomain.CredentialSearch) ([]*vaultDomain.Credential, error)
}

// ScopeResolver resolves a caller identity into an authorization scope and
// applies the strict per-record re-check.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, identity identityDomain.Identity) (*access.Scope, error)
	FilterCredentials(ctx context.Context, scope *access.Scope, credentials []*vaultDomain.Credential) ([]*vaultDomain.Credential, error)
	AllowCredential(ctx context.Context, scope *access.Scope, credential *vaultDomain.Credential) error
}

// CredentialDecrypter populates the plaintext fields of a credential.
type CredentialDecrypter interface {
	Decrypt(ctx context.Context, credential *vaultDomain.Credential) error
}

// LocatorUseCase defines the business logic of credential resolution for
// autofill.
type LocatorUseCase interface {
	// Locate resolves the credentials applying to a host for the caller.
	// Matches come back decrypted and sorted most recently updated first.
	Locate(ctx context.Context, identity identityDomain.Identity, input *autofillDomain.LocateInput) (*autofillDomain.LocateResult, error)

	// SetSelection remembers the caller's credential choice for a host.
	SetSelection(ctx context.Context, identity identityDomain.Identity, host string, credentialID uuid.UUID) error
}
