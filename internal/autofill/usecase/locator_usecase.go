package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	"github.com/credvault/credvault/internal/sitematch"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// locatorUseCase implements the LocatorUseCase interface. Resolution is
// read-only and request-scoped; the caller's grants are re-read on every
// call, so permission edits take effect on the next request.
type locatorUseCase struct {
	credentialRepo CredentialRepository
	selectionRepo  SelectionRepository
	resolver       ScopeResolver
	decrypter      CredentialDecrypter
}

// Locate resolves the credentials applying to a host. The broad storage
// search is a superset: rows must survive the strict permission re-check and
// the exact base-domain match before they are decrypted and surfaced.
func (u *locatorUseCase) Locate(
	ctx context.Context,
	identity identityDomain.Identity,
	input *autofillDomain.LocateInput,
) (*autofillDomain.LocateResult, error) {
	if strings.TrimSpace(input.Host) == "" {
		return nil, autofillDomain.ErrMissingHost
	}

	host := sitematch.ParseHostname(input.Host)
	baseHost := sitematch.BaseDomain(host)

	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	search := scope.Search(baseHost)
	if search.Empty() {
		return &autofillDomain.LocateResult{}, nil
	}

	candidates, err := u.credentialRepo.Search(ctx, search)
	if err != nil {
		return nil, err
	}

	allowed, err := u.resolver.FilterCredentials(ctx, scope, candidates)
	if err != nil {
		return nil, err
	}

	// The substring search over-matches (notgoogle.com contains google.com);
	// only exact base-domain equality survives.
	matches := make([]*vaultDomain.Credential, 0, len(allowed))
	for _, credential := range allowed {
		if credentialMatchesHost(credential, host) {
			matches = append(matches, credential)
		}
	}
	if len(matches) == 0 {
		return &autofillDomain.LocateResult{}, nil
	}

	for _, credential := range matches {
		if err := u.decrypter.Decrypt(ctx, credential); err != nil {
			return nil, err
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].UpdatedAt.After(matches[j].UpdatedAt)
	})

	result := &autofillDomain.LocateResult{
		Matches:    matches,
		MatchCount: len(matches),
	}
	result.Selected = u.pickSelected(ctx, identity.UserID, host, matches)
	return result, nil
}

// pickSelected applies the selection policy: a single match selects itself; a
// remembered selection wins while it is still among the matches; a stale
// selection falls back to the most recently updated match; with no remembered
// selection at all, multiple matches stay unselected so the extension
// prompts.
func (u *locatorUseCase) pickSelected(
	ctx context.Context,
	userID uuid.UUID,
	host string,
	matches []*vaultDomain.Credential,
) *vaultDomain.Credential {
	if len(matches) == 1 {
		return matches[0]
	}

	selection, err := u.selectionRepo.Get(ctx, userID, host)
	if err != nil {
		// No remembered selection, or the selection store is unavailable.
		// Either way resolution proceeds without one.
		return nil
	}

	for _, credential := range matches {
		if credential.ID == selection.CredentialID {
			return credential
		}
	}
	return matches[0]
}

// SetSelection remembers the caller's credential choice for a host. The
// credential must currently be visible to the caller; the host is normalized
// the same way Locate normalizes it so the two operations agree on the key.
func (u *locatorUseCase) SetSelection(
	ctx context.Context,
	identity identityDomain.Identity,
	host string,
	credentialID uuid.UUID,
) error {
	if strings.TrimSpace(host) == "" {
		return autofillDomain.ErrMissingHost
	}
	normalized := sitematch.ParseHostname(host)

	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return err
	}

	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return err
	}
	if err := u.resolver.AllowCredential(ctx, scope, credential); err != nil {
		return err
	}
	if !credentialMatchesHost(credential, normalized) {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "credential does not match the host")
	}

	return u.selectionRepo.Upsert(ctx, &autofillDomain.Selection{
		UserID:       identity.UserID,
		Host:         normalized,
		CredentialID: credentialID,
		UpdatedAt:    time.Now().UTC(),
	})
}

func credentialMatchesHost(credential *vaultDomain.Credential, host string) bool {
	for _, storedURL := range credential.URLs {
		if sitematch.URLMatchesHost(storedURL, host) {
			return true
		}
	}
	return false
}

// ensure the interface is satisfied
var _ LocatorUseCase = (*locatorUseCase)(nil)

// NewLocatorUseCase creates a new locator use case instance.
func NewLocatorUseCase(
	credentialRepo CredentialRepository,
	selectionRepo SelectionRepository,
	resolver ScopeResolver,
	decrypter CredentialDecrypter,
) LocatorUseCase {
	return &locatorUseCase{
		credentialRepo: credentialRepo,
		selectionRepo:  selectionRepo,
		resolver:       resolver,
		decrypter:      decrypter,
	}
}
