package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/access"
	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	"github.com/credvault/credvault/internal/autofill/usecase/mocks"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

type locatorFixture struct {
	credentialRepo *mocks.MockCredentialRepository
	selectionRepo  *mocks.MockSelectionRepository
	resolver       *mocks.MockScopeResolver
	decrypter      *mocks.MockCredentialDecrypter
	useCase        LocatorUseCase
}

func newLocatorFixture(t *testing.T) *locatorFixture {
	t.Helper()

	f := &locatorFixture{
		credentialRepo: &mocks.MockCredentialRepository{},
		selectionRepo:  &mocks.MockSelectionRepository{},
		resolver:       &mocks.MockScopeResolver{},
		decrypter:      &mocks.MockCredentialDecrypter{},
	}
	f.useCase = NewLocatorUseCase(f.credentialRepo, f.selectionRepo, f.resolver, f.decrypter)
	return f
}

func locatorIdentity(role identityDomain.Role) identityDomain.Identity {
	return identityDomain.Identity{
		UserID:    uuid.Must(uuid.NewV7()),
		Role:      role,
		CompanyID: uuid.Must(uuid.NewV7()),
	}
}

func hostCredential(companyID uuid.UUID, name, url string, updatedAt time.Time) *vaultDomain.Credential {
	return &vaultDomain.Credential{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Name:      name,
		URLs:      []string{url},
		UpdatedAt: updatedAt,
	}
}

func TestLocatorUseCase_Locate(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingHostRejectedBeforeStorage", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)

		_, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "   "})

		require.ErrorIs(t, err, autofillDomain.ErrMissingHost)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.resolver.AssertNotCalled(t, "ResolveScope")
		f.credentialRepo.AssertNotCalled(t, "Search")
	})

	t.Run("ExactBaseDomainMatchSurvives", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanySuperAdmin)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		matching := hostCredential(identity.CompanyID, "Example App", "https://app.example.com/login", time.Now().UTC())
		overMatch := hostCredential(identity.CompanyID, "Impostor", "https://notexample.com", time.Now().UTC())

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Search", ctx, mock.MatchedBy(func(search vaultDomain.CredentialSearch) bool {
			return search.CompanyWide && search.CompanyID == identity.CompanyID && search.BaseHost == "example.com"
		})).Return([]*vaultDomain.Credential{matching, overMatch}, nil)
		f.resolver.On("FilterCredentials", ctx, scope, []*vaultDomain.Credential{matching, overMatch}).
			Return([]*vaultDomain.Credential{matching, overMatch}, nil)
		f.decrypter.On("Decrypt", ctx, matching).Run(func(args mock.Arguments) {
			credential := args.Get(1).(*vaultDomain.Credential)
			credential.Username = "alice"
			credential.Secret = "hunter2!!"
		}).Return(nil)

		result, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "https://www.example.com/signin"})

		require.NoError(t, err)
		require.Equal(t, 1, result.MatchCount)
		require.Same(t, matching, result.Selected)
		assert.Equal(t, "Example App (alice)", result.Selected.Label())
		assert.False(t, result.NeedsDisambiguation())
		f.decrypter.AssertNumberOfCalls(t, "Decrypt", 1)
	})

	t.Run("NoGrantsShortCircuitsToEmpty", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)

		result, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "app.example.com"})

		require.NoError(t, err)
		assert.Zero(t, result.MatchCount)
		assert.Nil(t, result.Selected)
		f.credentialRepo.AssertNotCalled(t, "Search")
	})

	t.Run("ForbiddenResolverStopsBeforeStorage", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)

		f.resolver.On("ResolveScope", ctx, identity).Return(nil, apperrors.ErrForbidden)

		_, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "app.example.com"})

		require.ErrorIs(t, err, apperrors.ErrForbidden)
		f.credentialRepo.AssertNotCalled(t, "Search")
	})

	t.Run("MultipleMatchesSortedByRecencyUnselected", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanySuperAdmin)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		now := time.Now().UTC()
		oldest := hostCredential(identity.CompanyID, "Old", "https://example.com", now.Add(-2*time.Hour))
		middle := hostCredential(identity.CompanyID, "Middle", "https://app.example.com", now.Add(-time.Hour))
		newest := hostCredential(identity.CompanyID, "New", "https://example.com/login", now)

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Search", ctx, mock.Anything).
			Return([]*vaultDomain.Credential{oldest, newest, middle}, nil)
		f.resolver.On("FilterCredentials", ctx, scope, mock.Anything).
			Return([]*vaultDomain.Credential{oldest, newest, middle}, nil)
		f.decrypter.On("Decrypt", ctx, mock.Anything).Return(nil)
		f.selectionRepo.On("Get", ctx, identity.UserID, "app.example.com").
			Return(nil, apperrors.ErrNotFound)

		result, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "app.example.com"})

		require.NoError(t, err)
		require.Equal(t, 3, result.MatchCount)
		assert.Equal(t, []*vaultDomain.Credential{newest, middle, oldest}, result.Matches)
		assert.Nil(t, result.Selected)
		assert.True(t, result.NeedsDisambiguation())
	})

	t.Run("RememberedSelectionOverridesRecency", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanySuperAdmin)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		now := time.Now().UTC()
		older := hostCredential(identity.CompanyID, "Older", "https://example.com", now.Add(-time.Hour))
		newest := hostCredential(identity.CompanyID, "New", "https://example.com", now)

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Search", ctx, mock.Anything).
			Return([]*vaultDomain.Credential{older, newest}, nil)
		f.resolver.On("FilterCredentials", ctx, scope, mock.Anything).
			Return([]*vaultDomain.Credential{older, newest}, nil)
		f.decrypter.On("Decrypt", ctx, mock.Anything).Return(nil)
		f.selectionRepo.On("Get", ctx, identity.UserID, "example.com").
			Return(&autofillDomain.Selection{
				UserID:       identity.UserID,
				Host:         "example.com",
				CredentialID: older.ID,
			}, nil)

		result, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "example.com"})

		require.NoError(t, err)
		require.Same(t, older, result.Selected)
		assert.False(t, result.NeedsDisambiguation())
	})

	t.Run("StaleSelectionFallsBackToMostRecent", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanySuperAdmin)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		now := time.Now().UTC()
		older := hostCredential(identity.CompanyID, "Older", "https://example.com", now.Add(-time.Hour))
		newest := hostCredential(identity.CompanyID, "New", "https://example.com", now)

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Search", ctx, mock.Anything).
			Return([]*vaultDomain.Credential{older, newest}, nil)
		f.resolver.On("FilterCredentials", ctx, scope, mock.Anything).
			Return([]*vaultDomain.Credential{older, newest}, nil)
		f.decrypter.On("Decrypt", ctx, mock.Anything).Return(nil)
		f.selectionRepo.On("Get", ctx, identity.UserID, "example.com").
			Return(&autofillDomain.Selection{
				UserID:       identity.UserID,
				Host:         "example.com",
				CredentialID: uuid.Must(uuid.NewV7()),
			}, nil)

		result, err := f.useCase.Locate(ctx, identity, &autofillDomain.LocateInput{Host: "example.com"})

		require.NoError(t, err)
		require.Same(t, newest, result.Selected)
	})
}

func TestLocatorUseCase_SetSelection(t *testing.T) {
	ctx := context.Background()

	t.Run("NormalizesHostAndUpserts", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		credential := hostCredential(identity.CompanyID, "Example App", "https://app.example.com", time.Now().UTC())

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
		f.resolver.On("AllowCredential", ctx, scope, credential).Return(nil)
		f.selectionRepo.On("Upsert", ctx, mock.MatchedBy(func(selection *autofillDomain.Selection) bool {
			return selection.UserID == identity.UserID &&
				selection.Host == "app.example.com" &&
				selection.CredentialID == credential.ID
		})).Return(nil)

		err := f.useCase.SetSelection(ctx, identity, "https://WWW.app.example.com/login", credential.ID)

		require.NoError(t, err)
		f.selectionRepo.AssertExpectations(t)
	})

	t.Run("DeniedCredentialIsForbidden", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		credential := hostCredential(identity.CompanyID, "Example App", "https://app.example.com", time.Now().UTC())

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
		f.resolver.On("AllowCredential", ctx, scope, credential).Return(access.ErrCredentialDenied)

		err := f.useCase.SetSelection(ctx, identity, "app.example.com", credential.ID)

		require.ErrorIs(t, err, apperrors.ErrForbidden)
		f.selectionRepo.AssertNotCalled(t, "Upsert")
	})

	t.Run("HostMismatchRejected", func(t *testing.T) {
		f := newLocatorFixture(t)
		identity := locatorIdentity(identityDomain.RoleCompanyUser)
		scope := access.NewScope(identity.UserID, identity.Role, identity.CompanyID, identityDomain.PermissionGrants{})

		credential := hostCredential(identity.CompanyID, "Example App", "https://app.example.com", time.Now().UTC())

		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		f.credentialRepo.On("Get", ctx, credential.ID).Return(credential, nil)
		f.resolver.On("AllowCredential", ctx, scope, credential).Return(nil)

		err := f.useCase.SetSelection(ctx, identity, "unrelated.org", credential.ID)

		require.ErrorIs(t, err, apperrors.ErrInvalidInput)
		f.selectionRepo.AssertNotCalled(t, "Upsert")
	})
}
