package access

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/access/mocks"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

func newTestResolver() (*Resolver, *mocks.MockUserRepository, *mocks.MockFolderRepository, *mocks.MockCollectionRepository) {
	userRepo := &mocks.MockUserRepository{}
	folderRepo := &mocks.MockFolderRepository{}
	collectionRepo := &mocks.MockCollectionRepository{}
	return NewResolver(userRepo, folderRepo, collectionRepo), userRepo, folderRepo, collectionRepo
}

func activeUser(role identityDomain.Role, companyID uuid.UUID) *identityDomain.User {
	now := time.Now().UTC()
	return &identityDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Email:     "user@example.com",
		Name:      "Test User",
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestResolver_ResolveScope(t *testing.T) {
	ctx := context.Background()

	t.Run("MasterAdmin", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		user := activeUser(identityDomain.RoleMasterAdmin, companyID)
		userRepo.On("Get", ctx, user.ID).Return(user, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			Role:      identityDomain.RoleMasterAdmin,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.True(t, scope.AllCompanies())
		assert.True(t, scope.Search("example.com").AllCompanies)
		userRepo.AssertExpectations(t)
	})

	t.Run("CompanySuperAdmin", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		user := activeUser(identityDomain.RoleCompanySuperAdmin, companyID)
		userRepo.On("Get", ctx, user.ID).Return(user, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			Role:      identityDomain.RoleCompanySuperAdmin,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.True(t, scope.CompanyWide())

		search := scope.Search("example.com")
		assert.False(t, search.AllCompanies)
		assert.True(t, search.CompanyWide)
		assert.Equal(t, companyID, search.CompanyID)
	})

	t.Run("MissingUser", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		userID := uuid.Must(uuid.NewV7())
		userRepo.On("Get", ctx, userID).Return(nil, identityDomain.ErrUserNotFound)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{UserID: userID})
		assert.Nil(t, scope)
		assert.ErrorIs(t, err, ErrCallerUnknown)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("InactiveUser", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		user.IsActive = false
		userRepo.On("Get", ctx, user.ID).Return(user, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		assert.Nil(t, scope)
		assert.ErrorIs(t, err, identityDomain.ErrUserInactive)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("CompanyMismatch", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		user := activeUser(identityDomain.RoleCompanyUser, uuid.Must(uuid.NewV7()))
		userRepo.On("Get", ctx, user.ID).Return(user, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: uuid.Must(uuid.NewV7()),
		})
		assert.Nil(t, scope)
		assert.ErrorIs(t, err, ErrCompanyMismatch)
	})

	t.Run("CompanyUserWithoutGrants", func(t *testing.T) {
		resolver, userRepo, _, _ := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		userRepo.On("Get", ctx, user.ID).Return(user, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		require.NoError(t, err)

		// Deny-by-default: the broad filter can only ever match nothing.
		assert.True(t, scope.Search("example.com").Empty())
	})

	t.Run("FullChainGrant", func(t *testing.T) {
		resolver, userRepo, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		organizationID := uuid.Must(uuid.NewV7())
		collection := &vaultDomain.Collection{
			ID:             uuid.Must(uuid.NewV7()),
			CompanyID:      companyID,
			OrganizationID: &organizationID,
			Name:           "Engineering",
		}
		folder := &vaultDomain.Folder{
			ID:           uuid.Must(uuid.NewV7()),
			CompanyID:    companyID,
			CollectionID: &collection.ID,
			Name:         "CI",
		}

		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		user.Permissions = identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{organizationID},
			Collections:   []uuid.UUID{collection.ID},
			Folders:       []uuid.UUID{folder.ID},
		}

		userRepo.On("Get", ctx, user.ID).Return(user, nil)
		folderRepo.On("GetByIDs", mock.Anything, []uuid.UUID{folder.ID}).
			Return([]*vaultDomain.Folder{folder}, nil)
		collectionRepo.On("GetByIDs", mock.Anything, []uuid.UUID{collection.ID}).
			Return([]*vaultDomain.Collection{collection}, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{folder.ID}, scope.ValidFolderIDs)
		assert.Equal(t, []uuid.UUID{collection.ID}, scope.ValidCollectionIDs)
	})

	t.Run("MissingCollectionLinkVoidsFolderGrant", func(t *testing.T) {
		resolver, userRepo, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		collectionID := uuid.Must(uuid.NewV7())
		folder := &vaultDomain.Folder{
			ID:           uuid.Must(uuid.NewV7()),
			CompanyID:    companyID,
			CollectionID: &collectionID,
			Name:         "CI",
		}

		// The folder is granted but its collection is not.
		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		user.Permissions = identityDomain.PermissionGrants{
			Folders: []uuid.UUID{folder.ID},
		}

		userRepo.On("Get", ctx, user.ID).Return(user, nil)
		folderRepo.On("GetByIDs", mock.Anything, []uuid.UUID{folder.ID}).
			Return([]*vaultDomain.Folder{folder}, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).
			Return(nil, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.Empty(t, scope.ValidFolderIDs)
		assert.True(t, scope.Search("example.com").Empty())
	})

	t.Run("OrganizationOnlyGrantGrantsNothing", func(t *testing.T) {
		resolver, userRepo, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		user.Permissions = identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{uuid.Must(uuid.NewV7())},
		}

		userRepo.On("Get", ctx, user.ID).Return(user, nil)
		folderRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.True(t, scope.Search("example.com").Empty())
	})

	t.Run("FolderWithDirectOrganizationFallback", func(t *testing.T) {
		resolver, userRepo, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		organizationID := uuid.Must(uuid.NewV7())
		folder := &vaultDomain.Folder{
			ID:             uuid.Must(uuid.NewV7()),
			CompanyID:      companyID,
			OrganizationID: &organizationID,
			Name:           "Ops",
		}

		user := activeUser(identityDomain.RoleCompanyUser, companyID)
		user.Permissions = identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{organizationID},
			Folders:       []uuid.UUID{folder.ID},
		}

		userRepo.On("Get", ctx, user.ID).Return(user, nil)
		folderRepo.On("GetByIDs", mock.Anything, []uuid.UUID{folder.ID}).
			Return([]*vaultDomain.Folder{folder}, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)

		scope, err := resolver.ResolveScope(ctx, identityDomain.Identity{
			UserID:    user.ID,
			CompanyID: companyID,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{folder.ID}, scope.ValidFolderIDs)
	})
}

func TestResolver_FilterCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("MasterAdminSeesEverything", func(t *testing.T) {
		resolver, _, _, _ := newTestResolver()

		credentials := []*vaultDomain.Credential{
			{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())},
			{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())},
		}

		scope := &Scope{Role: identityDomain.RoleMasterAdmin}
		allowed, err := resolver.FilterCredentials(ctx, scope, credentials)
		require.NoError(t, err)
		assert.Equal(t, credentials, allowed)
	})

	t.Run("SuperAdminScopedToCompany", func(t *testing.T) {
		resolver, _, _, _ := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		mine := &vaultDomain.Credential{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID}
		other := &vaultDomain.Credential{ID: uuid.Must(uuid.NewV7()), CompanyID: uuid.Must(uuid.NewV7())}

		scope := &Scope{Role: identityDomain.RoleCompanySuperAdmin, CompanyID: companyID}
		allowed, err := resolver.FilterCredentials(ctx, scope, []*vaultDomain.Credential{mine, other})
		require.NoError(t, err)
		require.Len(t, allowed, 1)
		assert.Equal(t, mine.ID, allowed[0].ID)
	})

	t.Run("CompanyUserChainRecheck", func(t *testing.T) {
		resolver, _, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		organizationID := uuid.Must(uuid.NewV7())

		grantedCollection := &vaultDomain.Collection{
			ID:             uuid.Must(uuid.NewV7()),
			CompanyID:      companyID,
			OrganizationID: &organizationID,
		}
		grantedFolder := &vaultDomain.Folder{
			ID:           uuid.Must(uuid.NewV7()),
			CompanyID:    companyID,
			CollectionID: &grantedCollection.ID,
		}
		ungrantedOrgID := uuid.Must(uuid.NewV7())
		orgOnlyFolder := &vaultDomain.Folder{
			ID:             uuid.Must(uuid.NewV7()),
			CompanyID:      companyID,
			OrganizationID: &ungrantedOrgID,
		}

		// One credential through a full folder chain, one under an
		// organization-only grant path.
		visible := &vaultDomain.Credential{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
			FolderID:  &grantedFolder.ID,
		}
		invisible := &vaultDomain.Credential{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
			FolderID:  &orgOnlyFolder.ID,
		}

		scope := &Scope{
			UserID:        uuid.Must(uuid.NewV7()),
			Role:          identityDomain.RoleCompanyUser,
			CompanyID:     companyID,
			organizations: newGrantSet([]uuid.UUID{organizationID}),
			collections:   newGrantSet([]uuid.UUID{grantedCollection.ID}),
			folders:       newGrantSet([]uuid.UUID{grantedFolder.ID, orgOnlyFolder.ID}),
		}

		folderRepo.On("GetByIDs", mock.Anything, mock.MatchedBy(func(ids []uuid.UUID) bool {
			return len(ids) == 2
		})).Return([]*vaultDomain.Folder{grantedFolder, orgOnlyFolder}, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).
			Return([]*vaultDomain.Collection{grantedCollection}, nil)

		allowed, err := resolver.FilterCredentials(
			ctx, scope, []*vaultDomain.Credential{visible, invisible})
		require.NoError(t, err)
		require.Len(t, allowed, 1)
		assert.Equal(t, visible.ID, allowed[0].ID)
	})

	t.Run("LooseCredentialNeverVisibleToCompanyUser", func(t *testing.T) {
		resolver, _, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		loose := &vaultDomain.Credential{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
		}

		scope := &Scope{
			Role:          identityDomain.RoleCompanyUser,
			CompanyID:     companyID,
			organizations: newGrantSet(nil),
			collections:   newGrantSet(nil),
			folders:       newGrantSet(nil),
		}

		folderRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)

		allowed, err := resolver.FilterCredentials(ctx, scope, []*vaultDomain.Credential{loose})
		require.NoError(t, err)
		assert.Empty(t, allowed)
	})

	t.Run("DeletedFolderVoidsVisibility", func(t *testing.T) {
		resolver, _, folderRepo, collectionRepo := newTestResolver()

		companyID := uuid.Must(uuid.NewV7())
		folderID := uuid.Must(uuid.NewV7())
		credential := &vaultDomain.Credential{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
			FolderID:  &folderID,
		}

		scope := &Scope{
			Role:          identityDomain.RoleCompanyUser,
			CompanyID:     companyID,
			organizations: newGrantSet(nil),
			collections:   newGrantSet(nil),
			folders:       newGrantSet([]uuid.UUID{folderID}),
		}

		// The folder row is gone: the stale grant must not grant anything.
		folderRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)

		allowed, err := resolver.FilterCredentials(ctx, scope, []*vaultDomain.Credential{credential})
		require.NoError(t, err)
		assert.Empty(t, allowed)
	})
}

func TestResolver_AllowCredential(t *testing.T) {
	ctx := context.Background()

	resolver, _, folderRepo, collectionRepo := newTestResolver()

	companyID := uuid.Must(uuid.NewV7())
	credential := &vaultDomain.Credential{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
	}

	scope := &Scope{
		Role:          identityDomain.RoleCompanyUser,
		CompanyID:     companyID,
		organizations: newGrantSet(nil),
		collections:   newGrantSet(nil),
		folders:       newGrantSet(nil),
	}

	folderRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
	collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)

	err := resolver.AllowCredential(ctx, scope, credential)
	assert.ErrorIs(t, err, ErrCredentialDenied)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
