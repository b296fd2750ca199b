package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/credvault/credvault/internal/access"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityUsecaseMocks "github.com/credvault/credvault/internal/identity/usecase/mocks"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

type userFixture struct {
	userRepo         *identityUsecaseMocks.MockUserRepository
	organizationRepo *identityUsecaseMocks.MockOrganizationRepository
	collectionRepo   *identityUsecaseMocks.MockCollectionRepository
	folderRepo       *identityUsecaseMocks.MockFolderRepository
	passwordService  *identityUsecaseMocks.MockPasswordService
	resolver         *identityUsecaseMocks.MockScopeResolver
	usecase          UserUseCase
}

func newUserFixture() *userFixture {
	f := &userFixture{
		userRepo:         &identityUsecaseMocks.MockUserRepository{},
		organizationRepo: &identityUsecaseMocks.MockOrganizationRepository{},
		collectionRepo:   &identityUsecaseMocks.MockCollectionRepository{},
		folderRepo:       &identityUsecaseMocks.MockFolderRepository{},
		passwordService:  &identityUsecaseMocks.MockPasswordService{},
		resolver:         &identityUsecaseMocks.MockScopeResolver{},
	}
	f.usecase = NewUserUseCase(
		f.userRepo,
		f.organizationRepo,
		f.collectionRepo,
		f.folderRepo,
		f.passwordService,
		f.resolver,
	)
	return f
}

func adminScopeFor(identity identityDomain.Identity, companyID uuid.UUID) *access.Scope {
	return access.NewScope(identity.UserID, identityDomain.RoleCompanySuperAdmin, companyID, identityDomain.PermissionGrants{})
}

func TestUserUseCase_Create(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())

	t.Run("CreatesCompanyUserWithGrants", func(t *testing.T) {
		f := newUserFixture()

		folderID := uuid.Must(uuid.NewV7())
		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("GetByEmail", ctx, "bob@acme.com").Return(nil, identityDomain.ErrUserNotFound)
		f.organizationRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.folderRepo.On("GetByIDs", mock.Anything, []uuid.UUID{folderID}).Return([]*vaultDomain.Folder{
			{ID: folderID, CompanyID: companyID},
		}, nil)
		f.passwordService.On("HashPassword", "Str0ng!Passw0rd").Return("hashed", nil)
		f.userRepo.On("Create", ctx, mock.MatchedBy(func(u *identityDomain.User) bool {
			return u.CompanyID == companyID &&
				u.Role == identityDomain.RoleCompanyUser &&
				len(u.Permissions.Folders) == 1
		})).Return(nil)

		user, err := f.usecase.Create(ctx, identity, &identityDomain.CreateUserInput{
			Email:    "bob@acme.com",
			Name:     "Bob",
			Password: "Str0ng!Passw0rd",
			Role:     identityDomain.RoleCompanyUser,
			IsActive: true,
			Permissions: identityDomain.PermissionGrants{
				Folders: []uuid.UUID{folderID},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, companyID, user.CompanyID)
	})

	t.Run("CrossCompanyGrantRejected", func(t *testing.T) {
		f := newUserFixture()

		folderID := uuid.Must(uuid.NewV7())
		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("GetByEmail", ctx, "bob@acme.com").Return(nil, identityDomain.ErrUserNotFound)
		f.organizationRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.folderRepo.On("GetByIDs", mock.Anything, []uuid.UUID{folderID}).Return([]*vaultDomain.Folder{
			{ID: folderID, CompanyID: uuid.Must(uuid.NewV7())},
		}, nil)

		user, err := f.usecase.Create(ctx, identity, &identityDomain.CreateUserInput{
			Email:    "bob@acme.com",
			Name:     "Bob",
			Password: "Str0ng!Passw0rd",
			Role:     identityDomain.RoleCompanyUser,
			Permissions: identityDomain.PermissionGrants{
				Folders: []uuid.UUID{folderID},
			},
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, identityDomain.ErrCrossCompanyGrant)
		f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CompanyUserCallerDenied", func(t *testing.T) {
		f := newUserFixture()

		scope := access.NewScope(identity.UserID, identityDomain.RoleCompanyUser, companyID, identityDomain.PermissionGrants{})
		f.resolver.On("ResolveScope", ctx, identity).Return(scope, nil)

		user, err := f.usecase.Create(ctx, identity, &identityDomain.CreateUserInput{
			Email: "bob@acme.com",
			Role:  identityDomain.RoleCompanyUser,
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserManagementDenied)
	})

	t.Run("SuperAdminCannotCreateMasterAdmin", func(t *testing.T) {
		f := newUserFixture()

		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)

		user, err := f.usecase.Create(ctx, identity, &identityDomain.CreateUserInput{
			Email: "root@acme.com",
			Role:  identityDomain.RoleMasterAdmin,
		})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestUserUseCase_UpdatePermissions(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())
	target := &identityDomain.User{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Role:      identityDomain.RoleCompanyUser,
		IsActive:  true,
	}

	t.Run("ReplacesGrantSets", func(t *testing.T) {
		f := newUserFixture()

		organizationID := uuid.Must(uuid.NewV7())
		collectionID := uuid.Must(uuid.NewV7())
		grants := identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{organizationID},
			Collections:   []uuid.UUID{collectionID},
		}

		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("Get", ctx, target.ID).Return(target, nil)
		f.organizationRepo.On("GetByIDs", mock.Anything, grants.Organizations).Return([]*vaultDomain.Organization{
			{ID: organizationID, CompanyID: companyID},
		}, nil)
		f.collectionRepo.On("GetByIDs", mock.Anything, grants.Collections).Return([]*vaultDomain.Collection{
			{ID: collectionID, CompanyID: companyID},
		}, nil)
		f.folderRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *identityDomain.User) bool {
			return u.ID == target.ID && len(u.Permissions.Organizations) == 1 && len(u.Permissions.Collections) == 1
		})).Return(nil)

		user, err := f.usecase.UpdatePermissions(ctx, identity, target.ID, grants)
		require.NoError(t, err)
		assert.Equal(t, grants, user.Permissions)
	})

	t.Run("DanglingGrantAccepted", func(t *testing.T) {
		f := newUserFixture()

		// A grant referencing a deleted folder stays on the user; it simply
		// stops granting visibility.
		grants := identityDomain.PermissionGrants{
			Folders: []uuid.UUID{uuid.Must(uuid.NewV7())},
		}

		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("Get", ctx, target.ID).Return(target, nil)
		f.organizationRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.collectionRepo.On("GetByIDs", mock.Anything, mock.Anything).Return(nil, nil)
		f.folderRepo.On("GetByIDs", mock.Anything, grants.Folders).Return(nil, nil)
		f.userRepo.On("Update", ctx, mock.Anything).Return(nil)

		_, err := f.usecase.UpdatePermissions(ctx, identity, target.ID, grants)
		require.NoError(t, err)
	})

	t.Run("AdminTargetRejected", func(t *testing.T) {
		f := newUserFixture()

		admin := &identityDomain.User{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: companyID,
			Role:      identityDomain.RoleCompanySuperAdmin,
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("Get", ctx, admin.ID).Return(admin, nil)

		user, err := f.usecase.UpdatePermissions(ctx, identity, admin.ID, identityDomain.PermissionGrants{})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	})

	t.Run("OtherCompanyTargetDenied", func(t *testing.T) {
		f := newUserFixture()

		other := &identityDomain.User{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: uuid.Must(uuid.NewV7()),
			Role:      identityDomain.RoleCompanyUser,
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("Get", ctx, other.ID).Return(other, nil)

		user, err := f.usecase.UpdatePermissions(ctx, identity, other.ID, identityDomain.PermissionGrants{})
		assert.Nil(t, user)
		assert.ErrorIs(t, err, ErrUserManagementDenied)
	})
}

func TestUserUseCase_Update(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())

	t.Run("EmptyPasswordKeepsCurrentHash", func(t *testing.T) {
		f := newUserFixture()

		target := &identityDomain.User{
			ID:           uuid.Must(uuid.NewV7()),
			CompanyID:    companyID,
			Role:         identityDomain.RoleCompanyUser,
			PasswordHash: "original",
			IsActive:     true,
		}
		f.resolver.On("ResolveScope", ctx, identity).Return(adminScopeFor(identity, companyID), nil)
		f.userRepo.On("Get", ctx, target.ID).Return(target, nil)
		f.userRepo.On("Update", ctx, mock.MatchedBy(func(u *identityDomain.User) bool {
			return u.PasswordHash == "original" && u.Name == "Robert" && !u.IsActive
		})).Return(nil)

		user, err := f.usecase.Update(ctx, identity, target.ID, &identityDomain.UpdateUserInput{
			Name:     "Robert",
			IsActive: false,
		})
		require.NoError(t, err)
		assert.False(t, user.IsActive)
		f.passwordService.AssertNotCalled(t, "HashPassword", mock.Anything)
	})
}
