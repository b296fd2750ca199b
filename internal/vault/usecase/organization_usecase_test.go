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
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	databaseMocks "github.com/credvault/credvault/internal/database/mocks"
	vaultUsecaseMocks "github.com/credvault/credvault/internal/vault/usecase/mocks"
)

func superAdminScope(userID, companyID uuid.UUID) *access.Scope {
	return access.NewScope(userID, identityDomain.RoleCompanySuperAdmin, companyID, identityDomain.PermissionGrants{})
}

func companyUserScope(userID, companyID uuid.UUID, grants identityDomain.PermissionGrants) *access.Scope {
	return access.NewScope(userID, identityDomain.RoleCompanyUser, companyID, grants)
}

func TestOrganizationUseCase_Create(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}

	t.Run("SuperAdminSuccess", func(t *testing.T) {
		txManager := &databaseMocks.MockTxManager{}
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		trashRepo := &vaultUsecaseMocks.MockTrashRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(txManager, organizationRepo, trashRepo, resolver)

		companyID := uuid.Must(uuid.NewV7())
		resolver.On("ResolveScope", ctx, identity).Return(superAdminScope(identity.UserID, companyID), nil)
		organizationRepo.On("Create", ctx, mock.MatchedBy(func(o *vaultDomain.Organization) bool {
			return o.CompanyID == companyID && o.Name == "Engineering"
		})).Return(nil)

		organization, err := usecase.Create(ctx, identity, &vaultDomain.CreateOrganizationInput{
			Name:         "Engineering",
			ContactEmail: "eng@example.com",
		})
		require.NoError(t, err)
		assert.Equal(t, companyID, organization.CompanyID)
		organizationRepo.AssertExpectations(t)
	})

	t.Run("CompanyUserDenied", func(t *testing.T) {
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, nil, nil, resolver)

		scope := companyUserScope(identity.UserID, uuid.Must(uuid.NewV7()), identityDomain.PermissionGrants{})
		resolver.On("ResolveScope", ctx, identity).Return(scope, nil)

		organization, err := usecase.Create(ctx, identity, &vaultDomain.CreateOrganizationInput{Name: "Engineering"})
		assert.Nil(t, organization)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestOrganizationUseCase_Get(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())
	organization := &vaultDomain.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Name:      "Engineering",
	}

	t.Run("GrantedCompanyUserSees", func(t *testing.T) {
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, organizationRepo, nil, resolver)

		scope := companyUserScope(identity.UserID, companyID, identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{organization.ID},
		})
		resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		organizationRepo.On("Get", ctx, organization.ID).Return(organization, nil)

		got, err := usecase.Get(ctx, identity, organization.ID)
		require.NoError(t, err)
		assert.Equal(t, organization, got)
	})

	t.Run("UngrantedCompanyUserDenied", func(t *testing.T) {
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, organizationRepo, nil, resolver)

		scope := companyUserScope(identity.UserID, companyID, identityDomain.PermissionGrants{})
		resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		organizationRepo.On("Get", ctx, organization.ID).Return(organization, nil)

		got, err := usecase.Get(ctx, identity, organization.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, access.ErrGroupingDenied)
	})

	t.Run("OtherCompanyDeniedForSuperAdmin", func(t *testing.T) {
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, organizationRepo, nil, resolver)

		scope := superAdminScope(identity.UserID, uuid.Must(uuid.NewV7()))
		resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		organizationRepo.On("Get", ctx, organization.ID).Return(organization, nil)

		got, err := usecase.Get(ctx, identity, organization.ID)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestOrganizationUseCase_List(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())
	organizations := []*vaultDomain.Organization{
		{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID, Name: "Engineering"},
		{ID: uuid.Must(uuid.NewV7()), CompanyID: companyID, Name: "Finance"},
	}

	t.Run("SuperAdminSeesAll", func(t *testing.T) {
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, organizationRepo, nil, resolver)

		resolver.On("ResolveScope", ctx, identity).Return(superAdminScope(identity.UserID, companyID), nil)
		organizationRepo.On("ListByCompany", ctx, companyID, 0, 50).Return(organizations, nil)

		got, err := usecase.List(ctx, identity, 0, 50)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("CompanyUserSeesGrantedOnly", func(t *testing.T) {
		organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
		resolver := &vaultUsecaseMocks.MockScopeResolver{}
		usecase := NewOrganizationUseCase(nil, organizationRepo, nil, resolver)

		scope := companyUserScope(identity.UserID, companyID, identityDomain.PermissionGrants{
			Organizations: []uuid.UUID{organizations[1].ID},
		})
		resolver.On("ResolveScope", ctx, identity).Return(scope, nil)
		organizationRepo.On("ListByCompany", ctx, companyID, 0, 50).Return(organizations, nil)

		got, err := usecase.List(ctx, identity, 0, 50)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Finance", got[0].Name)
	})
}

func TestOrganizationUseCase_Delete(t *testing.T) {
	ctx := context.Background()
	identity := identityDomain.Identity{UserID: uuid.Must(uuid.NewV7())}
	companyID := uuid.Must(uuid.NewV7())
	organization := &vaultDomain.Organization{
		ID:        uuid.Must(uuid.NewV7()),
		CompanyID: companyID,
		Name:      "Engineering",
	}

	txManager := &databaseMocks.MockTxManager{}
	organizationRepo := &vaultUsecaseMocks.MockOrganizationRepository{}
	trashRepo := &vaultUsecaseMocks.MockTrashRepository{}
	resolver := &vaultUsecaseMocks.MockScopeResolver{}
	usecase := NewOrganizationUseCase(txManager, organizationRepo, trashRepo, resolver)

	resolver.On("ResolveScope", ctx, identity).Return(superAdminScope(identity.UserID, companyID), nil)
	organizationRepo.On("Get", ctx, organization.ID).Return(organization, nil)
	txManager.On("WithTx", ctx, mock.Anything).Return(nil)
	trashRepo.On("Create", mock.Anything, mock.MatchedBy(func(record *vaultDomain.TrashRecord) bool {
		return record.EntityType == vaultDomain.EntityOrganization &&
			record.EntityID == organization.ID &&
			record.DeletedBy == identity.UserID &&
			len(record.Snapshot) > 0
	})).Return(nil)
	organizationRepo.On("Delete", mock.Anything, organization.ID).Return(nil)

	err := usecase.Delete(ctx, identity, organization.ID)
	require.NoError(t, err)
	trashRepo.AssertExpectations(t)
	organizationRepo.AssertExpectations(t)
}
