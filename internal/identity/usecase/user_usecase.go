package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/credvault/credvault/internal/access"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityService "github.com/credvault/credvault/internal/identity/service"
)

// ErrUserManagementDenied indicates the caller's role may not manage user
// accounts.
var ErrUserManagementDenied = apperrors.Wrap(apperrors.ErrForbidden, "user management requires an admin role")

// userUseCase implements the UserUseCase interface. All operations are
// admin-only and scoped to the admin's own company unless the caller is a
// master admin.
type userUseCase struct {
	userRepo         UserRepository
	organizationRepo OrganizationRepository
	collectionRepo   CollectionRepository
	folderRepo       FolderRepository
	passwordService  identityService.PasswordService
	resolver         ScopeResolver
}

// Create adds a new user to the admin's company. Only master admins may
// create other admin roles across companies; a company super admin creates
// users inside its own company.
func (u *userUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *identityDomain.CreateUserInput,
) (*identityDomain.User, error) {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	if !input.Role.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "unknown role")
	}
	if input.Role == identityDomain.RoleMasterAdmin && !scope.AllCompanies() {
		return nil, ErrUserManagementDenied
	}

	if _, err := u.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, identityDomain.ErrEmailTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	if err := u.checkGrants(ctx, scope.CompanyID, input.Permissions); err != nil {
		return nil, err
	}

	passwordHash, err := u.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &identityDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		CompanyID:    scope.CompanyID,
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: passwordHash,
		Role:         input.Role,
		IsActive:     input.IsActive,
		Permissions:  input.Permissions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Get retrieves one user of the admin's company.
func (u *userUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	return u.companyUser(ctx, scope, userID)
}

// List retrieves the users of the admin's company.
func (u *userUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*identityDomain.User, error) {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	return u.userRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
}

// Update modifies a user's name, password and active flag. Deactivation takes
// effect on the target's next request since scopes are resolved from storage.
func (u *userUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	input *identityDomain.UpdateUserInput,
) (*identityDomain.User, error) {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	user, err := u.companyUser(ctx, scope, userID)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.IsActive = input.IsActive
	if input.Password != "" {
		passwordHash, err := u.passwordService.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}
	user.UpdatedAt = time.Now().UTC()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePermissions replaces the target user's grant sets. Every referenced
// entity must belong to the target's company; grants are otherwise free-form
// and may reference entities that no longer exist, such grants simply stop
// granting visibility.
func (u *userUseCase) UpdatePermissions(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	grants identityDomain.PermissionGrants,
) (*identityDomain.User, error) {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	user, err := u.companyUser(ctx, scope, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != identityDomain.RoleCompanyUser {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "only company users carry permission grants")
	}

	if err := u.checkGrants(ctx, user.CompanyID, grants); err != nil {
		return nil, err
	}

	user.Permissions = grants
	user.UpdatedAt = time.Now().UTC()

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user account.
func (u *userUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) error {
	scope, err := u.adminScope(ctx, identity)
	if err != nil {
		return err
	}

	if _, err := u.companyUser(ctx, scope, userID); err != nil {
		return err
	}
	return u.userRepo.Delete(ctx, userID)
}

// adminScope resolves the caller and requires an admin role.
func (u *userUseCase) adminScope(
	ctx context.Context,
	identity identityDomain.Identity,
) (*access.Scope, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrUserManagementDenied
	}
	return scope, nil
}

// companyUser loads the target user and enforces the company boundary.
func (u *userUseCase) companyUser(
	ctx context.Context,
	scope *access.Scope,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	user, err := u.userRepo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !scope.AllCompanies() && user.CompanyID != scope.CompanyID {
		return nil, ErrUserManagementDenied
	}
	return user, nil
}

// checkGrants verifies every granted entity that exists belongs to the given
// company. The three levels are fetched concurrently.
func (u *userUseCase) checkGrants(
	ctx context.Context,
	companyID uuid.UUID,
	grants identityDomain.PermissionGrants,
) error {
	if grants.Empty() {
		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		organizations, err := u.organizationRepo.GetByIDs(groupCtx, grants.Organizations)
		if err != nil {
			return err
		}
		for _, organization := range organizations {
			if organization.CompanyID != companyID {
				return identityDomain.ErrCrossCompanyGrant
			}
		}
		return nil
	})
	group.Go(func() error {
		collections, err := u.collectionRepo.GetByIDs(groupCtx, grants.Collections)
		if err != nil {
			return err
		}
		for _, collection := range collections {
			if collection.CompanyID != companyID {
				return identityDomain.ErrCrossCompanyGrant
			}
		}
		return nil
	})
	group.Go(func() error {
		folders, err := u.folderRepo.GetByIDs(groupCtx, grants.Folders)
		if err != nil {
			return err
		}
		for _, folder := range folders {
			if folder.CompanyID != companyID {
				return identityDomain.ErrCrossCompanyGrant
			}
		}
		return nil
	})
	return group.Wait()
}

// NewUserUseCase creates a new user use case instance.
func NewUserUseCase(
	userRepo UserRepository,
	organizationRepo OrganizationRepository,
	collectionRepo CollectionRepository,
	folderRepo FolderRepository,
	passwordService identityService.PasswordService,
	resolver ScopeResolver,
) UserUseCase {
	return &userUseCase{
		userRepo:         userRepo,
		organizationRepo: organizationRepo,
		collectionRepo:   collectionRepo,
		folderRepo:       folderRepo,
		passwordService:  passwordService,
		resolver:         resolver,
	}
}
