package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/access"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// ErrVaultManagementDenied indicates the caller's role may not reorganize the
// vault hierarchy.
var ErrVaultManagementDenied = apperrors.Wrap(apperrors.ErrForbidden, "vault management requires an admin role")

// organizationUseCase implements the OrganizationUseCase interface.
type organizationUseCase struct {
	txManager        database.TxManager
	organizationRepo OrganizationRepository
	trashRepo        TrashRepository
	resolver         ScopeResolver
}

// Create inserts a new organization under the caller's company.
func (u *organizationUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateOrganizationInput,
) (*vaultDomain.Organization, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	now := time.Now().UTC()
	organization := &vaultDomain.Organization{
		ID:           uuid.Must(uuid.NewV7()),
		CompanyID:    scope.CompanyID,
		Name:         input.Name,
		ContactEmail: input.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.organizationRepo.Create(ctx, organization); err != nil {
		return nil, err
	}
	return organization, nil
}

// Get retrieves one organization. Company users may only see organizations
// they are granted.
func (u *organizationUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
) (*vaultDomain.Organization, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	organization, err := u.organizationRepo.Get(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if err := allowGrouping(scope, organization.CompanyID, scope.HasOrganizationGrant(organizationID)); err != nil {
		return nil, err
	}
	return organization, nil
}

// List retrieves the organizations visible to the caller.
func (u *organizationUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Organization, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	organizations, err := u.organizationRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
	if err != nil {
		return nil, err
	}
	if scope.CanManageVault() {
		return organizations, nil
	}

	var visible []*vaultDomain.Organization
	for _, organization := range organizations {
		if scope.HasOrganizationGrant(organization.ID) {
			visible = append(visible, organization)
		}
	}
	return visible, nil
}

// Update modifies an organization's mutable fields.
func (u *organizationUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
	input *vaultDomain.UpdateOrganizationInput,
) (*vaultDomain.Organization, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	organization, err := u.organizationRepo.Get(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	if !scope.AllCompanies() && organization.CompanyID != scope.CompanyID {
		return nil, ErrVaultManagementDenied
	}

	organization.Name = input.Name
	organization.ContactEmail = input.ContactEmail
	organization.UpdatedAt = time.Now().UTC()

	if err := u.organizationRepo.Update(ctx, organization); err != nil {
		return nil, err
	}
	return organization, nil
}

// Delete soft-deletes an organization: the row is removed and a full snapshot
// is kept in the trash, atomically.
func (u *organizationUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	organizationID uuid.UUID,
) error {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.CanManageVault() {
		return ErrVaultManagementDenied
	}

	organization, err := u.organizationRepo.Get(ctx, organizationID)
	if err != nil {
		return err
	}
	if !scope.AllCompanies() && organization.CompanyID != scope.CompanyID {
		return ErrVaultManagementDenied
	}

	record, err := vaultDomain.NewTrashRecord(
		organization.CompanyID,
		vaultDomain.EntityOrganization,
		organization.ID,
		organization,
		scope.UserID,
	)
	if err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.trashRepo.Create(txCtx, record); err != nil {
			return err
		}
		return u.organizationRepo.Delete(txCtx, organizationID)
	})
}

// allowGrouping applies the read rule shared by the grouping levels: admins
// see everything in their company, company users only what is granted. Denial
// is forbidden, not not-found, so callers can tell the outcomes apart.
func allowGrouping(scope *access.Scope, entityCompanyID uuid.UUID, granted bool) error {
	if scope.AllCompanies() {
		return nil
	}
	if entityCompanyID != scope.CompanyID {
		return access.ErrGroupingDenied
	}
	if scope.CompanyWide() || granted {
		return nil
	}
	return access.ErrGroupingDenied
}

// NewOrganizationUseCase creates a new organization use case instance.
func NewOrganizationUseCase(
	txManager database.TxManager,
	organizationRepo OrganizationRepository,
	trashRepo TrashRepository,
	resolver ScopeResolver,
) OrganizationUseCase {
	return &organizationUseCase{
		txManager:        txManager,
		organizationRepo: organizationRepo,
		trashRepo:        trashRepo,
		resolver:         resolver,
	}
}
