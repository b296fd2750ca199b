package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// folderUseCase implements the FolderUseCase interface.
type folderUseCase struct {
	txManager        database.TxManager
	folderRepo       FolderRepository
	collectionRepo   CollectionRepository
	organizationRepo OrganizationRepository
	trashRepo        TrashRepository
	resolver         ScopeResolver
}

// Create inserts a new folder. Both grouping references are optional but must
// stay inside the caller's company.
func (u *folderUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateFolderInput,
) (*vaultDomain.Folder, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	if err := u.checkRefs(ctx, scope.CompanyID, input.OrganizationID, input.CollectionID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	folder := &vaultDomain.Folder{
		ID:             uuid.Must(uuid.NewV7()),
		CompanyID:      scope.CompanyID,
		OrganizationID: input.OrganizationID,
		CollectionID:   input.CollectionID,
		Name:           input.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := u.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Get retrieves one folder. Company users may only see folders with a
// chain-valid grant.
func (u *folderUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
) (*vaultDomain.Folder, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	folder, err := u.folderRepo.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}
	granted := containsID(scope.ValidFolderIDs, folderID)
	if err := allowGrouping(scope, folder.CompanyID, granted); err != nil {
		return nil, err
	}
	return folder, nil
}

// List retrieves the folders visible to the caller. For company users only
// chain-valid grants are listed.
func (u *folderUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Folder, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	if scope.CanManageVault() {
		return u.folderRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
	}
	return u.folderRepo.GetByIDs(ctx, scope.ValidFolderIDs)
}

// Update modifies a folder's mutable fields.
func (u *folderUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
	input *vaultDomain.UpdateFolderInput,
) (*vaultDomain.Folder, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	folder, err := u.folderRepo.Get(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if !scope.AllCompanies() && folder.CompanyID != scope.CompanyID {
		return nil, ErrVaultManagementDenied
	}
	if err := u.checkRefs(ctx, folder.CompanyID, input.OrganizationID, input.CollectionID); err != nil {
		return nil, err
	}

	folder.OrganizationID = input.OrganizationID
	folder.CollectionID = input.CollectionID
	folder.Name = input.Name
	folder.UpdatedAt = time.Now().UTC()

	if err := u.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// Delete soft-deletes a folder into the trash.
func (u *folderUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	folderID uuid.UUID,
) error {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.CanManageVault() {
		return ErrVaultManagementDenied
	}

	folder, err := u.folderRepo.Get(ctx, folderID)
	if err != nil {
		return err
	}
	if !scope.AllCompanies() && folder.CompanyID != scope.CompanyID {
		return ErrVaultManagementDenied
	}

	record, err := vaultDomain.NewTrashRecord(
		folder.CompanyID,
		vaultDomain.EntityFolder,
		folder.ID,
		folder,
		scope.UserID,
	)
	if err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.trashRepo.Create(txCtx, record); err != nil {
			return err
		}
		return u.folderRepo.Delete(txCtx, folderID)
	})
}

// checkRefs verifies the optional grouping references stay inside the company.
func (u *folderUseCase) checkRefs(
	ctx context.Context,
	companyID uuid.UUID,
	organizationID, collectionID *uuid.UUID,
) error {
	if organizationID != nil {
		organization, err := u.organizationRepo.Get(ctx, *organizationID)
		if err != nil {
			return err
		}
		if organization.CompanyID != companyID {
			return vaultDomain.ErrCrossCompanyReference
		}
	}
	if collectionID != nil {
		collection, err := u.collectionRepo.Get(ctx, *collectionID)
		if err != nil {
			return err
		}
		if collection.CompanyID != companyID {
			return vaultDomain.ErrCrossCompanyReference
		}
	}
	return nil
}

// NewFolderUseCase creates a new folder use case instance.
func NewFolderUseCase(
	txManager database.TxManager,
	folderRepo FolderRepository,
	collectionRepo CollectionRepository,
	organizationRepo OrganizationRepository,
	trashRepo TrashRepository,
	resolver ScopeResolver,
) FolderUseCase {
	return &folderUseCase{
		txManager:        txManager,
		folderRepo:       folderRepo,
		collectionRepo:   collectionRepo,
		organizationRepo: organizationRepo,
		trashRepo:        trashRepo,
		resolver:         resolver,
	}
}
