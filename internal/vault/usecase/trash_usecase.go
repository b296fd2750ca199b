package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// trashUseCase implements the TrashUseCase interface. The trash is
// admin-only: restricted users never see deleted entities.
type trashUseCase struct {
	txManager        database.TxManager
	trashRepo        TrashRepository
	organizationRepo OrganizationRepository
	collectionRepo   CollectionRepository
	folderRepo       FolderRepository
	credentialRepo   CredentialRepository
	resolver         ScopeResolver
}

// List retrieves the trash records of the caller's company.
func (u *trashUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.TrashRecord, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}
	return u.trashRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
}

// Restore re-inserts the snapshotted entity and removes the trash record
// atomically. References the entity carried may now dangle; dangling
// references simply stop granting visibility.
func (u *trashUseCase) Restore(
	ctx context.Context,
	identity identityDomain.Identity,
	recordID uuid.UUID,
) error {
	record, err := u.authorizedRecord(ctx, identity, recordID)
	if err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.restoreEntity(txCtx, record); err != nil {
			return err
		}
		return u.trashRepo.Delete(txCtx, record.ID)
	})
}

// Purge hard-deletes a trash record. The snapshot is gone for good.
func (u *trashUseCase) Purge(
	ctx context.Context,
	identity identityDomain.Identity,
	recordID uuid.UUID,
) error {
	record, err := u.authorizedRecord(ctx, identity, recordID)
	if err != nil {
		return err
	}
	return u.trashRepo.Delete(ctx, record.ID)
}

func (u *trashUseCase) authorizedRecord(
	ctx context.Context,
	identity identityDomain.Identity,
	recordID uuid.UUID,
) (*vaultDomain.TrashRecord, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	record, err := u.trashRepo.Get(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if !scope.AllCompanies() && record.CompanyID != scope.CompanyID {
		return nil, ErrVaultManagementDenied
	}
	return record, nil
}

func (u *trashUseCase) restoreEntity(ctx context.Context, record *vaultDomain.TrashRecord) error {
	switch record.EntityType {
	case vaultDomain.EntityOrganization:
		var organization vaultDomain.Organization
		if err := json.Unmarshal(record.Snapshot, &organization); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal organization snapshot")
		}
		return u.organizationRepo.Create(ctx, &organization)
	case vaultDomain.EntityCollection:
		var collection vaultDomain.Collection
		if err := json.Unmarshal(record.Snapshot, &collection); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal collection snapshot")
		}
		return u.collectionRepo.Create(ctx, &collection)
	case vaultDomain.EntityFolder:
		var folder vaultDomain.Folder
		if err := json.Unmarshal(record.Snapshot, &folder); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal folder snapshot")
		}
		return u.folderRepo.Create(ctx, &folder)
	case vaultDomain.EntityCredential:
		var credential vaultDomain.Credential
		if err := json.Unmarshal(record.Snapshot, &credential); err != nil {
			return apperrors.Wrap(err, "failed to unmarshal credential snapshot")
		}
		return u.credentialRepo.Create(ctx, &credential)
	default:
		return apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("unknown trash entity type %q", record.EntityType))
	}
}

// NewTrashUseCase creates a new trash use case instance.
func NewTrashUseCase(
	txManager database.TxManager,
	trashRepo TrashRepository,
	organizationRepo OrganizationRepository,
	collectionRepo CollectionRepository,
	folderRepo FolderRepository,
	credentialRepo CredentialRepository,
	resolver ScopeResolver,
) TrashUseCase {
	return &trashUseCase{
		txManager:        txManager,
		trashRepo:        trashRepo,
		organizationRepo: organizationRepo,
		collectionRepo:   collectionRepo,
		folderRepo:       folderRepo,
		credentialRepo:   credentialRepo,
		resolver:         resolver,
	}
}
