package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/database"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// collectionUseCase implements the CollectionUseCase interface.
type collectionUseCase struct {
	txManager        database.TxManager
	collectionRepo   CollectionRepository
	organizationRepo OrganizationRepository
	trashRepo        TrashRepository
	resolver         ScopeResolver
}

// Create inserts a new collection. An organization reference must belong to
// the caller's company.
func (u *collectionUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateCollectionInput,
) (*vaultDomain.Collection, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	if err := u.checkOrganizationRef(ctx, scope.CompanyID, input.OrganizationID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	collection := &vaultDomain.Collection{
		ID:             uuid.Must(uuid.NewV7()),
		CompanyID:      scope.CompanyID,
		OrganizationID: input.OrganizationID,
		Name:           input.Name,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := u.collectionRepo.Create(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Get retrieves one collection. Company users may only see collections with a
// chain-valid grant.
func (u *collectionUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
) (*vaultDomain.Collection, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	collection, err := u.collectionRepo.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	granted := containsID(scope.ValidCollectionIDs, collectionID)
	if err := allowGrouping(scope, collection.CompanyID, granted); err != nil {
		return nil, err
	}
	return collection, nil
}

// List retrieves the collections visible to the caller. For company users
// only chain-valid grants are listed.
func (u *collectionUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Collection, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	if scope.CanManageVault() {
		return u.collectionRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
	}
	return u.collectionRepo.GetByIDs(ctx, scope.ValidCollectionIDs)
}

// Update modifies a collection's mutable fields.
func (u *collectionUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
	input *vaultDomain.UpdateCollectionInput,
) (*vaultDomain.Collection, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}
	if !scope.CanManageVault() {
		return nil, ErrVaultManagementDenied
	}

	collection, err := u.collectionRepo.Get(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	if !scope.AllCompanies() && collection.CompanyID != scope.CompanyID {
		return nil, ErrVaultManagementDenied
	}
	if err := u.checkOrganizationRef(ctx, collection.CompanyID, input.OrganizationID); err != nil {
		return nil, err
	}

	collection.OrganizationID = input.OrganizationID
	collection.Name = input.Name
	collection.UpdatedAt = time.Now().UTC()

	if err := u.collectionRepo.Update(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Delete soft-deletes a collection into the trash.
func (u *collectionUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	collectionID uuid.UUID,
) error {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return err
	}
	if !scope.CanManageVault() {
		return ErrVaultManagementDenied
	}

	collection, err := u.collectionRepo.Get(ctx, collectionID)
	if err != nil {
		return err
	}
	if !scope.AllCompanies() && collection.CompanyID != scope.CompanyID {
		return ErrVaultManagementDenied
	}

	record, err := vaultDomain.NewTrashRecord(
		collection.CompanyID,
		vaultDomain.EntityCollection,
		collection.ID,
		collection,
		scope.UserID,
	)
	if err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.trashRepo.Create(txCtx, record); err != nil {
			return err
		}
		return u.collectionRepo.Delete(txCtx, collectionID)
	})
}

// checkOrganizationRef verifies an optional organization reference stays
// inside the company.
func (u *collectionUseCase) checkOrganizationRef(
	ctx context.Context,
	companyID uuid.UUID,
	organizationID *uuid.UUID,
) error {
	if organizationID == nil {
		return nil
	}
	organization, err := u.organizationRepo.Get(ctx, *organizationID)
	if err != nil {
		return err
	}
	if organization.CompanyID != companyID {
		return vaultDomain.ErrCrossCompanyReference
	}
	return nil
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// NewCollectionUseCase creates a new collection use case instance.
func NewCollectionUseCase(
	txManager database.TxManager,
	collectionRepo CollectionRepository,
	organizationRepo OrganizationRepository,
	trashRepo TrashRepository,
	resolver ScopeResolver,
) CollectionUseCase {
	return &collectionUseCase{
		txManager:        txManager,
		collectionRepo:   collectionRepo,
		organizationRepo: organizationRepo,
		trashRepo:        trashRepo,
		resolver:         resolver,
	}
}
