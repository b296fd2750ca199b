package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/access"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	cryptoService "github.com/credvault/credvault/internal/crypto/service"
	"github.com/credvault/credvault/internal/database"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// credentialUseCase implements the CredentialUseCase interface. Each
// credential gets its own DEK; the username, secret and notes fields are
// encrypted separately under that DEK so partial decryption stays possible.
type credentialUseCase struct {
	txManager        database.TxManager
	credentialRepo   CredentialRepository
	organizationRepo OrganizationRepository
	collectionRepo   CollectionRepository
	folderRepo       FolderRepository
	trashRepo        TrashRepository
	dekRepo          DekRepository
	resolver         ScopeResolver
	kekChain         *cryptoDomain.KekChain
	aeadManager      cryptoService.AEADManager
	keyManager       cryptoService.KeyManager
	dekAlgorithm     cryptoDomain.Algorithm
}

// Create encrypts and stores a new credential. Company users may only create
// credentials inside groupings their grants make visible.
func (u *credentialUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *vaultDomain.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	if err := u.checkRefs(ctx, scope.CompanyID, input.OrganizationID, input.CollectionID, input.FolderID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	credential := &vaultDomain.Credential{
		ID:             uuid.Must(uuid.NewV7()),
		CompanyID:      scope.CompanyID,
		OrganizationID: input.OrganizationID,
		CollectionID:   input.CollectionID,
		FolderID:       input.FolderID,
		Name:           input.Name,
		URLs:           input.URLs,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if !scope.CanManageVault() {
		if err := u.resolver.AllowCredential(ctx, scope, credential); err != nil {
			return nil, err
		}
	}

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.encryptFields(txCtx, credential, input.Username, input.Secret, input.Notes); err != nil {
			return err
		}
		return u.credentialRepo.Create(txCtx, credential)
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// Get retrieves and decrypts one credential. Denial is forbidden, distinct
// from not-found.
func (u *credentialUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
) (*vaultDomain.Credential, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := u.resolver.AllowCredential(ctx, scope, credential); err != nil {
		return nil, err
	}
	if err := u.decryptFields(ctx, credential); err != nil {
		return nil, err
	}
	return credential, nil
}

// List retrieves the credentials visible to the caller without decrypting
// their fields. For company users the broad filter plus the strict re-check
// are applied.
func (u *credentialUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*vaultDomain.Credential, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	if scope.CanManageVault() {
		return u.credentialRepo.ListByCompany(ctx, scope.CompanyID, offset, limit)
	}

	candidates, err := u.credentialRepo.Search(ctx, scope.Search(""))
	if err != nil {
		return nil, err
	}
	return u.resolver.FilterCredentials(ctx, scope, candidates)
}

// Update re-encrypts a credential under a fresh DEK and stores the new
// grouping references and metadata.
func (u *credentialUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
	input *vaultDomain.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	scope, err := u.resolver.ResolveScope(ctx, identity)
	if err != nil {
		return nil, err
	}

	credential, err := u.credentialRepo.Get(ctx, credentialID)
	if err != nil {
		return nil, err
	}
	if err := u.resolver.AllowCredential(ctx, scope, credential); err != nil {
		return nil, err
	}
	if err := u.checkRefs(ctx, credential.CompanyID, input.OrganizationID, input.CollectionID, input.FolderID); err != nil {
		return nil, err
	}

	credential.OrganizationID = input.OrganizationID
	credential.CollectionID = input.CollectionID
	credential.FolderID = input.FolderID
	credential.Name = input.Name
	credential.URLs = input.URLs
	credential.UpdatedAt = time.Now().UTC()

	// A company user cannot move a credential somewhere they cannot see.
	if !scope.CanManageVault() {
		if err := u.resolver.AllowCredential(ctx, scope, credential); err != nil {
			return nil, err
		}
	}

	err = u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.encryptFields(txCtx, credential, input.Username, input.Secret, input.Notes); err != nil {
			return err
		}
		return u.credentialRepo.Update(txCtx, credential)
	})
	if err != nil {
		return nil, err
	}
	return credential, nil
}

// Delete soft-deletes a credential into the trash.
func (u *credentialUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	credentialID uuid.UUID,
) error {
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

	record, err := vaultDomain.NewTrashRecord(
		credential.CompanyID,
		vaultDomain.EntityCredential,
		credential.ID,
		credential,
		scope.UserID,
	)
	if err != nil {
		return err
	}

	return u.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := u.trashRepo.Create(txCtx, record); err != nil {
			return err
		}
		return u.credentialRepo.Delete(txCtx, credentialID)
	})
}

// encryptFields creates a fresh DEK, persists it and encrypts the three
// plaintext fields into the credential. The plaintext DEK is zeroed before
// returning.
func (u *credentialUseCase) encryptFields(
	ctx context.Context,
	credential *vaultDomain.Credential,
	username, secret, notes string,
) error {
	activeKek, found := u.kekChain.Get(u.kekChain.ActiveKekID())
	if !found {
		return cryptoDomain.ErrKekNotFound
	}

	dek, err := u.keyManager.CreateDek(activeKek, u.dekAlgorithm)
	if err != nil {
		return err
	}
	if err := u.dekRepo.Create(ctx, &dek); err != nil {
		return err
	}

	dekKey, err := u.keyManager.DecryptDek(&dek, activeKek)
	if err != nil {
		return err
	}
	defer cryptoDomain.Zero(dekKey)

	cipher, err := u.aeadManager.CreateCipher(dekKey, u.dekAlgorithm)
	if err != nil {
		return err
	}

	credential.DekID = dek.ID
	if credential.UsernameCiphertext, credential.UsernameNonce, err = cipher.Encrypt([]byte(username), nil); err != nil {
		return err
	}
	if credential.SecretCiphertext, credential.SecretNonce, err = cipher.Encrypt([]byte(secret), nil); err != nil {
		return err
	}
	if credential.NotesCiphertext, credential.NotesNonce, err = cipher.Encrypt([]byte(notes), nil); err != nil {
		return err
	}
	return nil
}

// decryptFields populates the plaintext fields of a credential.
func (u *credentialUseCase) decryptFields(
	ctx context.Context,
	credential *vaultDomain.Credential,
) error {
	return decryptCredentialFields(ctx, u.dekRepo, u.kekChain, u.keyManager, u.aeadManager, credential)
}

// checkRefs verifies the optional grouping references stay inside the company.
func (u *credentialUseCase) checkRefs(
	ctx context.Context,
	companyID uuid.UUID,
	organizationID, collectionID, folderID *uuid.UUID,
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
	if folderID != nil {
		folder, err := u.folderRepo.Get(ctx, *folderID)
		if err != nil {
			return err
		}
		if folder.CompanyID != companyID {
			return vaultDomain.ErrCrossCompanyReference
		}
	}
	return nil
}

// ensure the interface is satisfied
var _ CredentialUseCase = (*credentialUseCase)(nil)
var _ ScopeResolver = (*access.Resolver)(nil)

// NewCredentialUseCase creates a new credential use case instance.
func NewCredentialUseCase(
	txManager database.TxManager,
	credentialRepo CredentialRepository,
	organizationRepo OrganizationRepository,
	collectionRepo CollectionRepository,
	folderRepo FolderRepository,
	trashRepo TrashRepository,
	dekRepo DekRepository,
	resolver ScopeResolver,
	kekChain *cryptoDomain.KekChain,
	aeadManager cryptoService.AEADManager,
	keyManager cryptoService.KeyManager,
	dekAlgorithm cryptoDomain.Algorithm,
) CredentialUseCase {
	return &credentialUseCase{
		txManager:        txManager,
		credentialRepo:   credentialRepo,
		organizationRepo: organizationRepo,
		collectionRepo:   collectionRepo,
		folderRepo:       folderRepo,
		trashRepo:        trashRepo,
		dekRepo:          dekRepo,
		resolver:         resolver,
		kekChain:         kekChain,
		aeadManager:      aeadManager,
		keyManager:       keyManager,
		dekAlgorithm:     dekAlgorithm,
	}
}
