// Package usecase implements business logic orchestration for vault entities:
// the Organization/Collection/Folder hierarchy, encrypted credentials and the
// trash. Every operation resolves the caller's authorization scope first and
// enforces it before touching storage.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/access"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// OrganizationRepository defines the interface for Organization persistence.
type OrganizationRepository interface {
	Create(ctx context.Context, organization *vaultDomain.Organization) error
	Get(ctx context.Context, organizationID uuid.UUID) (*vaultDomain.Organization, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Organization, error)
	Update(ctx context.Context, organization *vaultDomain.Organization) error
	Delete(ctx context.Context, organizationID uuid.UUID) error
}

// CollectionRepository defines the interface for Collection persistence.
type CollectionRepository interface {
	Create(ctx context.Context, collection *vaultDomain.Collection) error
	Get(ctx context.Context, collectionID uuid.UUID) (*vaultDomain.Collection, error)
	GetByIDs(ctx context.Context, collectionIDs []uuid.UUID) ([]*vaultDomain.Collection, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Collection, error)
	Update(ctx context.Context, collection *vaultDomain.Collection) error
	Delete(ctx context.Context, collectionID uuid.UUID) error
}

// FolderRepository defines the interface for Folder persistence.
type FolderRepository interface {
	Create(ctx context.Context, folder *vaultDomain.Folder) error
	Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error)
	GetByIDs(ctx context.Context, folderIDs []uuid.UUID) ([]*vaultDomain.Folder, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Folder, error)
	Update(ctx context.Context, folder *vaultDomain.Folder) error
	Delete(ctx context.Context, folderID uuid.UUID) error
}

// CredentialRepository defines the interface for Credential persistence.
type CredentialRepository interface {
	Create(ctx context.Context, credential *vaultDomain.Credential) error
	Get(ctx context.Context, credentialID uuid.UUID) (*vaultDomain.Credential, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Credential, error)
	Search(ctx context.Context, search vaultDomain.CredentialSearch) ([]*vaultDomain.Credential, error)
	Update(ctx context.Context, credential *vaultDomain.Credential) error
	Delete(ctx context.Context, credentialID uuid.UUID) error
}

// TrashRepository defines the interface for TrashRecord persistence.
type TrashRepository interface {
	Create(ctx context.Context, record *vaultDomain.TrashRecord) error
	Get(ctx context.Context, recordID uuid.UUID) (*vaultDomain.TrashRecord, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.TrashRecord, error)
	Delete(ctx context.Context, recordID uuid.UUID) error

	// DeleteOlderThan removes all records created before the cutoff time,
	// across companies, and returns the purged count.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DekRepository defines the interface for Data Encryption Key persistence.
type DekRepository interface {
	Create(ctx context.Context, dek *cryptoDomain.Dek) error
	Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error)
}

// ScopeResolver resolves a caller identity into an authorization scope and
// applies the strict per-record re-check.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, identity identityDomain.Identity) (*access.Scope, error)
	FilterCredentials(ctx context.Context, scope *access.Scope, credentials []*vaultDomain.Credential) ([]*vaultDomain.Credential, error)
	AllowCredential(ctx context.Context, scope *access.Scope, credential *vaultDomain.Credential) error
}

// OrganizationUseCase defines the business logic for organizations.
type OrganizationUseCase interface {
	Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateOrganizationInput) (*vaultDomain.Organization, error)
	Get(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID) (*vaultDomain.Organization, error)
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Organization, error)
	Update(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID, input *vaultDomain.UpdateOrganizationInput) (*vaultDomain.Organization, error)
	Delete(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID) error
}

// CollectionUseCase defines the business logic for collections.
type CollectionUseCase interface {
	Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateCollectionInput) (*vaultDomain.Collection, error)
	Get(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID) (*vaultDomain.Collection, error)
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Collection, error)
	Update(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID, input *vaultDomain.UpdateCollectionInput) (*vaultDomain.Collection, error)
	Delete(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID) error
}

// FolderUseCase defines the business logic for folders.
type FolderUseCase interface {
	Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateFolderInput) (*vaultDomain.Folder, error)
	Get(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID) (*vaultDomain.Folder, error)
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Folder, error)
	Update(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID, input *vaultDomain.UpdateFolderInput) (*vaultDomain.Folder, error)
	Delete(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID) error
}

// CredentialUseCase defines the business logic for credentials.
type CredentialUseCase interface {
	Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateCredentialInput) (*vaultDomain.Credential, error)
	// Get returns a single credential with its fields decrypted.
	Get(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID) (*vaultDomain.Credential, error)
	// List returns visible credentials without decrypting their fields.
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Credential, error)
	Update(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID, input *vaultDomain.UpdateCredentialInput) (*vaultDomain.Credential, error)
	Delete(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID) error
}

// TrashUseCase defines the business logic for the trash.
type TrashUseCase interface {
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.TrashRecord, error)
	Restore(ctx context.Context, identity identityDomain.Identity, recordID uuid.UUID) error
	Purge(ctx context.Context, identity identityDomain.Identity, recordID uuid.UUID) error
}
