// Package mocks provides mock implementations for testing the vault use
// cases and their HTTP handlers.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/credvault/credvault/internal/access"
	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MockOrganizationRepository is a mock implementation of OrganizationRepository.
type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) Create(ctx context.Context, organization *vaultDomain.Organization) error {
	return m.Called(ctx, organization).Error(0)
}

func (m *MockOrganizationRepository) Get(ctx context.Context, organizationID uuid.UUID) (*vaultDomain.Organization, error) {
	args := m.Called(ctx, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Organization, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) Update(ctx context.Context, organization *vaultDomain.Organization) error {
	return m.Called(ctx, organization).Error(0)
}

func (m *MockOrganizationRepository) Delete(ctx context.Context, organizationID uuid.UUID) error {
	return m.Called(ctx, organizationID).Error(0)
}

// MockCollectionRepository is a mock implementation of CollectionRepository.
type MockCollectionRepository struct {
	mock.Mock
}

func (m *MockCollectionRepository) Create(ctx context.Context, collection *vaultDomain.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) Get(ctx context.Context, collectionID uuid.UUID) (*vaultDomain.Collection, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionRepository) GetByIDs(ctx context.Context, collectionIDs []uuid.UUID) ([]*vaultDomain.Collection, error) {
	args := m.Called(ctx, collectionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Collection, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionRepository) Update(ctx context.Context, collection *vaultDomain.Collection) error {
	return m.Called(ctx, collection).Error(0)
}

func (m *MockCollectionRepository) Delete(ctx context.Context, collectionID uuid.UUID) error {
	return m.Called(ctx, collectionID).Error(0)
}

// MockFolderRepository is a mock implementation of FolderRepository.
type MockFolderRepository struct {
	mock.Mock
}

func (m *MockFolderRepository) Create(ctx context.Context, folder *vaultDomain.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *MockFolderRepository) Get(ctx context.Context, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	args := m.Called(ctx, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderRepository) GetByIDs(ctx context.Context, folderIDs []uuid.UUID) ([]*vaultDomain.Folder, error) {
	args := m.Called(ctx, folderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Folder, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderRepository) Update(ctx context.Context, folder *vaultDomain.Folder) error {
	return m.Called(ctx, folder).Error(0)
}

func (m *MockFolderRepository) Delete(ctx context.Context, folderID uuid.UUID) error {
	return m.Called(ctx, folderID).Error(0)
}

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Create(ctx context.Context, credential *vaultDomain.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockCredentialRepository) Get(ctx context.Context, credentialID uuid.UUID) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Search(ctx context.Context, search vaultDomain.CredentialSearch) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Update(ctx context.Context, credential *vaultDomain.Credential) error {
	return m.Called(ctx, credential).Error(0)
}

func (m *MockCredentialRepository) Delete(ctx context.Context, credentialID uuid.UUID) error {
	return m.Called(ctx, credentialID).Error(0)
}

// MockTrashRepository is a mock implementation of TrashRepository.
type MockTrashRepository struct {
	mock.Mock
}

func (m *MockTrashRepository) Create(ctx context.Context, record *vaultDomain.TrashRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockTrashRepository) Get(ctx context.Context, recordID uuid.UUID) (*vaultDomain.TrashRecord, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.TrashRecord), args.Error(1)
}

func (m *MockTrashRepository) ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*vaultDomain.TrashRecord, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.TrashRecord), args.Error(1)
}

func (m *MockTrashRepository) Delete(ctx context.Context, recordID uuid.UUID) error {
	return m.Called(ctx, recordID).Error(0)
}

func (m *MockTrashRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockDekRepository is a mock implementation of DekRepository.
type MockDekRepository struct {
	mock.Mock
}

func (m *MockDekRepository) Create(ctx context.Context, dek *cryptoDomain.Dek) error {
	return m.Called(ctx, dek).Error(0)
}

func (m *MockDekRepository) Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error) {
	args := m.Called(ctx, dekID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Dek), args.Error(1)
}

// MockScopeResolver is a mock implementation of ScopeResolver.
type MockScopeResolver struct {
	mock.Mock
}

func (m *MockScopeResolver) ResolveScope(
	ctx context.Context,
	identity identityDomain.Identity,
) (*access.Scope, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Scope), args.Error(1)
}

func (m *MockScopeResolver) FilterCredentials(
	ctx context.Context,
	scope *access.Scope,
	credentials []*vaultDomain.Credential,
) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, scope, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockScopeResolver) AllowCredential(
	ctx context.Context,
	scope *access.Scope,
	credential *vaultDomain.Credential,
) error {
	return m.Called(ctx, scope, credential).Error(0)
}
