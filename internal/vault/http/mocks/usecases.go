// Package mocks provides mock implementations of the vault use case
// interfaces for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MockOrganizationUseCase is a mock implementation of OrganizationUseCase.
type MockOrganizationUseCase struct {
	mock.Mock
}

func (m *MockOrganizationUseCase) Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateOrganizationInput) (*vaultDomain.Organization, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationUseCase) Get(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID) (*vaultDomain.Organization, error) {
	args := m.Called(ctx, identity, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationUseCase) List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Organization, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationUseCase) Update(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID, input *vaultDomain.UpdateOrganizationInput) (*vaultDomain.Organization, error) {
	args := m.Called(ctx, identity, organizationID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Organization), args.Error(1)
}

func (m *MockOrganizationUseCase) Delete(ctx context.Context, identity identityDomain.Identity, organizationID uuid.UUID) error {
	args := m.Called(ctx, identity, organizationID)
	return args.Error(0)
}

// MockCollectionUseCase is a mock implementation of CollectionUseCase.
type MockCollectionUseCase struct {
	mock.Mock
}

func (m *MockCollectionUseCase) Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateCollectionInput) (*vaultDomain.Collection, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionUseCase) Get(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID) (*vaultDomain.Collection, error) {
	args := m.Called(ctx, identity, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionUseCase) List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Collection, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionUseCase) Update(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID, input *vaultDomain.UpdateCollectionInput) (*vaultDomain.Collection, error) {
	args := m.Called(ctx, identity, collectionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Collection), args.Error(1)
}

func (m *MockCollectionUseCase) Delete(ctx context.Context, identity identityDomain.Identity, collectionID uuid.UUID) error {
	args := m.Called(ctx, identity, collectionID)
	return args.Error(0)
}

// MockFolderUseCase is a mock implementation of FolderUseCase.
type MockFolderUseCase struct {
	mock.Mock
}

func (m *MockFolderUseCase) Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateFolderInput) (*vaultDomain.Folder, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderUseCase) Get(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID) (*vaultDomain.Folder, error) {
	args := m.Called(ctx, identity, folderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderUseCase) List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Folder, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderUseCase) Update(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID, input *vaultDomain.UpdateFolderInput) (*vaultDomain.Folder, error) {
	args := m.Called(ctx, identity, folderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Folder), args.Error(1)
}

func (m *MockFolderUseCase) Delete(ctx context.Context, identity identityDomain.Identity, folderID uuid.UUID) error {
	args := m.Called(ctx, identity, folderID)
	return args.Error(0)
}

// MockCredentialUseCase is a mock implementation of CredentialUseCase.
type MockCredentialUseCase struct {
	mock.Mock
}

func (m *MockCredentialUseCase) Create(ctx context.Context, identity identityDomain.Identity, input *vaultDomain.CreateCredentialInput) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Get(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, identity, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Update(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID, input *vaultDomain.UpdateCredentialInput) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, identity, credentialID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Delete(ctx context.Context, identity identityDomain.Identity, credentialID uuid.UUID) error {
	args := m.Called(ctx, identity, credentialID)
	return args.Error(0)
}

// MockTrashUseCase is a mock implementation of TrashUseCase.
type MockTrashUseCase struct {
	mock.Mock
}

func (m *MockTrashUseCase) List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*vaultDomain.TrashRecord, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.TrashRecord), args.Error(1)
}

func (m *MockTrashUseCase) Restore(ctx context.Context, identity identityDomain.Identity, recordID uuid.UUID) error {
	args := m.Called(ctx, identity, recordID)
	return args.Error(0)
}

func (m *MockTrashUseCase) Purge(ctx context.Context, identity identityDomain.Identity, recordID uuid.UUID) error {
	args := m.Called(ctx, identity, recordID)
	return args.Error(0)
}
