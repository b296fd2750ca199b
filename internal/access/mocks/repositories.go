// Package mocks provides mock implementations for testing the permission
// resolver and its consumers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MockUserRepository is a mock implementation of access.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// Get mocks the Get method of UserRepository.
func (m *MockUserRepository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// MockFolderRepository is a mock implementation of access.FolderRepository.
type MockFolderRepository struct {
	mock.Mock
}

// GetByIDs mocks the GetByIDs method of FolderRepository.
func (m *MockFolderRepository) GetByIDs(
	ctx context.Context,
	folderIDs []uuid.UUID,
) ([]*vaultDomain.Folder, error) {
	args := m.Called(ctx, folderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Folder), args.Error(1)
}

// MockCollectionRepository is a mock implementation of access.CollectionRepository.
type MockCollectionRepository struct {
	mock.Mock
}

// GetByIDs mocks the GetByIDs method of CollectionRepository.
func (m *MockCollectionRepository) GetByIDs(
	ctx context.Context,
	collectionIDs []uuid.UUID,
) ([]*vaultDomain.Collection, error) {
	args := m.Called(ctx, collectionIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Collection), args.Error(1)
}
