// Package mocks provides mock implementations of the identity use case
// dependencies for testing.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/credvault/credvault/internal/access"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MockCompanyRepository is a mock implementation of usecase.CompanyRepository.
type MockCompanyRepository struct {
	mock.Mock
}

// Create mocks the Create method of CompanyRepository.
func (m *MockCompanyRepository) Create(ctx context.Context, company *identityDomain.Company) error {
	return m.Called(ctx, company).Error(0)
}

// Get mocks the Get method of CompanyRepository.
func (m *MockCompanyRepository) Get(
	ctx context.Context,
	companyID uuid.UUID,
) (*identityDomain.Company, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Company), args.Error(1)
}

// Delete mocks the Delete method of CompanyRepository.
func (m *MockCompanyRepository) Delete(ctx context.Context, companyID uuid.UUID) error {
	return m.Called(ctx, companyID).Error(0)
}

// MockUserRepository is a mock implementation of usecase.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// Create mocks the Create method of UserRepository.
func (m *MockUserRepository) Create(ctx context.Context, user *identityDomain.User) error {
	return m.Called(ctx, user).Error(0)
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

// GetByEmail mocks the GetByEmail method of UserRepository.
func (m *MockUserRepository) GetByEmail(
	ctx context.Context,
	email string,
) (*identityDomain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// ListByCompany mocks the ListByCompany method of UserRepository.
func (m *MockUserRepository) ListByCompany(
	ctx context.Context,
	companyID uuid.UUID,
	offset, limit int,
) ([]*identityDomain.User, error) {
	args := m.Called(ctx, companyID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.User), args.Error(1)
}

// Update mocks the Update method of UserRepository.
func (m *MockUserRepository) Update(ctx context.Context, user *identityDomain.User) error {
	return m.Called(ctx, user).Error(0)
}

// Delete mocks the Delete method of UserRepository.
func (m *MockUserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

// MockOrganizationRepository is a mock implementation of usecase.OrganizationRepository.
type MockOrganizationRepository struct {
	mock.Mock
}

// GetByIDs mocks the GetByIDs method of OrganizationRepository.
func (m *MockOrganizationRepository) GetByIDs(
	ctx context.Context,
	organizationIDs []uuid.UUID,
) ([]*vaultDomain.Organization, error) {
	args := m.Called(ctx, organizationIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Organization), args.Error(1)
}

// MockCollectionRepository is a mock implementation of usecase.CollectionRepository.
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

// MockFolderRepository is a mock implementation of usecase.FolderRepository.
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

// MockScopeResolver is a mock implementation of usecase.ScopeResolver.
type MockScopeResolver struct {
	mock.Mock
}

// ResolveScope mocks the ResolveScope method of ScopeResolver.
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

// MockPasswordService is a mock implementation of service.PasswordService.
type MockPasswordService struct {
	mock.Mock
}

// HashPassword mocks the HashPassword method of PasswordService.
func (m *MockPasswordService) HashPassword(plainPassword string) (string, error) {
	args := m.Called(plainPassword)
	return args.String(0), args.Error(1)
}

// ComparePassword mocks the ComparePassword method of PasswordService.
func (m *MockPasswordService) ComparePassword(plainPassword string, hashedPassword string) bool {
	return m.Called(plainPassword, hashedPassword).Bool(0)
}

// MockTokenService is a mock implementation of service.TokenService.
type MockTokenService struct {
	mock.Mock
}

// Sign mocks the Sign method of TokenService.
func (m *MockTokenService) Sign(identity *identityDomain.Identity, ttl time.Duration) (string, error) {
	args := m.Called(identity, ttl)
	return args.String(0), args.Error(1)
}

// Verify mocks the Verify method of TokenService.
func (m *MockTokenService) Verify(token string) (*identityDomain.Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}
