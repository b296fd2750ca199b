// Package mocks provides mock implementations of the autofill use case
// dependencies for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/credvault/credvault/internal/access"
	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// MockSelectionRepository is a mock implementation of SelectionRepository.
type MockSelectionRepository struct {
	mock.Mock
}

func (m *MockSelectionRepository) Get(ctx context.Context, userID uuid.UUID, host string) (*autofillDomain.Selection, error) {
	args := m.Called(ctx, userID, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autofillDomain.Selection), args.Error(1)
}

func (m *MockSelectionRepository) Upsert(ctx context.Context, selection *autofillDomain.Selection) error {
	args := m.Called(ctx, selection)
	return args.Error(0)
}

// MockCredentialRepository is a mock implementation of CredentialRepository.
type MockCredentialRepository struct {
	mock.Mock
}

func (m *MockCredentialRepository) Get(ctx context.Context, credentialID uuid.UUID) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, credentialID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialRepository) Search(ctx context.Context, search vaultDomain.CredentialSearch) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

// MockScopeResolver is a mock implementation of ScopeResolver.
type MockScopeResolver struct {
	mock.Mock
}

func (m *MockScopeResolver) ResolveScope(ctx context.Context, identity identityDomain.Identity) (*access.Scope, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*access.Scope), args.Error(1)
}

func (m *MockScopeResolver) FilterCredentials(ctx context.Context, scope *access.Scope, credentials []*vaultDomain.Credential) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, scope, credentials)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockScopeResolver) AllowCredential(ctx context.Context, scope *access.Scope, credential *vaultDomain.Credential) error {
	args := m.Called(ctx, scope, credential)
	return args.Error(0)
}

// MockCredentialDecrypter is a mock implementation of CredentialDecrypter.
type MockCredentialDecrypter struct {
	mock.Mock
}

func (m *MockCredentialDecrypter) Decrypt(ctx context.Context, credential *vaultDomain.Credential) error {
	args := m.Called(ctx, credential)
	return args.Error(0)
}
