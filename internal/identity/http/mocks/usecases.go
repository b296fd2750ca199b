// Package mocks provides mock implementations for testing identity HTTP
// handlers.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// MockAuthUseCase is a mock implementation of AuthUseCase for testing.
type MockAuthUseCase struct {
	mock.Mock
}

// Register mocks the Register method of AuthUseCase.
func (m *MockAuthUseCase) Register(
	ctx context.Context,
	input *identityDomain.RegisterInput,
) (*identityDomain.RegisterOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.RegisterOutput), args.Error(1)
}

// Login mocks the Login method of AuthUseCase.
func (m *MockAuthUseCase) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.LoginOutput), args.Error(1)
}

// Authenticate mocks the Authenticate method of AuthUseCase.
func (m *MockAuthUseCase) Authenticate(
	ctx context.Context,
	token string,
) (*identityDomain.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.Identity), args.Error(1)
}

// MockUserUseCase is a mock implementation of UserUseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// Create mocks the Create method of UserUseCase.
func (m *MockUserUseCase) Create(
	ctx context.Context,
	identity identityDomain.Identity,
	input *identityDomain.CreateUserInput,
) (*identityDomain.User, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// Get mocks the Get method of UserUseCase.
func (m *MockUserUseCase) Get(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) (*identityDomain.User, error) {
	args := m.Called(ctx, identity, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// List mocks the List method of UserUseCase.
func (m *MockUserUseCase) List(
	ctx context.Context,
	identity identityDomain.Identity,
	offset, limit int,
) ([]*identityDomain.User, error) {
	args := m.Called(ctx, identity, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*identityDomain.User), args.Error(1)
}

// Update mocks the Update method of UserUseCase.
func (m *MockUserUseCase) Update(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	input *identityDomain.UpdateUserInput,
) (*identityDomain.User, error) {
	args := m.Called(ctx, identity, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// UpdatePermissions mocks the UpdatePermissions method of UserUseCase.
func (m *MockUserUseCase) UpdatePermissions(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
	grants identityDomain.PermissionGrants,
) (*identityDomain.User, error) {
	args := m.Called(ctx, identity, userID, grants)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identityDomain.User), args.Error(1)
}

// Delete mocks the Delete method of UserUseCase.
func (m *MockUserUseCase) Delete(
	ctx context.Context,
	identity identityDomain.Identity,
	userID uuid.UUID,
) error {
	return m.Called(ctx, identity, userID).Error(0)
}
