// Package mocks provides mock implementations of the crypto use case
// and repository interfaces for testing.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/credvault/credvault/internal/crypto/domain"
)

// MockKekRepository is a mock implementation of usecase.KekRepository.
type MockKekRepository struct {
	mock.Mock
}

func (m *MockKekRepository) Create(ctx context.Context, kek *cryptoDomain.Kek) error {
	args := m.Called(ctx, kek)
	return args.Error(0)
}

func (m *MockKekRepository) Update(ctx context.Context, kek *cryptoDomain.Kek) error {
	args := m.Called(ctx, kek)
	return args.Error(0)
}

func (m *MockKekRepository) List(ctx context.Context) ([]*cryptoDomain.Kek, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.Kek), args.Error(1)
}

// MockDekRepository is a mock implementation of usecase.DekRepository.
type MockDekRepository struct {
	mock.Mock
}

func (m *MockDekRepository) Create(ctx context.Context, dek *cryptoDomain.Dek) error {
	args := m.Called(ctx, dek)
	return args.Error(0)
}

func (m *MockDekRepository) Get(ctx context.Context, dekID uuid.UUID) (*cryptoDomain.Dek, error) {
	args := m.Called(ctx, dekID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.Dek), args.Error(1)
}

func (m *MockDekRepository) Update(ctx context.Context, dek *cryptoDomain.Dek) error {
	args := m.Called(ctx, dek)
	return args.Error(0)
}

func (m *MockDekRepository) GetBatchNotKekID(
	ctx context.Context,
	kekID uuid.UUID,
	limit int,
) ([]*cryptoDomain.Dek, error) {
	args := m.Called(ctx, kekID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*cryptoDomain.Dek), args.Error(1)
}

// MockKekUseCase is a mock implementation of usecase.KekUseCase.
type MockKekUseCase struct {
	mock.Mock
}

func (m *MockKekUseCase) Create(
	ctx context.Context,
	masterKeyChain *cryptoDomain.MasterKeyChain,
	alg cryptoDomain.Algorithm,
) error {
	args := m.Called(ctx, masterKeyChain, alg)
	return args.Error(0)
}

func (m *MockKekUseCase) Rotate(
	ctx context.Context,
	masterKeyChain *cryptoDomain.MasterKeyChain,
	alg cryptoDomain.Algorithm,
) error {
	args := m.Called(ctx, masterKeyChain, alg)
	return args.Error(0)
}

func (m *MockKekUseCase) Unwrap(
	ctx context.Context,
	masterKeyChain *cryptoDomain.MasterKeyChain,
) (*cryptoDomain.KekChain, error) {
	args := m.Called(ctx, masterKeyChain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cryptoDomain.KekChain), args.Error(1)
}

// MockDekUseCase is a mock implementation of usecase.DekUseCase.
type MockDekUseCase struct {
	mock.Mock
}

func (m *MockDekUseCase) Rewrap(
	ctx context.Context,
	kekChain *cryptoDomain.KekChain,
	newKekID uuid.UUID,
	batchSize int,
) (int, error) {
	args := m.Called(ctx, kekChain, newKekID, batchSize)
	return args.Int(0), args.Error(1)
}
