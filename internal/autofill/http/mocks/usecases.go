// Package mocks provides mock implementations of the autofill use case
// interfaces for handler tests.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// MockLocatorUseCase is a mock implementation of LocatorUseCase.
type MockLocatorUseCase struct {
	mock.Mock
}

func (m *MockLocatorUseCase) Locate(ctx context.Context, identity identityDomain.Identity, input *autofillDomain.LocateInput) (*autofillDomain.LocateResult, error) {
	args := m.Called(ctx, identity, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*autofillDomain.LocateResult), args.Error(1)
}

func (m *MockLocatorUseCase) SetSelection(ctx context.Context, identity identityDomain.Identity, host string, credentialID uuid.UUID) error {
	args := m.Called(ctx, identity, host, credentialID)
	return args.Error(0)
}
