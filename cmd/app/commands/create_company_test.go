package commands

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityMocks "github.com/credvault/credvault/internal/identity/http/mocks"
)

func TestRunCreateCompany(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	input := &identityDomain.RegisterInput{
		CompanyName: "Acme Corp",
		AdminEmail:  "admin@acme.example.com",
		AdminName:   "Acme Admin",
		Password:    "Sup3rSecret!Pass",
	}

	t.Run("success", func(t *testing.T) {
		output := &identityDomain.RegisterOutput{
			Company: &identityDomain.Company{ID: uuid.Must(uuid.NewV7()), Name: "Acme Corp"},
			Admin: &identityDomain.User{
				ID:    uuid.Must(uuid.NewV7()),
				Email: "admin@acme.example.com",
				Role:  identityDomain.RoleCompanySuperAdmin,
			},
		}

		mockUseCase := &identityMocks.MockAuthUseCase{}
		mockUseCase.On("Register", ctx, input).Return(output, nil)

		var buf bytes.Buffer
		err := RunCreateCompany(
			ctx, mockUseCase, logger, &buf,
			"Acme Corp", "admin@acme.example.com", "Acme Admin", "Sup3rSecret!Pass",
		)
		require.NoError(t, err)
		require.Contains(t, buf.String(), output.Company.ID.String())
		require.Contains(t, buf.String(), output.Admin.ID.String())
		require.Contains(t, buf.String(), "company_super_admin")
		mockUseCase.AssertExpectations(t)
	})

	t.Run("register-error", func(t *testing.T) {
		mockUseCase := &identityMocks.MockAuthUseCase{}
		mockUseCase.On("Register", ctx, input).Return(nil, errors.New("email already registered"))

		var buf bytes.Buffer
		err := RunCreateCompany(
			ctx, mockUseCase, logger, &buf,
			"Acme Corp", "admin@acme.example.com", "Acme Admin", "Sup3rSecret!Pass",
		)
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to create company")
		mockUseCase.AssertExpectations(t)
	})
}
