package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityUseCase "github.com/credvault/credvault/internal/identity/usecase"
)

// RunCreateCompany registers a company together with its first super admin
// user. Useful for bootstrapping environments where the public registration
// endpoint is not exposed. The password must satisfy the same strength rules
// as registration through the API.
func RunCreateCompany(
	ctx context.Context,
	authUseCase identityUseCase.AuthUseCase,
	logger *slog.Logger,
	writer io.Writer,
	companyName, adminEmail, adminName, password string,
) error {
	logger.Info("creating company", slog.String("name", companyName))

	output, err := authUseCase.Register(ctx, &identityDomain.RegisterInput{
		CompanyName: companyName,
		AdminEmail:  adminEmail,
		AdminName:   adminName,
		Password:    password,
	})
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "company_id=%s\n", output.Company.ID)
	_, _ = fmt.Fprintf(writer, "admin_id=%s\n", output.Admin.ID)
	_, _ = fmt.Fprintf(writer, "admin_email=%s\n", output.Admin.Email)
	_, _ = fmt.Fprintf(writer, "admin_role=%s\n", output.Admin.Role)

	logger.Info("company created",
		slog.String("company_id", output.Company.ID.String()),
		slog.String("admin_id", output.Admin.ID.String()),
	)
	return nil
}
