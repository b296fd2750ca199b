package usecase

import (
	"context"
	"time"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/config"
	"github.com/credvault/credvault/internal/database"
	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	identityService "github.com/credvault/credvault/internal/identity/service"
	appValidation "github.com/credvault/credvault/internal/validation"
)

// authUseCase implements the AuthUseCase interface.
type authUseCase struct {
	config          *config.Config
	txManager       database.TxManager
	companyRepo     CompanyRepository
	userRepo        UserRepository
	passwordService identityService.PasswordService
	tokenService    identityService.TokenService
}

// Register creates a company and its first super admin user atomically.
func (a *authUseCase) Register(
	ctx context.Context,
	input *identityDomain.RegisterInput,
) (*identityDomain.RegisterOutput, error) {
	if err := validateRegisterInput(input); err != nil {
		return nil, err
	}

	if _, err := a.userRepo.GetByEmail(ctx, input.AdminEmail); err == nil {
		return nil, identityDomain.ErrEmailTaken
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := a.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	company := &identityDomain.Company{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      input.CompanyName,
		CreatedAt: now,
	}
	admin := &identityDomain.User{
		ID:           uuid.Must(uuid.NewV7()),
		CompanyID:    company.ID,
		Email:        input.AdminEmail,
		Name:         input.AdminName,
		PasswordHash: passwordHash,
		Role:         identityDomain.RoleCompanySuperAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = a.txManager.WithTx(ctx, func(txCtx context.Context) error {
		if err := a.companyRepo.Create(txCtx, company); err != nil {
			return err
		}
		return a.userRepo.Create(txCtx, admin)
	})
	if err != nil {
		return nil, err
	}

	return &identityDomain.RegisterOutput{Company: company, Admin: admin}, nil
}

// Login verifies an email/password pair and issues a bearer token. A missing
// user and a wrong password produce the same error so accounts cannot be
// enumerated.
func (a *authUseCase) Login(
	ctx context.Context,
	input *identityDomain.LoginInput,
) (*identityDomain.LoginOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, identityDomain.ErrInvalidCredentials
	}

	user, err := a.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, identityDomain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, identityDomain.ErrUserInactive
	}
	if !a.passwordService.ComparePassword(input.Password, user.PasswordHash) {
		return nil, identityDomain.ErrInvalidCredentials
	}

	identity := &identityDomain.Identity{
		UserID:    user.ID,
		Role:      user.Role,
		CompanyID: user.CompanyID,
	}
	token, err := a.tokenService.Sign(identity, a.config.AuthTokenExpiration)
	if err != nil {
		return nil, err
	}

	return &identityDomain.LoginOutput{Token: token, User: user}, nil
}

// Authenticate verifies a bearer token and extracts the caller identity. The
// identity is trusted for who the caller is only; permission grants are
// re-read from storage on every scope resolution.
func (a *authUseCase) Authenticate(
	ctx context.Context,
	token string,
) (*identityDomain.Identity, error) {
	return a.tokenService.Verify(token)
}

func validateRegisterInput(input *identityDomain.RegisterInput) error {
	err := validation.ValidateStruct(input,
		validation.Field(&input.CompanyName,
			validation.Required.Error("company name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("company name must be between 1 and 255 characters"),
		),
		validation.Field(&input.AdminEmail,
			validation.Required.Error("admin email is required"),
			appValidation.Email,
			validation.Length(5, 255).Error("admin email must be between 5 and 255 characters"),
		),
		validation.Field(&input.AdminName,
			validation.Required.Error("admin name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("admin name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			appValidation.PasswordStrength{
				MinLength:      10,
				RequireUpper:   true,
				RequireLower:   true,
				RequireNumber:  true,
				RequireSpecial: true,
			},
		),
	)
	return appValidation.WrapValidationError(err)
}

// NewAuthUseCase creates a new auth use case instance.
func NewAuthUseCase(
	cfg *config.Config,
	txManager database.TxManager,
	companyRepo CompanyRepository,
	userRepo UserRepository,
	passwordService identityService.PasswordService,
	tokenService identityService.TokenService,
) AuthUseCase {
	return &authUseCase{
		config:          cfg,
		txManager:       txManager,
		companyRepo:     companyRepo,
		userRepo:        userRepo,
		passwordService: passwordService,
		tokenService:    tokenService,
	}
}
