// Package usecase implements business logic orchestration for identity
// operations: company registration, login, token authentication and company
// user management including permission grant edits.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/credvault/credvault/internal/access"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// CompanyRepository defines the interface for Company persistence.
type CompanyRepository interface {
	Create(ctx context.Context, company *identityDomain.Company) error
	Get(ctx context.Context, companyID uuid.UUID) (*identityDomain.Company, error)
	Delete(ctx context.Context, companyID uuid.UUID) error
}

// UserRepository defines the interface for User persistence.
type UserRepository interface {
	Create(ctx context.Context, user *identityDomain.User) error
	Get(ctx context.Context, userID uuid.UUID) (*identityDomain.User, error)
	GetByEmail(ctx context.Context, email string) (*identityDomain.User, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID, offset, limit int) ([]*identityDomain.User, error)
	Update(ctx context.Context, user *identityDomain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// OrganizationRepository batch-loads organizations referenced by grants.
type OrganizationRepository interface {
	GetByIDs(ctx context.Context, organizationIDs []uuid.UUID) ([]*vaultDomain.Organization, error)
}

// CollectionRepository batch-loads collections referenced by grants.
type CollectionRepository interface {
	GetByIDs(ctx context.Context, collectionIDs []uuid.UUID) ([]*vaultDomain.Collection, error)
}

// FolderRepository batch-loads folders referenced by grants.
type FolderRepository interface {
	GetByIDs(ctx context.Context, folderIDs []uuid.UUID) ([]*vaultDomain.Folder, error)
}

// ScopeResolver resolves a caller identity into an authorization scope.
type ScopeResolver interface {
	ResolveScope(ctx context.Context, identity identityDomain.Identity) (*access.Scope, error)
}

// AuthUseCase defines the business logic for registration and authentication.
type AuthUseCase interface {
	// Register creates a company together with its first super admin user.
	Register(ctx context.Context, input *identityDomain.RegisterInput) (*identityDomain.RegisterOutput, error)

	// Login verifies an email/password pair and issues a bearer token.
	Login(ctx context.Context, input *identityDomain.LoginInput) (*identityDomain.LoginOutput, error)

	// Authenticate verifies a bearer token and extracts the caller identity.
	Authenticate(ctx context.Context, token string) (*identityDomain.Identity, error)
}

// UserUseCase defines the business logic for company user management. All
// operations require an admin caller.
type UserUseCase interface {
	Create(ctx context.Context, identity identityDomain.Identity, input *identityDomain.CreateUserInput) (*identityDomain.User, error)
	Get(ctx context.Context, identity identityDomain.Identity, userID uuid.UUID) (*identityDomain.User, error)
	List(ctx context.Context, identity identityDomain.Identity, offset, limit int) ([]*identityDomain.User, error)
	Update(ctx context.Context, identity identityDomain.Identity, userID uuid.UUID, input *identityDomain.UpdateUserInput) (*identityDomain.User, error)

	// UpdatePermissions replaces the target user's grant sets. Grants that
	// reference entities of another company are rejected.
	UpdatePermissions(ctx context.Context, identity identityDomain.Identity, userID uuid.UUID, grants identityDomain.PermissionGrants) (*identityDomain.User, error)

	Delete(ctx context.Context, identity identityDomain.Identity, userID uuid.UUID) error
}
