// Package dto provides data transfer objects for identity HTTP requests and
// responses.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
	customValidation "github.com/credvault/credvault/internal/validation"
)

// RegisterRequest contains the parameters for registering a company together
// with its first super admin user.
type RegisterRequest struct {
	CompanyName string `json:"company_name"`
	AdminEmail  string `json:"admin_email"`
	AdminName   string `json:"admin_name"`
	Password    string `json:"password"`
}

// Validate checks if the register request is valid. Password strength is
// enforced by the use case.
func (r *RegisterRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.CompanyName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.AdminEmail,
			validation.Required,
			customValidation.Email,
			validation.Length(5, 255),
		),
		validation.Field(&r.AdminName,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password,
			validation.Required,
		),
	)
}

// ToInput converts the request to the use case input.
func (r *RegisterRequest) ToInput() *identityDomain.RegisterInput {
	return &identityDomain.RegisterInput{
		CompanyName: r.CompanyName,
		AdminEmail:  r.AdminEmail,
		AdminName:   r.AdminName,
		Password:    r.Password,
	}
}

// LoginRequest contains the email/password pair presented at login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks if the login request is valid.
func (r *LoginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

// PermissionGrantsRequest carries the three grant sets of a company user.
type PermissionGrantsRequest struct {
	Organizations []string `json:"organizations"`
	Collections   []string `json:"collections"`
	Folders       []string `json:"folders"`
}

// CreateUserRequest contains the parameters for creating a company user.
type CreateUserRequest struct {
	Email       string                  `json:"email"`
	Name        string                  `json:"name"`
	Password    string                  `json:"password"`
	Role        string                  `json:"role"`
	IsActive    bool                    `json:"is_active"`
	Permissions PermissionGrantsRequest `json:"permissions"`
}

// Validate checks if the create user request is valid.
func (r *CreateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email,
			validation.Required,
			customValidation.Email,
			validation.Length(5, 255),
		),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.Password, validation.Required),
		validation.Field(&r.Role,
			validation.Required,
			validation.By(validateRole),
		),
		validation.Field(&r.Permissions, validation.By(validateGrants)),
	)
}

// UpdateUserRequest contains the mutable fields of a user. An empty password
// leaves the current password unchanged.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	IsActive bool   `json:"is_active"`
}

// Validate checks if the update user request is valid.
func (r *UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// UpdatePermissionsRequest replaces a company user's grant sets.
type UpdatePermissionsRequest struct {
	Permissions PermissionGrantsRequest `json:"permissions"`
}

// Validate checks if the update permissions request is valid.
func (r *UpdatePermissionsRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Permissions, validation.By(validateGrants)),
	)
}

// ToGrants converts the request grant lists to domain grant sets.
func (r *PermissionGrantsRequest) ToGrants() (identityDomain.PermissionGrants, error) {
	organizations, err := parseUUIDs(r.Organizations)
	if err != nil {
		return identityDomain.PermissionGrants{}, err
	}
	collections, err := parseUUIDs(r.Collections)
	if err != nil {
		return identityDomain.PermissionGrants{}, err
	}
	folders, err := parseUUIDs(r.Folders)
	if err != nil {
		return identityDomain.PermissionGrants{}, err
	}
	return identityDomain.PermissionGrants{
		Organizations: organizations,
		Collections:   collections,
		Folders:       folders,
	}, nil
}

func parseUUIDs(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := uuid.Parse(value)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func validateRole(value interface{}) error {
	s, ok := value.(string)
	if !ok || !identityDomain.Role(s).Valid() {
		return validation.NewError("validation_role", "must be a known role")
	}
	return nil
}

func validateGrants(value interface{}) error {
	grants, ok := value.(PermissionGrantsRequest)
	if !ok {
		return validation.NewError("validation_grants", "must be a grants document")
	}
	for _, list := range [][]string{grants.Organizations, grants.Collections, grants.Folders} {
		for _, id := range list {
			if _, err := uuid.Parse(id); err != nil {
				return validation.NewError("validation_grants_uuid", "grants must be valid UUIDs")
			}
		}
	}
	return nil
}
