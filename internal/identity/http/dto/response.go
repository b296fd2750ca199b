package dto

import (
	"time"

	"github.com/google/uuid"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

// CompanyResponse represents a company in API responses.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PermissionGrantsResponse carries the three grant sets of a company user.
type PermissionGrantsResponse struct {
	Organizations []string `json:"organizations"`
	Collections   []string `json:"collections"`
	Folders       []string `json:"folders"`
}

// UserResponse represents a user in API responses. The password hash is never
// exposed.
type UserResponse struct {
	ID          string                   `json:"id"`
	CompanyID   string                   `json:"company_id"`
	Email       string                   `json:"email"`
	Name        string                   `json:"name"`
	Role        string                   `json:"role"`
	IsActive    bool                     `json:"is_active"`
	Permissions PermissionGrantsResponse `json:"permissions"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

// RegisterResponse contains the result of registering a company.
type RegisterResponse struct {
	Company CompanyResponse `json:"company"`
	Admin   UserResponse    `json:"admin"`
}

// LoginResponse contains the bearer token issued at login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ListUsersResponse represents a paginated user list in API responses.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// MapCompanyToResponse converts a domain company to an API response.
func MapCompanyToResponse(company *identityDomain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        company.ID.String(),
		Name:      company.Name,
		CreatedAt: company.CreatedAt,
	}
}

// MapUserToResponse converts a domain user to an API response.
func MapUserToResponse(user *identityDomain.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		CompanyID: user.CompanyID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		IsActive:  user.IsActive,
		Permissions: PermissionGrantsResponse{
			Organizations: mapUUIDs(user.Permissions.Organizations),
			Collections:   mapUUIDs(user.Permissions.Collections),
			Folders:       mapUUIDs(user.Permissions.Folders),
		},
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// MapUsersToListResponse converts domain users to a paginated API response.
func MapUsersToListResponse(users []*identityDomain.User) ListUsersResponse {
	response := ListUsersResponse{Users: make([]UserResponse, 0, len(users))}
	for _, user := range users {
		response.Users = append(response.Users, MapUserToResponse(user))
	}
	return response
}

func mapUUIDs(ids []uuid.UUID) []string {
	values := make([]string, 0, len(ids))
	for _, id := range ids {
		values = append(values, id.String())
	}
	return values
}
