package domain

import (
	"time"

	"github.com/google/uuid"
)

// PermissionGrants holds the three independent grant sets of a company user.
// A grant at one level never implies a grant at another: for a folder-scoped
// credential to be visible, the folder, its collection and that collection's
// organization must each be granted separately.
type PermissionGrants struct {
	Organizations []uuid.UUID `json:"organizations"`
	Collections   []uuid.UUID `json:"collections"`
	Folders       []uuid.UUID `json:"folders"`
}

// Empty reports whether no grant exists in any of the three sets.
func (g PermissionGrants) Empty() bool {
	return len(g.Organizations) == 0 && len(g.Collections) == 0 && len(g.Folders) == 0
}

// User represents an account within a company. Permission grants are always
// read fresh from storage at resolution time, never trusted from a token, so
// revocation takes effect on the next request.
type User struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Email        string
	Name         string
	PasswordHash string //nolint:gosec // hashed password (not plaintext)
	Role         Role
	IsActive     bool
	Permissions  PermissionGrants
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated caller extracted from a bearer token. It is
// trusted for who the caller is, not for what the caller may see.
type Identity struct {
	UserID    uuid.UUID
	Role      Role
	CompanyID uuid.UUID
}

// CreateUserInput contains the parameters for creating a company user.
type CreateUserInput struct {
	Email       string
	Name        string
	Password    string
	Role        Role
	IsActive    bool
	Permissions PermissionGrants
}

// UpdateUserInput contains the mutable fields of a user. The password is
// optional; an empty value leaves the current password unchanged.
type UpdateUserInput struct {
	Name     string
	Password string
	IsActive bool
}

// LoginInput contains the email/password pair presented at login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginOutput carries the signed bearer token and the authenticated user.
type LoginOutput struct {
	Token string
	User  *User
}
