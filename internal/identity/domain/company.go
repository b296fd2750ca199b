package domain

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant boundary. Every organization, user and credential
// belongs to exactly one company. Deleting a company cascades to its users
// and credentials; nothing else cascades automatically.
type Company struct {
	ID        uuid.UUID
	Name      string
	CreatedAt time.Time
}

// RegisterInput contains the parameters for registering a new company
// together with its first super admin user.
type RegisterInput struct {
	CompanyName string
	AdminEmail  string
	AdminName   string
	Password    string
}

// RegisterOutput carries the registered company and its first super admin.
type RegisterOutput struct {
	Company *Company
	Admin   *User
}
