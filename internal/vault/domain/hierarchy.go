// Package domain defines the vault domain models: the three-level grouping
// hierarchy (Organization -> Collection -> Folder), the encrypted credentials
// stored inside it, and the trash records that back soft deletion.
//
// Containment is loose: a collection may exist without an
// organization, a folder may attach directly to an organization without an
// intervening collection, and a credential may sit "loose" at company level
// with no grouping at all.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the top grouping level. It belongs to exactly one company.
type Organization struct {
	ID           uuid.UUID
	CompanyID    uuid.UUID
	Name         string
	ContactEmail string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Collection groups credentials within a company and optionally within an
// organization.
type Collection struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	OrganizationID *uuid.UUID
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Folder is the most specific grouping level. Both the organization and the
// collection references are optional.
type Folder struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	Name           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateOrganizationInput contains the parameters for creating an organization.
type CreateOrganizationInput struct {
	Name         string
	ContactEmail string
}

// CreateCollectionInput contains the parameters for creating a collection.
type CreateCollectionInput struct {
	OrganizationID *uuid.UUID
	Name           string
}

// CreateFolderInput contains the parameters for creating a folder.
type CreateFolderInput struct {
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	Name           string
}

// UpdateOrganizationInput contains the mutable fields of an organization.
type UpdateOrganizationInput struct {
	Name         string
	ContactEmail string
}

// UpdateCollectionInput contains the mutable fields of a collection.
type UpdateCollectionInput struct {
	OrganizationID *uuid.UUID
	Name           string
}

// UpdateFolderInput contains the mutable fields of a folder.
type UpdateFolderInput struct {
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	Name           string
}
