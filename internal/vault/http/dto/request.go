// Package dto provides data transfer objects for vault HTTP requests and
// responses.
package dto

import (
	"github.com/google/uuid"
	validation "github.com/jellydator/validation"

	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	customValidation "github.com/credvault/credvault/internal/validation"
)

// CreateOrganizationRequest contains the parameters for creating an organization.
type CreateOrganizationRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// Validate checks if the create organization request is valid.
func (r *CreateOrganizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ContactEmail,
			customValidation.Email,
			validation.Length(0, 255),
		),
	)
}

// UpdateOrganizationRequest contains the mutable fields of an organization.
type UpdateOrganizationRequest struct {
	Name         string `json:"name"`
	ContactEmail string `json:"contact_email"`
}

// Validate checks if the update organization request is valid.
func (r *UpdateOrganizationRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.ContactEmail,
			customValidation.Email,
			validation.Length(0, 255),
		),
	)
}

// CreateCollectionRequest contains the parameters for creating a collection.
type CreateCollectionRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
}

// Validate checks if the create collection request is valid.
func (r *CreateCollectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// UpdateCollectionRequest contains the mutable fields of a collection.
type UpdateCollectionRequest struct {
	OrganizationID string `json:"organization_id"`
	Name           string `json:"name"`
}

// Validate checks if the update collection request is valid.
func (r *UpdateCollectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// CreateFolderRequest contains the parameters for creating a folder.
type CreateFolderRequest struct {
	OrganizationID string `json:"organization_id"`
	CollectionID   string `json:"collection_id"`
	Name           string `json:"name"`
}

// Validate checks if the create folder request is valid.
func (r *CreateFolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.CollectionID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// UpdateFolderRequest contains the mutable fields of a folder.
type UpdateFolderRequest struct {
	OrganizationID string `json:"organization_id"`
	CollectionID   string `json:"collection_id"`
	Name           string `json:"name"`
}

// Validate checks if the update folder request is valid.
func (r *UpdateFolderRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.CollectionID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// CreateCredentialRequest contains the parameters for creating a credential.
// Username, secret and notes are plaintext here and encrypted before storage.
type CreateCredentialRequest struct {
	OrganizationID string   `json:"organization_id"`
	CollectionID   string   `json:"collection_id"`
	FolderID       string   `json:"folder_id"`
	Name           string   `json:"name"`
	URLs           []string `json:"urls"`
	Username       string   `json:"username"`
	Secret         string   `json:"secret"`
	Notes          string   `json:"notes"`
}

// Validate checks if the create credential request is valid.
func (r *CreateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.CollectionID, customValidation.UUID),
		validation.Field(&r.FolderID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.URLs, validation.Each(validation.Length(1, 2048))),
	)
}

// ToInput converts the request to the use case input.
func (r *CreateCredentialRequest) ToInput() (*vaultDomain.CreateCredentialInput, error) {
	organizationID, err := parseOptionalUUID(r.OrganizationID)
	if err != nil {
		return nil, err
	}
	collectionID, err := parseOptionalUUID(r.CollectionID)
	if err != nil {
		return nil, err
	}
	folderID, err := parseOptionalUUID(r.FolderID)
	if err != nil {
		return nil, err
	}
	return &vaultDomain.CreateCredentialInput{
		OrganizationID: organizationID,
		CollectionID:   collectionID,
		FolderID:       folderID,
		Name:           r.Name,
		URLs:           r.URLs,
		Username:       r.Username,
		Secret:         r.Secret,
		Notes:          r.Notes,
	}, nil
}

// UpdateCredentialRequest contains the mutable fields of a credential.
type UpdateCredentialRequest struct {
	OrganizationID string   `json:"organization_id"`
	CollectionID   string   `json:"collection_id"`
	FolderID       string   `json:"folder_id"`
	Name           string   `json:"name"`
	URLs           []string `json:"urls"`
	Username       string   `json:"username"`
	Secret         string   `json:"secret"`
	Notes          string   `json:"notes"`
}

// Validate checks if the update credential request is valid.
func (r *UpdateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.OrganizationID, customValidation.UUID),
		validation.Field(&r.CollectionID, customValidation.UUID),
		validation.Field(&r.FolderID, customValidation.UUID),
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
		validation.Field(&r.URLs, validation.Each(validation.Length(1, 2048))),
	)
}

// ToInput converts the request to the use case input.
func (r *UpdateCredentialRequest) ToInput() (*vaultDomain.UpdateCredentialInput, error) {
	organizationID, err := parseOptionalUUID(r.OrganizationID)
	if err != nil {
		return nil, err
	}
	collectionID, err := parseOptionalUUID(r.CollectionID)
	if err != nil {
		return nil, err
	}
	folderID, err := parseOptionalUUID(r.FolderID)
	if err != nil {
		return nil, err
	}
	return &vaultDomain.UpdateCredentialInput{
		OrganizationID: organizationID,
		CollectionID:   collectionID,
		FolderID:       folderID,
		Name:           r.Name,
		URLs:           r.URLs,
		Username:       r.Username,
		Secret:         r.Secret,
		Notes:          r.Notes,
	}, nil
}

// ParseOptionalUUID converts an optional UUID string to a pointer; an empty
// string maps to nil.
func ParseOptionalUUID(value string) (*uuid.UUID, error) {
	return parseOptionalUUID(value)
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
