package dto

import (
	"time"

	"github.com/google/uuid"

	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
)

// OrganizationResponse represents an organization in API responses.
type OrganizationResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CollectionResponse represents a collection in API responses.
type CollectionResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// FolderResponse represents a folder in API responses.
type FolderResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	CollectionID   *string   `json:"collection_id,omitempty"`
	Name           string    `json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CredentialResponse represents a credential in API responses. The decrypted
// username, secret and notes are only present in GET responses; list
// responses carry metadata only.
type CredentialResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	OrganizationID *string   `json:"organization_id,omitempty"`
	CollectionID   *string   `json:"collection_id,omitempty"`
	FolderID       *string   `json:"folder_id,omitempty"`
	Name           string    `json:"name"`
	URLs           []string  `json:"urls"`
	Username       string    `json:"username,omitempty"`
	Secret         string    `json:"secret,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TrashRecordResponse represents a trash record in API responses. The
// snapshot itself is not exposed.
type TrashRecordResponse struct {
	ID         string    `json:"id"`
	CompanyID  string    `json:"company_id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	DeletedBy  string    `json:"deleted_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListOrganizationsResponse represents an organization list in API responses.
type ListOrganizationsResponse struct {
	Organizations []OrganizationResponse `json:"organizations"`
}

// ListCollectionsResponse represents a collection list in API responses.
type ListCollectionsResponse struct {
	Collections []CollectionResponse `json:"collections"`
}

// ListFoldersResponse represents a folder list in API responses.
type ListFoldersResponse struct {
	Folders []FolderResponse `json:"folders"`
}

// ListCredentialsResponse represents a credential list in API responses.
type ListCredentialsResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
}

// ListTrashRecordsResponse represents a trash record list in API responses.
type ListTrashRecordsResponse struct {
	Records []TrashRecordResponse `json:"records"`
}

// MapOrganizationToResponse converts a domain organization to an API response.
func MapOrganizationToResponse(organization *vaultDomain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:           organization.ID.String(),
		CompanyID:    organization.CompanyID.String(),
		Name:         organization.Name,
		ContactEmail: organization.ContactEmail,
		CreatedAt:    organization.CreatedAt,
		UpdatedAt:    organization.UpdatedAt,
	}
}

// MapOrganizationsToListResponse converts domain organizations to an API response.
func MapOrganizationsToListResponse(organizations []*vaultDomain.Organization) ListOrganizationsResponse {
	response := ListOrganizationsResponse{Organizations: make([]OrganizationResponse, 0, len(organizations))}
	for _, organization := range organizations {
		response.Organizations = append(response.Organizations, MapOrganizationToResponse(organization))
	}
	return response
}

// MapCollectionToResponse converts a domain collection to an API response.
func MapCollectionToResponse(collection *vaultDomain.Collection) CollectionResponse {
	return CollectionResponse{
		ID:             collection.ID.String(),
		CompanyID:      collection.CompanyID.String(),
		OrganizationID: mapOptionalUUID(collection.OrganizationID),
		Name:           collection.Name,
		CreatedAt:      collection.CreatedAt,
		UpdatedAt:      collection.UpdatedAt,
	}
}

// MapCollectionsToListResponse converts domain collections to an API response.
func MapCollectionsToListResponse(collections []*vaultDomain.Collection) ListCollectionsResponse {
	response := ListCollectionsResponse{Collections: make([]CollectionResponse, 0, len(collections))}
	for _, collection := range collections {
		response.Collections = append(response.Collections, MapCollectionToResponse(collection))
	}
	return response
}

// MapFolderToResponse converts a domain folder to an API response.
func MapFolderToResponse(folder *vaultDomain.Folder) FolderResponse {
	return FolderResponse{
		ID:             folder.ID.String(),
		CompanyID:      folder.CompanyID.String(),
		OrganizationID: mapOptionalUUID(folder.OrganizationID),
		CollectionID:   mapOptionalUUID(folder.CollectionID),
		Name:           folder.Name,
		CreatedAt:      folder.CreatedAt,
		UpdatedAt:      folder.UpdatedAt,
	}
}

// MapFoldersToListResponse converts domain folders to an API response.
func MapFoldersToListResponse(folders []*vaultDomain.Folder) ListFoldersResponse {
	response := ListFoldersResponse{Folders: make([]FolderResponse, 0, len(folders))}
	for _, folder := range folders {
		response.Folders = append(response.Folders, MapFolderToResponse(folder))
	}
	return response
}

// MapCredentialToResponse converts a domain credential to a metadata-only API
// response. Decrypted fields are excluded.
func MapCredentialToResponse(credential *vaultDomain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:             credential.ID.String(),
		CompanyID:      credential.CompanyID.String(),
		OrganizationID: mapOptionalUUID(credential.OrganizationID),
		CollectionID:   mapOptionalUUID(credential.CollectionID),
		FolderID:       mapOptionalUUID(credential.FolderID),
		Name:           credential.Name,
		URLs:           credential.URLs,
		CreatedAt:      credential.CreatedAt,
		UpdatedAt:      credential.UpdatedAt,
	}
}

// MapCredentialToGetResponse converts a domain credential to an API response
// including the decrypted fields.
func MapCredentialToGetResponse(credential *vaultDomain.Credential) CredentialResponse {
	response := MapCredentialToResponse(credential)
	response.Username = credential.Username
	response.Secret = credential.Secret
	response.Notes = credential.Notes
	return response
}

// MapCredentialsToListResponse converts domain credentials to a
// metadata-only API response.
func MapCredentialsToListResponse(credentials []*vaultDomain.Credential) ListCredentialsResponse {
	response := ListCredentialsResponse{Credentials: make([]CredentialResponse, 0, len(credentials))}
	for _, credential := range credentials {
		response.Credentials = append(response.Credentials, MapCredentialToResponse(credential))
	}
	return response
}

// MapTrashRecordToResponse converts a domain trash record to an API response.
func MapTrashRecordToResponse(record *vaultDomain.TrashRecord) TrashRecordResponse {
	return TrashRecordResponse{
		ID:         record.ID.String(),
		CompanyID:  record.CompanyID.String(),
		EntityType: string(record.EntityType),
		EntityID:   record.EntityID.String(),
		DeletedBy:  record.DeletedBy.String(),
		CreatedAt:  record.CreatedAt,
	}
}

// MapTrashRecordsToListResponse converts domain trash records to an API response.
func MapTrashRecordsToListResponse(records []*vaultDomain.TrashRecord) ListTrashRecordsResponse {
	response := ListTrashRecordsResponse{Records: make([]TrashRecordResponse, 0, len(records))}
	for _, record := range records {
		response.Records = append(response.Records, MapTrashRecordToResponse(record))
	}
	return response
}

func mapOptionalUUID(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	value := id.String()
	return &value
}
