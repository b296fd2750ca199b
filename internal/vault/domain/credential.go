package domain

import (
	"time"

	"github.com/google/uuid"
)

// Credential is an encrypted login stored in the vault. Any subset of the
// organization/collection/folder references may be unset. The URL list holds
// the websites the credential applies to; entries are stored as given and are
// not required to be well-formed URLs.
type Credential struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	FolderID       *uuid.UUID
	Name           string
	URLs           []string

	// Encrypted fields. Each credential has its own DEK; the nonce of each
	// field is stored alongside its ciphertext.
	DekID               uuid.UUID
	UsernameCiphertext  []byte
	UsernameNonce       []byte
	SecretCiphertext    []byte
	SecretNonce         []byte
	NotesCiphertext     []byte
	NotesNonce          []byte

	// Decrypted fields, populated only for resolution results. Never stored.
	Username string `json:"-"`
	Secret   string `json:"-"`
	Notes    string `json:"-"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Label synthesizes the disambiguation label shown when multiple credentials
// match a site. Requires the username to be decrypted.
func (c *Credential) Label() string {
	return c.Name + " (" + c.Username + ")"
}

// CreateCredentialInput contains the parameters for creating a credential.
// Username, secret and notes are plaintext here; they are encrypted before
// the credential is persisted.
type CreateCredentialInput struct {
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	FolderID       *uuid.UUID
	Name           string
	URLs           []string
	Username       string
	Secret         string
	Notes          string
}

// UpdateCredentialInput contains the mutable fields of a credential.
type UpdateCredentialInput struct {
	OrganizationID *uuid.UUID
	CollectionID   *uuid.UUID
	FolderID       *uuid.UUID
	Name           string
	URLs           []string
	Username       string
	Secret         string
	Notes          string
}
