package domain

import (
	"github.com/credvault/credvault/internal/errors"
)

// Vault-specific error definitions.
var (
	// ErrOrganizationNotFound indicates the organization does not exist.
	ErrOrganizationNotFound = errors.Wrap(errors.ErrNotFound, "organization not found")

	// ErrCollectionNotFound indicates the collection does not exist.
	ErrCollectionNotFound = errors.Wrap(errors.ErrNotFound, "collection not found")

	// ErrFolderNotFound indicates the folder does not exist.
	ErrFolderNotFound = errors.Wrap(errors.ErrNotFound, "folder not found")

	// ErrCredentialNotFound indicates the credential does not exist.
	ErrCredentialNotFound = errors.Wrap(errors.ErrNotFound, "credential not found")

	// ErrTrashRecordNotFound indicates the trash record does not exist.
	ErrTrashRecordNotFound = errors.Wrap(errors.ErrNotFound, "trash record not found")

	// ErrCrossCompanyReference indicates a grouping reference points at an
	// entity owned by another company.
	ErrCrossCompanyReference = errors.Wrap(errors.ErrInvalidInput, "reference crosses company boundary")
)
