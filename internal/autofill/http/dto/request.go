// Package dto provides data transfer objects for the extension-facing
// autofill endpoints.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/credvault/credvault/internal/validation"
)

// SetSelectionRequest contains the parameters for remembering a credential
// choice for a host.
type SetSelectionRequest struct {
	Host         string `json:"host"`
	CredentialID string `json:"credential_id"`
}

// Validate checks if the set selection request is valid.
func (r *SetSelectionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Host,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 2048),
		),
		validation.Field(&r.CredentialID,
			validation.Required,
			customValidation.UUID,
		),
	)
}
