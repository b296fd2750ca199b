package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	customValidation "github.com/credvault/credvault/internal/validation"
	"github.com/credvault/credvault/internal/vault/http/dto"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// CredentialHandler handles HTTP requests for credentials.
type CredentialHandler struct {
	credentialUseCase vaultUseCase.CredentialUseCase
	logger            *slog.Logger
}

// NewCredentialHandler creates a new credential handler with required dependencies.
func NewCredentialHandler(credentialUseCase vaultUseCase.CredentialUseCase, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{credentialUseCase: credentialUseCase, logger: logger}
}

// CreateHandler creates a new credential in the caller's company.
// POST /v1/credentials
// Returns 201 Created with the credential metadata. Secret fields are
// encrypted at rest and are not echoed back.
func (h *CredentialHandler) CreateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credential, err := h.credentialUseCase.Create(c.Request.Context(), *identity, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCredentialToResponse(credential))
}

// GetHandler retrieves one credential with its fields decrypted.
// GET /v1/credentials/:id
// Returns 200 OK with the credential data including username, secret and notes.
func (h *CredentialHandler) GetHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	credential, err := h.credentialUseCase.Get(c.Request.Context(), *identity, credentialID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToGetResponse(credential))
}

// ListHandler lists the credentials visible to the caller, metadata only.
// GET /v1/credentials?offset=0&limit=10
// Returns 200 OK with the credential list. Encrypted fields stay encrypted.
func (h *CredentialHandler) ListHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credentials, err := h.credentialUseCase.List(c.Request.Context(), *identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialsToListResponse(credentials))
}

// UpdateHandler updates one credential, re-encrypting its secret fields.
// PUT /v1/credentials/:id
// Returns 200 OK with the credential metadata.
func (h *CredentialHandler) UpdateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateCredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := req.ToInput()
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	credential, err := h.credentialUseCase.Update(c.Request.Context(), *identity, credentialID, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCredentialToResponse(credential))
}

// DeleteHandler moves one credential to the trash.
// DELETE /v1/credentials/:id
// Returns 204 No Content.
func (h *CredentialHandler) DeleteHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	credentialID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid credential ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.credentialUseCase.Delete(c.Request.Context(), *identity, credentialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
