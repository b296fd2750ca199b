// Package http provides HTTP handlers for the vault hierarchy and for
// credentials. All routes require an authenticated identity; authorization
// decisions are made by the use cases.
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
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	"github.com/credvault/credvault/internal/vault/http/dto"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// OrganizationHandler handles HTTP requests for organizations.
type OrganizationHandler struct {
	organizationUseCase vaultUseCase.OrganizationUseCase
	logger              *slog.Logger
}

// NewOrganizationHandler creates a new organization handler with required dependencies.
func NewOrganizationHandler(organizationUseCase vaultUseCase.OrganizationUseCase, logger *slog.Logger) *OrganizationHandler {
	return &OrganizationHandler{organizationUseCase: organizationUseCase, logger: logger}
}

// CreateHandler creates a new organization in the caller's company.
// POST /v1/organizations - Requires an admin caller.
// Returns 201 Created with the organization data.
func (h *OrganizationHandler) CreateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	organization, err := h.organizationUseCase.Create(c.Request.Context(), *identity, &vaultDomain.CreateOrganizationInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapOrganizationToResponse(organization))
}

// GetHandler retrieves one organization visible to the caller.
// GET /v1/organizations/:id
// Returns 200 OK with the organization data.
func (h *OrganizationHandler) GetHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	organizationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid organization ID format: must be a valid UUID"),
			h.logger)
		return
	}

	organization, err := h.organizationUseCase.Get(c.Request.Context(), *identity, organizationID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrganizationToResponse(organization))
}

// ListHandler lists the organizations visible to the caller.
// GET /v1/organizations?offset=0&limit=10
// Returns 200 OK with the organization list.
func (h *OrganizationHandler) ListHandler(c *gin.Context) {
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

	organizations, err := h.organizationUseCase.List(c.Request.Context(), *identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrganizationsToListResponse(organizations))
}

// UpdateHandler updates one organization.
// PUT /v1/organizations/:id - Requires an admin caller.
// Returns 200 OK with the updated organization data.
func (h *OrganizationHandler) UpdateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	organizationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid organization ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	organization, err := h.organizationUseCase.Update(c.Request.Context(), *identity, organizationID, &vaultDomain.UpdateOrganizationInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapOrganizationToResponse(organization))
}

// DeleteHandler moves one organization to the trash.
// DELETE /v1/organizations/:id - Requires an admin caller.
// Returns 204 No Content.
func (h *OrganizationHandler) DeleteHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	organizationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid organization ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.organizationUseCase.Delete(c.Request.Context(), *identity, organizationID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
