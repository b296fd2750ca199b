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

// CollectionHandler handles HTTP requests for collections.
type CollectionHandler struct {
	collectionUseCase vaultUseCase.CollectionUseCase
	logger            *slog.Logger
}

// NewCollectionHandler creates a new collection handler with required dependencies.
func NewCollectionHandler(collectionUseCase vaultUseCase.CollectionUseCase, logger *slog.Logger) *CollectionHandler {
	return &CollectionHandler{collectionUseCase: collectionUseCase, logger: logger}
}

// CreateHandler creates a new collection in the caller's company.
// POST /v1/collections - Requires an admin caller.
// Returns 201 Created with the collection data.
func (h *CollectionHandler) CreateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	organizationID, err := dto.ParseOptionalUUID(req.OrganizationID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	collection, err := h.collectionUseCase.Create(c.Request.Context(), *identity, &vaultDomain.CreateCollectionInput{
		OrganizationID: organizationID,
		Name:           req.Name,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapCollectionToResponse(collection))
}

// GetHandler retrieves one collection visible to the caller.
// GET /v1/collections/:id
// Returns 200 OK with the collection data.
func (h *CollectionHandler) GetHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid collection ID format: must be a valid UUID"),
			h.logger)
		return
	}

	collection, err := h.collectionUseCase.Get(c.Request.Context(), *identity, collectionID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCollectionToResponse(collection))
}

// ListHandler lists the collections visible to the caller.
// GET /v1/collections?offset=0&limit=10
// Returns 200 OK with the collection list.
func (h *CollectionHandler) ListHandler(c *gin.Context) {
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

	collections, err := h.collectionUseCase.List(c.Request.Context(), *identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCollectionsToListResponse(collections))
}

// UpdateHandler updates one collection.
// PUT /v1/collections/:id - Requires an admin caller.
// Returns 200 OK with the updated collection data.
func (h *CollectionHandler) UpdateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid collection ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	organizationID, err := dto.ParseOptionalUUID(req.OrganizationID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	collection, err := h.collectionUseCase.Update(c.Request.Context(), *identity, collectionID, &vaultDomain.UpdateCollectionInput{
		OrganizationID: organizationID,
		Name:           req.Name,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCollectionToResponse(collection))
}

// DeleteHandler moves one collection to the trash.
// DELETE /v1/collections/:id - Requires an admin caller.
// Returns 204 No Content.
func (h *CollectionHandler) DeleteHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	collectionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid collection ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.collectionUseCase.Delete(c.Request.Context(), *identity, collectionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
