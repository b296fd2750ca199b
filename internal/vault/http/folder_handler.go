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

// FolderHandler handles HTTP requests for folders.
type FolderHandler struct {
	folderUseCase vaultUseCase.FolderUseCase
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler with required dependencies.
func NewFolderHandler(folderUseCase vaultUseCase.FolderUseCase, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{folderUseCase: folderUseCase, logger: logger}
}

// CreateHandler creates a new folder in the caller's company.
// POST /v1/folders - Requires an admin caller.
// Returns 201 Created with the folder data.
func (h *FolderHandler) CreateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := folderInput(req.OrganizationID, req.CollectionID, req.Name)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	folder, err := h.folderUseCase.Create(c.Request.Context(), *identity, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapFolderToResponse(folder))
}

// GetHandler retrieves one folder visible to the caller.
// GET /v1/folders/:id
// Returns 200 OK with the folder data.
func (h *FolderHandler) GetHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid folder ID format: must be a valid UUID"),
			h.logger)
		return
	}

	folder, err := h.folderUseCase.Get(c.Request.Context(), *identity, folderID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFolderToResponse(folder))
}

// ListHandler lists the folders visible to the caller.
// GET /v1/folders?offset=0&limit=10
// Returns 200 OK with the folder list.
func (h *FolderHandler) ListHandler(c *gin.Context) {
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

	folders, err := h.folderUseCase.List(c.Request.Context(), *identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFoldersToListResponse(folders))
}

// UpdateHandler updates one folder.
// PUT /v1/folders/:id - Requires an admin caller.
// Returns 200 OK with the updated folder data.
func (h *FolderHandler) UpdateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid folder ID format: must be a valid UUID"),
			h.logger)
		return
	}

	var req dto.UpdateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input, err := folderInput(req.OrganizationID, req.CollectionID, req.Name)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	folder, err := h.folderUseCase.Update(c.Request.Context(), *identity, folderID, &vaultDomain.UpdateFolderInput{
		OrganizationID: input.OrganizationID,
		CollectionID:   input.CollectionID,
		Name:           input.Name,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapFolderToResponse(folder))
}

// DeleteHandler moves one folder to the trash.
// DELETE /v1/folders/:id - Requires an admin caller.
// Returns 204 No Content.
func (h *FolderHandler) DeleteHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid folder ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.folderUseCase.Delete(c.Request.Context(), *identity, folderID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

func folderInput(organizationID, collectionID, name string) (*vaultDomain.CreateFolderInput, error) {
	orgID, err := dto.ParseOptionalUUID(organizationID)
	if err != nil {
		return nil, err
	}
	colID, err := dto.ParseOptionalUUID(collectionID)
	if err != nil {
		return nil, err
	}
	return &vaultDomain.CreateFolderInput{
		OrganizationID: orgID,
		CollectionID:   colID,
		Name:           name,
	}, nil
}
