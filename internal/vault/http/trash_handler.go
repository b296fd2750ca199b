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
	"github.com/credvault/credvault/internal/vault/http/dto"
	vaultUseCase "github.com/credvault/credvault/internal/vault/usecase"
)

// TrashHandler handles HTTP requests for the trash.
type TrashHandler struct {
	trashUseCase vaultUseCase.TrashUseCase
	logger       *slog.Logger
}

// NewTrashHandler creates a new trash handler with required dependencies.
func NewTrashHandler(trashUseCase vaultUseCase.TrashUseCase, logger *slog.Logger) *TrashHandler {
	return &TrashHandler{trashUseCase: trashUseCase, logger: logger}
}

// ListHandler lists the trash records of the caller's company.
// GET /v1/trash?offset=0&limit=10 - Requires an admin caller.
// Returns 200 OK with the trash record list.
func (h *TrashHandler) ListHandler(c *gin.Context) {
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

	records, err := h.trashUseCase.List(c.Request.Context(), *identity, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTrashRecordsToListResponse(records))
}

// RestoreHandler restores a trashed entity from its snapshot.
// POST /v1/trash/:id/restore - Requires an admin caller.
// Returns 204 No Content.
func (h *TrashHandler) RestoreHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid trash record ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.trashUseCase.Restore(c.Request.Context(), *identity, recordID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// PurgeHandler permanently removes a trash record and its snapshot.
// DELETE /v1/trash/:id - Requires an admin caller.
// Returns 204 No Content.
func (h *TrashHandler) PurgeHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c,
			fmt.Errorf("invalid trash record ID format: must be a valid UUID"),
			h.logger)
		return
	}

	if err := h.trashUseCase.Purge(c.Request.Context(), *identity, recordID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
