// Package http provides the extension-facing autofill endpoints. Unlike the
// management API these answer in the fixed envelope the browser extension
// understands, with stable error codes instead of plain HTTP error bodies.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	autofillDomain "github.com/credvault/credvault/internal/autofill/domain"
	"github.com/credvault/credvault/internal/autofill/http/dto"
	autofillUseCase "github.com/credvault/credvault/internal/autofill/usecase"
	apperrors "github.com/credvault/credvault/internal/errors"
	"github.com/credvault/credvault/internal/httputil"
	identityHTTP "github.com/credvault/credvault/internal/identity/http"
	customValidation "github.com/credvault/credvault/internal/validation"
)

// AutofillHandler handles the extension message contract over HTTP.
type AutofillHandler struct {
	locatorUseCase autofillUseCase.LocatorUseCase
	logger         *slog.Logger
}

// NewAutofillHandler creates a new autofill handler with required dependencies.
func NewAutofillHandler(locatorUseCase autofillUseCase.LocatorUseCase, logger *slog.Logger) *AutofillHandler {
	return &AutofillHandler{locatorUseCase: locatorUseCase, logger: logger}
}

// LocateHandler resolves the credentials applying to a host for the caller.
// GET /v1/autofill/credentials?host=app.example.com
// Returns the extension envelope: 200 with data, 200 ok=false NO_CREDENTIALS,
// 401 NOT_AUTHENTICATED or 422 MISSING_HOST.
func (h *AutofillHandler) LocateHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse(dto.ErrorCodeNotAuthenticated))
		return
	}

	input := &autofillDomain.LocateInput{Host: c.Query("host")}

	result, err := h.locatorUseCase.Locate(c.Request.Context(), *identity, input)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, dto.MapLocateResultToResponse(result))
	case apperrors.Is(err, autofillDomain.ErrMissingHost):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse(dto.ErrorCodeMissingHost))
	case apperrors.Is(err, apperrors.ErrForbidden), apperrors.Is(err, apperrors.ErrUnauthorized):
		// The extension treats any denial as a broken session. Match counts
		// must not leak here.
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse(dto.ErrorCodeNotAuthenticated))
	default:
		h.logger.Error("credential resolution failed", "error", err)
		c.JSON(http.StatusInternalServerError, dto.LocateResponse{OK: false})
	}
}

// SetSelectionHandler remembers the caller's credential choice for a host.
// PUT /v1/autofill/selection
// Returns 204 No Content.
func (h *AutofillHandler) SetSelectionHandler(c *gin.Context) {
	identity, ok := identityHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	var req dto.SetSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	credentialID, err := uuid.Parse(req.CredentialID)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := h.locatorUseCase.SetSelection(c.Request.Context(), *identity, req.Host, credentialID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}
