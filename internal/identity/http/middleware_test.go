package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/credvault/credvault/internal/identity/http/mocks"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

func setupMiddlewareRouter(mockAuthUseCase *mocks.MockAuthUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := gin.New()
	router.Use(AuthenticationMiddleware(mockAuthUseCase, logger))
	router.GET("/protected", func(c *gin.Context) {
		identity, ok := GetIdentity(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "identity missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID.String()})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	identity := &identityDomain.Identity{
		UserID:    uuid.Must(uuid.NewV7()),
		Role:      identityDomain.RoleCompanyUser,
		CompanyID: uuid.Must(uuid.NewV7()),
	}

	t.Run("ValidToken", func(t *testing.T) {
		mockAuthUseCase := &mocks.MockAuthUseCase{}
		mockAuthUseCase.On("Authenticate", mock.Anything, "valid-token").Return(identity, nil)
		router := setupMiddlewareRouter(mockAuthUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), identity.UserID.String())
	})

	t.Run("CaseInsensitiveBearer", func(t *testing.T) {
		mockAuthUseCase := &mocks.MockAuthUseCase{}
		mockAuthUseCase.On("Authenticate", mock.Anything, "valid-token").Return(identity, nil)
		router := setupMiddlewareRouter(mockAuthUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "bearer valid-token")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("MissingHeader", func(t *testing.T) {
		mockAuthUseCase := &mocks.MockAuthUseCase{}
		router := setupMiddlewareRouter(mockAuthUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockAuthUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		mockAuthUseCase := &mocks.MockAuthUseCase{}
		mockAuthUseCase.On("Authenticate", mock.Anything, "garbage").
			Return(nil, identityDomain.ErrInvalidToken)
		router := setupMiddlewareRouter(mockAuthUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("MalformedHeader", func(t *testing.T) {
		mockAuthUseCase := &mocks.MockAuthUseCase{}
		router := setupMiddlewareRouter(mockAuthUseCase)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
