package http

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/credvault/credvault/internal/errors"
	vaultDomain "github.com/credvault/credvault/internal/vault/domain"
	"github.com/credvault/credvault/internal/vault/http/mocks"
)

func setupOrganizationHandler(t *testing.T) (*OrganizationHandler, *mocks.MockOrganizationUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)
	mockOrganizationUseCase := &mocks.MockOrganizationUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrganizationHandler(mockOrganizationUseCase, logger), mockOrganizationUseCase
}

func TestOrganizationHandler_CreateHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)
		identity := testIdentity()

		organization := &vaultDomain.Organization{
			ID:        uuid.Must(uuid.NewV7()),
			CompanyID: identity.CompanyID,
			Name:      "Engineering",
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}
		mockOrganizationUseCase.On("Create", mock.Anything, *identity, mock.MatchedBy(func(input *vaultDomain.CreateOrganizationInput) bool {
			return input.Name == "Engineering"
		})).Return(organization, nil)

		c, w := createTestContext(http.MethodPost, "/v1/organizations", map[string]string{
			"name": "Engineering",
		}, identity)

		handler.CreateHandler(c)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), organization.ID.String())
		mockOrganizationUseCase.AssertExpectations(t)
	})

	t.Run("BlankNameRejected", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/organizations", map[string]string{
			"name": "   ",
		}, testIdentity())

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockOrganizationUseCase.AssertNotCalled(t, "Create")
	})

	t.Run("ForbiddenForCompanyUser", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)
		identity := testIdentity()

		mockOrganizationUseCase.On("Create", mock.Anything, *identity, mock.Anything).
			Return(nil, apperrors.ErrForbidden)

		c, w := createTestContext(http.MethodPost, "/v1/organizations", map[string]string{
			"name": "Engineering",
		}, identity)

		handler.CreateHandler(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestOrganizationHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)
		identity := testIdentity()

		organizations := []*vaultDomain.Organization{
			{ID: uuid.Must(uuid.NewV7()), CompanyID: identity.CompanyID, Name: "Engineering"},
			{ID: uuid.Must(uuid.NewV7()), CompanyID: identity.CompanyID, Name: "Sales"},
		}
		mockOrganizationUseCase.On("List", mock.Anything, *identity, 0, 50).Return(organizations, nil)

		c, w := createTestContext(http.MethodGet, "/v1/organizations", nil, identity)

		handler.ListHandler(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Engineering")
		assert.Contains(t, w.Body.String(), "Sales")
		mockOrganizationUseCase.AssertExpectations(t)
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/organizations?limit=1000", nil, testIdentity())

		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockOrganizationUseCase.AssertNotCalled(t, "List")
	})
}

func TestOrganizationHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)
		identity := testIdentity()

		organizationID := uuid.Must(uuid.NewV7())
		mockOrganizationUseCase.On("Delete", mock.Anything, *identity, organizationID).Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/organizations/"+organizationID.String(), nil, identity)
		c.Params = gin.Params{{Key: "id", Value: organizationID.String()}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockOrganizationUseCase.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockOrganizationUseCase := setupOrganizationHandler(t)
		identity := testIdentity()

		organizationID := uuid.Must(uuid.NewV7())
		mockOrganizationUseCase.On("Delete", mock.Anything, *identity, organizationID).
			Return(apperrors.ErrNotFound)

		c, w := createTestContext(http.MethodDelete, "/v1/organizations/"+organizationID.String(), nil, identity)
		c.Params = gin.Params{{Key: "id", Value: organizationID.String()}}

		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
