package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

func testIdentity() *identityDomain.Identity {
	return &identityDomain.Identity{
		UserID:    uuid.Must(uuid.NewV7()),
		Role:      identityDomain.RoleCompanyUser,
		CompanyID: uuid.Must(uuid.NewV7()),
	}
}

func TestTokenService_SignAndVerify(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)

	identity := testIdentity()

	token, err := svc.Sign(identity, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	verified, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserID, verified.UserID)
	assert.Equal(t, identity.Role, verified.Role)
	assert.Equal(t, identity.CompanyID, verified.CompanyID)
}

func TestTokenService_Sign_InvalidTTL(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)

	_, err = svc.Sign(testIdentity(), 0)
	assert.Error(t, err)
}

func TestTokenService_Verify_Expired(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)

	token, err := svc.Sign(testIdentity(), time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, identityDomain.ErrInvalidToken)
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	signer, err := NewTokenService("secret-a")
	require.NoError(t, err)
	verifier, err := NewTokenService("secret-b")
	require.NoError(t, err)

	token, err := signer.Sign(testIdentity(), time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, identityDomain.ErrInvalidToken)
}

func TestTokenService_Verify_Garbage(t *testing.T) {
	svc, err := NewTokenService("test-secret")
	require.NoError(t, err)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, identityDomain.ErrInvalidToken)
	}
}

func TestNewTokenService_MissingSecret(t *testing.T) {
	_, err := NewTokenService("")
	assert.Error(t, err)
}
