package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/credvault/credvault/internal/errors"
	identityDomain "github.com/credvault/credvault/internal/identity/domain"
)

const tokenIssuer = "credvault"

// tokenClaims are the JWT claims carried by a bearer token.
type tokenClaims struct {
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
	jwt.RegisteredClaims
}

// tokenService implements TokenService with HS256-signed JWTs.
type tokenService struct {
	secret []byte
}

// Sign issues a signed token for the given identity.
func (s *tokenService) Sign(identity *identityDomain.Identity, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "token ttl must be positive")
	}

	now := time.Now().UTC()
	claims := tokenClaims{
		Role:      string(identity.Role),
		CompanyID: identity.CompanyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   identity.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.Must(uuid.NewV7()).String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign token")
	}
	return signed, nil
}

// Verify validates the token signature and expiry and extracts the identity.
func (s *tokenService) Verify(token string) (*identityDomain.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, identityDomain.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, identityDomain.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid || claims.Issuer != tokenIssuer {
		return nil, identityDomain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, identityDomain.ErrInvalidToken
	}

	companyID, err := uuid.Parse(claims.CompanyID)
	if err != nil {
		return nil, identityDomain.ErrInvalidToken
	}

	role := identityDomain.Role(claims.Role)
	if !role.Valid() {
		return nil, identityDomain.ErrInvalidToken
	}

	return &identityDomain.Identity{
		UserID:    userID,
		Role:      role,
		CompanyID: companyID,
	}, nil
}

// NewTokenService creates a TokenService signing with the given HMAC secret.
func NewTokenService(secret string) (TokenService, error) {
	if secret == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "auth token secret is not configured")
	}
	return &tokenService{secret: []byte(secret)}, nil
}
