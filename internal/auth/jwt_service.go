package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "storefront/internal/errors"
)

// TokenExpiry is the duration for which bearer tokens are valid.
const TokenExpiry = 7 * 24 * time.Hour

const bearerPrefix = "Bearer "

// Claims represents JWT claims carried by a bearer token.
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies bearer tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a JWT service with the given secret. The secret is
// validated at config load time; an empty one never reaches here.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Issue produces a signed token encoding the user identifier and role.
func (s *JWTService) Issue(userID uuid.UUID, role string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a token string and returns its claims. Signature
// mismatches and expired tokens both surface as ErrInvalidToken.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.ErrInvalidToken
	}

	return claims, nil
}

// ParseBearer strips the bearer scheme from an Authorization header value.
// A missing or misspelled scheme prefix is a malformed token.
func ParseBearer(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", apperrors.ErrMalformedToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", apperrors.ErrMalformedToken
	}
	return token, nil
}
