package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "storefront/internal/errors"
)

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := NewJWTService("test-secret")
	userID := uuid.New()

	token, err := svc.Issue(userID, "customer")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "customer", claims.Role)
	assert.NotEmpty(t, claims.ID, "tokens carry a JTI for revocation")

	// 7-day expiry, give or take test runtime
	assert.WithinDuration(t, time.Now().Add(TokenExpiry), claims.ExpiresAt.Time, time.Minute)
}

func TestJWTService_VerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTService("secret-a").Issue(uuid.New(), "customer")
	assert.NoError(t, err)

	_, err = NewJWTService("secret-b").Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_VerifyRejectsExpired(t *testing.T) {
	secret := "test-secret"
	claims := &Claims{
		UserID: uuid.New(),
		Role:   "customer",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	assert.NoError(t, err)

	_, err = NewJWTService(secret).Verify(expired)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestParseBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing scheme", header: "abc.def.ghi", wantErr: apperrors.ErrMalformedToken},
		{name: "wrong scheme", header: "Basic abc", wantErr: apperrors.ErrMalformedToken},
		{name: "empty token", header: "Bearer ", wantErr: apperrors.ErrMalformedToken},
		{name: "empty header", header: "", wantErr: apperrors.ErrMalformedToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ParseBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}
