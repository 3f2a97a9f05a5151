package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "inventory-system/pkg/errors"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	token, err := svc.GenerateToken(7, "manager", "sess-1")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "sess-1", claims.SessionID)
	assert.Equal(t, time.Hour, svc.GetTokenTTL())
}

func TestJWTService_Expired(t *testing.T) {
	svc := &jwtService{secretKey: "s", tokenTTL: time.Minute, now: func() time.Time {
		return time.Now().Add(-2 * time.Hour)
	}}
	token, err := svc.GenerateToken(1, "viewer", "sess")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_WrongSecret(t *testing.T) {
	token, err := NewJWTService("one", time.Hour).GenerateToken(1, "viewer", "sess")
	require.NoError(t, err)

	_, err = NewJWTService("two", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWTService_RejectsNoneAlgorithm(t *testing.T) {
	claims := &JwtCustomClaim{UserID: 1, SessionID: "sess"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("s", time.Hour).ValidateToken(token)
	assert.Error(t, err)
}
