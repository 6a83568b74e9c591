package service

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "complaint-analytics/pkg/errors"
)

func TestJWT_RoundTripCarriesIdentity(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken(42, "ward_officer", 3)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, "ward_officer", claims.Role)
	assert.Equal(t, uint64(3), claims.WardID)
	assert.Equal(t, time.Hour, svc.GetAccessTokenTTL())
}

func TestJWT_Expired(t *testing.T) {
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := &jwtService{SecretKey: "secret", AccessTokenExp: time.Minute, now: func() time.Time { return issued }}
	token, err := svc.GenerateToken(1, "admin", 0)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWT_ForeignSecretIsInvalid(t *testing.T) {
	token, err := NewJWTService("other", time.Hour).GenerateToken(1, "admin", 0)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestJWT_RejectsNonHMAC(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, &JwtCustomClaim{UserID: 1, Role: "admin"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTService("secret", time.Hour).ValidateToken(signed)
	assert.Error(t, err)
}
