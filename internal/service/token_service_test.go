package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret-key-for-unit-tests"

func TestJWTTokenService_GenerateAndValidate(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "payflow")

	tokenStr, expiresAt, err := svc.Generate("ops-alice")
	require.NoError(t, err)
	assert.NotEmpty(t, tokenStr)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(tokenStr)
	require.NoError(t, err)
	assert.Equal(t, "ops-alice", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
}

func TestJWTTokenService_ExpiredToken(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, -1*time.Hour, "payflow")

	tokenStr, _, err := svc.Generate("ops")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err, "expired token should fail validation")
}

func TestJWTTokenService_InvalidSignature(t *testing.T) {
	svc1 := NewJWTTokenService("secret-1", 24*time.Hour, "payflow")
	svc2 := NewJWTTokenService("secret-2", 24*time.Hour, "payflow")

	tokenStr, _, err := svc1.Generate("ops")
	require.NoError(t, err)

	_, err = svc2.Validate(tokenStr)
	assert.Error(t, err, "token signed with different secret should fail")
}

func TestJWTTokenService_WrongIssuer(t *testing.T) {
	other := NewJWTTokenService(testJWTSecret, time.Hour, "someone-else")
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "payflow")

	tokenStr, _, err := other.Generate("ops")
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, time.Hour, "payflow")

	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ops", "iss": "payflow"})
	tokenStr, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Validate(tokenStr)
	assert.Error(t, err)
}

func TestJWTTokenService_InvalidTokenString(t *testing.T) {
	svc := NewJWTTokenService(testJWTSecret, 24*time.Hour, "payflow")

	_, err := svc.Validate("not.a.valid.jwt")
	assert.Error(t, err)

	_, err = svc.Validate("")
	assert.Error(t, err)
}
