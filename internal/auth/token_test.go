package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/casework-service/internal/domain"
)

func TestTokenRoundTripStaff(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	role := domain.StaffRoleLawyer

	token, exp, err := tm.GenerateToken("staff-1", domain.SubjectTypeStaff, &role)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff-1", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeStaff, claims.Subject)
	require.NotNil(t, claims.Role)
	assert.Equal(t, domain.StaffRoleLawyer, *claims.Role)
}

func TestTokenRoundTripClient(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	token, _, err := tm.GenerateToken("client-1", domain.SubjectTypeClient, nil)
	require.NoError(t, err)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "client-1", claims.SubjectID)
	assert.Equal(t, domain.SubjectTypeClient, claims.Subject)
	assert.Nil(t, claims.Role)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("secret-a", 60).GenerateToken("staff-1", domain.SubjectTypeStaff, nil)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", 60).ParseToken(token)
	require.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("secret", 60)
	_, err := tm.ParseToken("not-a-token")
	require.Error(t, err)

	token, _, err := tm.GenerateToken("staff-1", domain.SubjectTypeStaff, nil)
	require.NoError(t, err)
	_, err = tm.ParseToken(token + "tampered")
	require.Error(t, err)
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	tm := NewTokenManager("secret", 60)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		SubjectID: "staff-1",
		Subject:   domain.SubjectTypeStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "some-other-service",
			Subject:   "staff-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	token, err := foreign.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	require.Error(t, err)
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter22", 4)
	require.NoError(t, err)
	require.NoError(t, ComparePassword(hash, "hunter22"))
	require.Error(t, ComparePassword(hash, "hunter23"))
}
