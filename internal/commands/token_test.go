package commands

import (
	"testing"
	"time"

	"lunch/backend/internal/auth"
	"lunch/backend/internal/repository/postgres/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/require"
)

const testKey = "test-signing-key"

func TestGenTokenRoundTrip(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 42, Role: auth.RoleEmployee}, testKey)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	a := auth.New(testKey)
	claims, err := a.ValidateToken(access)
	require.NoError(t, err)
	require.Equal(t, 42, claims.UserId)
	require.Equal(t, auth.RoleEmployee, claims.Role)
	require.Equal(t, auth.TypeAccess, claims.Type)

	// The refresh token is not usable as an access token.
	_, err = a.ValidateToken(refresh)
	require.Error(t, err)
}

func TestVerifyTokens(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 7, Role: auth.RoleAdmin}, testKey)
	require.NoError(t, err)

	accessClaims, refreshClaims, err := VerifyTokens(access, refresh, testKey)
	require.NoError(t, err)
	require.Equal(t, 7, accessClaims.UserId)
	require.Equal(t, auth.TypeRefresh, refreshClaims.Type)
}

func TestVerifyTokensSwappedPair(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 7, Role: auth.RoleAdmin}, testKey)
	require.NoError(t, err)

	// Passing the access token where the refresh token belongs must fail.
	_, _, err = VerifyTokens(refresh, access, testKey)
	require.Error(t, err)
}

func TestVerifyTokensMismatchedUsers(t *testing.T) {
	access, _, err := GenToken(user.AuthClaims{ID: 1, Role: auth.RoleEmployee}, testKey)
	require.NoError(t, err)
	_, refresh, err := GenToken(user.AuthClaims{ID: 2, Role: auth.RoleEmployee}, testKey)
	require.NoError(t, err)

	_, _, err = VerifyTokens(access, refresh, testKey)
	require.Error(t, err)
}

func TestVerifyTokensExpiredAccess(t *testing.T) {
	now := time.Now()

	expiredAccess, err := signToken(auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Add(-3 * time.Hour).Unix(),
			ExpiresAt: now.Add(-time.Hour).Unix(),
		},
		UserId: 9,
		Role:   auth.RoleEmployee,
		Type:   auth.TypeAccess,
	}, testKey)
	require.NoError(t, err)

	_, refresh, err := GenToken(user.AuthClaims{ID: 9, Role: auth.RoleEmployee}, testKey)
	require.NoError(t, err)

	accessClaims, _, err := VerifyTokens(expiredAccess, refresh, testKey)
	require.NoError(t, err)
	require.Equal(t, 9, accessClaims.UserId)
}

func TestVerifyTokensWrongKey(t *testing.T) {
	access, refresh, err := GenToken(user.AuthClaims{ID: 3, Role: auth.RoleEmployee}, "other-key")
	require.NoError(t, err)

	_, _, err = VerifyTokens(access, refresh, testKey)
	require.Error(t, err)
}
