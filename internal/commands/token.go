package commands

import (
	"time"

	"lunch/backend/internal/auth"
	"lunch/backend/internal/repository/postgres/user"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

const (
	accessTokenTTL  = 2 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// GenToken issues an access/refresh token pair signed with the shared key.
func GenToken(claims user.AuthClaims, key string) (string, string, error) {
	now := time.Now()

	accessToken, err := signToken(auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(accessTokenTTL).Unix(),
		},
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   auth.TypeAccess,
	}, key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing access token")
	}

	refreshToken, err := signToken(auth.Claims{
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(refreshTokenTTL).Unix(),
		},
		UserId: claims.ID,
		Role:   claims.Role,
		Type:   auth.TypeRefresh,
	}, key)
	if err != nil {
		return "", "", errors.Wrap(err, "signing refresh token")
	}

	return accessToken, refreshToken, nil
}

// VerifyTokens checks a token pair for the refresh flow. The refresh token
// must be valid; the access token may be expired but must parse and match.
func VerifyTokens(accessToken, refreshToken, key string) (auth.Claims, auth.Claims, error) {
	refreshClaims, err := parseToken(refreshToken, key, false)
	if err != nil {
		return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "refresh token")
	}
	if refreshClaims.Type != auth.TypeRefresh {
		return auth.Claims{}, auth.Claims{}, errors.New("refresh token required")
	}

	accessClaims, err := parseToken(accessToken, key, true)
	if err != nil {
		return auth.Claims{}, auth.Claims{}, errors.Wrap(err, "access token")
	}
	if accessClaims.UserId != refreshClaims.UserId {
		return auth.Claims{}, auth.Claims{}, errors.New("token pair mismatch")
	}

	return accessClaims, refreshClaims, nil
}

func signToken(claims auth.Claims, key string) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
}

func parseToken(tokenStr, key string, allowExpired bool) (auth.Claims, error) {
	var claims auth.Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(key), nil
	})
	if err != nil {
		ve, ok := err.(*jwt.ValidationError)
		expiredOnly := ok && ve.Errors == jwt.ValidationErrorExpired
		if !(allowExpired && expiredOnly) {
			return auth.Claims{}, err
		}
		return claims, nil
	}
	if !token.Valid {
		return auth.Claims{}, errors.New("invalid token")
	}

	return claims, nil
}
