package auth

import (
	"net/http"

	"lunch/backend/foundation/web"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

type ctxKey int

// Key is how request claims are stored/retrieved from a context.Context.
const Key ctxKey = 1

const (
	RoleAdmin    = "ADMIN"
	RoleEmployee = "EMPLOYEE"
	RoleChef     = "CHEF"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

type Claims struct {
	jwt.StandardClaims
	UserId int    `json:"user_id"`
	Role   string `json:"role"`
	Type   string `json:"type"`
}

// Authorized reports whether the claims carry one of the given roles.
func (c Claims) Authorized(roles ...string) bool {
	for _, role := range roles {
		if role == c.Role {
			return true
		}
	}
	return false
}

type Auth struct {
	key []byte
}

func New(key string) *Auth {
	return &Auth{key: []byte(key)}
}

func (a *Auth) ValidateToken(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return a.key, nil
	})
	if err != nil {
		return Claims{}, web.NewRequestError(errors.Wrap(err, "parsing token"), http.StatusUnauthorized)
	}
	if !token.Valid {
		return Claims{}, web.NewRequestError(errors.New("invalid token"), http.StatusUnauthorized)
	}
	if claims.Type != TypeAccess {
		return Claims{}, web.NewRequestError(errors.New("access token required"), http.StatusUnauthorized)
	}

	return claims, nil
}
