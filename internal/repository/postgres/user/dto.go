package user

import (
	"time"

	"github.com/uptrace/bun"
)

type Filter struct {
	Limit  *int
	Offset *int
	Page   *int
	Search *string
}

type SignInRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type AuthClaims struct {
	ID   int
	Role string
}

type RefreshTokenRequest struct {
	AccessToken  string `json:"access_token" form:"access_token"`
	RefreshToken string `json:"refresh_token" form:"refresh_token"`
}

type GetListResponse struct {
	ID        int        `json:"id"`
	Email     *string    `json:"email"`
	FullName  *string    `json:"full_name"`
	Role      *string    `json:"role"`
	IsActive  *bool      `json:"is_active"`
	CreatedAt *time.Time `json:"created_at"`
}

type RegisterRequest struct {
	Email    *string `json:"email" form:"email"`
	Password *string `json:"password" form:"password"`
	FullName *string `json:"full_name" form:"full_name"`
	Role     *string `json:"role" form:"role"`
}

type RegisterResponse struct {
	bun.BaseModel `bun:"table:users"`

	ID        int       `json:"id" bun:"-"`
	Email     *string   `json:"email" bun:"email"`
	Password  *string   `json:"-" bun:"password"`
	FullName  *string   `json:"full_name" bun:"full_name"`
	Role      *string   `json:"role" bun:"role"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
}
