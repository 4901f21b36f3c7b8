package entity

import (
	"github.com/uptrace/bun"
)

type User struct {
	bun.BaseModel `bun:"table:users"`

	BasicEntity
	Email    *string `json:"email"      bun:"email"`
	Password *string `json:"password"   bun:"password"`
	FullName *string `json:"full_name"  bun:"full_name"`
	Role     *string `json:"role"       bun:"role"`
	IsActive *bool   `json:"is_active"  bun:"is_active"`
}
