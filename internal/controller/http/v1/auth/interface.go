package auth

import (
	"context"

	"lunch/backend/internal/entity"
	"lunch/backend/internal/repository/postgres/user"
)

type User interface {
	GetByEmail(ctx context.Context, email string) (entity.User, error)
	Register(ctx context.Context, request user.RegisterRequest) (user.RegisterResponse, error)
}
