package user

import (
	"context"

	"lunch/backend/internal/repository/postgres/user"
)

type User interface {
	GetList(ctx context.Context, filter user.Filter) ([]user.GetListResponse, int, error)
	Delete(ctx context.Context, id int) error
}
