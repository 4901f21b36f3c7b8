package notification

import (
	"context"

	"lunch/backend/internal/entity"
	"lunch/backend/internal/repository/postgres/notification"
)

type Notification interface {
	GetList(ctx context.Context, filter notification.Filter) ([]entity.Notification, int, error)
}
