package notification

import (
	"context"
	"fmt"
	"net/http"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/entity"
	"lunch/backend/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// Append records a dispatch attempt. The table is an audit trail: no claims
// (the scheduler has no caller), no updates, no deletes.
func (r Repository) Append(ctx context.Context, entry entity.Notification) error {
	_, err := r.NewInsert().Model(&entry).Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "appending notification log")
	}
	return nil
}

// HasForDay reports whether a notification of the given type was already
// attempted on a day. Used by the catch-up check on startup.
func (r Repository) HasForDay(ctx context.Context, day, notificationType string) (bool, error) {
	exists := false
	err := r.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM notifications
			WHERE type = ? AND sent_at::date = ?
		)`, notificationType, day).Scan(&exists)
	if err != nil {
		return false, errors.Wrap(err, "checking notification log")
	}
	return exists, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]entity.Notification, int, error) {
	_, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := "WHERE true"
	if filter.Status != nil {
		switch *filter.Status {
		case entity.NotificationSent, entity.NotificationFailed:
			whereQuery += fmt.Sprintf(" AND status = '%s'", *filter.Status)
		default:
			return nil, 0, web.NewRequestError(errors.Errorf("unknown status: %s", *filter.Status), http.StatusBadRequest)
		}
	}

	orderQuery := "ORDER BY sent_at DESC"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			id,
			type,
			recipient,
			content,
			office_count,
			sent_at,
			status
		FROM notifications
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting notifications"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []entity.Notification
	for rows.Next() {
		var entry entity.Notification
		if err = rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.Recipient,
			&entry.Content,
			&entry.OfficeCount,
			&entry.SentAt,
			&entry.Status); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning notification list"), http.StatusInternalServerError)
		}
		list = append(list, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "reading notification list"), http.StatusInternalServerError)
	}

	countQuery := fmt.Sprintf(`SELECT count(id) FROM notifications %s`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning notification count"), http.StatusInternalServerError)
	}

	return list, count, nil
}
