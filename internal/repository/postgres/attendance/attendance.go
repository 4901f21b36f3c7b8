package attendance

import (
	"context"
	"database/sql"
	"net/http"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/entity"
	"lunch/backend/internal/pkg/repository/postgresql"
	"lunch/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Repository struct {
	*postgresql.Database
	rules   Rules
	redisDB *redis.Client
}

func NewRepository(database *postgresql.Database, rules Rules, redisDB *redis.Client) *Repository {
	return &Repository{Database: database, rules: rules, redisDB: redisDB}
}

// Mark upserts the caller's declaration for a day. One row per (user, day) is
// guaranteed by the unique constraint; concurrent marks for the same key are
// serialized by the ON CONFLICT upsert, not by in-process locks.
func (r Repository) Mark(ctx context.Context, request MarkRequest) (MarkResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return MarkResponse{}, err
	}

	if err := r.ValidateStruct(&request, "UserID", "Date", "Status"); err != nil {
		return MarkResponse{}, err
	}

	if err := r.canActFor(claims, *request.UserID); err != nil {
		return MarkResponse{}, err
	}

	if !entity.ValidStatus(*request.Status) {
		return MarkResponse{}, web.NewRequestError(errors.Errorf("unknown status: %s", *request.Status), http.StatusBadRequest)
	}

	day, err := r.rules.ParseDay(*request.Date)
	if err != nil {
		return MarkResponse{}, err
	}

	if err := r.rules.CheckMarkDay(day); err != nil {
		return MarkResponse{}, err
	}

	if err := r.checkUserActive(ctx, *request.UserID); err != nil {
		return MarkResponse{}, err
	}

	// Same clock as the cutoff decision above.
	now := r.rules.now()

	var response MarkResponse
	response.UserID = request.UserID
	response.WorkDay = day.Format(dayLayout)
	response.Status = request.Status
	response.MarkedAt = now
	response.CreatedAt = now
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).
		On("CONFLICT (user_id, work_day) DO UPDATE").
		Set("status = EXCLUDED.status").
		Set("marked_at = EXCLUDED.marked_at").
		Set("updated_at = EXCLUDED.marked_at").
		Set("updated_by = ?", claims.UserId).
		Returning("id").
		Exec(ctx, &response.ID)
	if err != nil {
		return MarkResponse{}, web.NewRequestError(errors.Wrap(err, "upserting attendance"), http.StatusInternalServerError)
	}

	r.invalidateCount(ctx, response.WorkDay)

	return response, nil
}

// GetAttendance returns the record for a single day, or nil when unmarked.
func (r Repository) GetAttendance(ctx context.Context, userID int, day string) (*Record, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}
	if err := r.canActFor(claims, userID); err != nil {
		return nil, err
	}

	if _, err := r.rules.ParseDay(day); err != nil {
		return nil, err
	}

	return r.getRecord(ctx, userID, day)
}

// GetHistory returns a user's records for a range, newest first, plus the
// per-status summary. An empty range yields an empty list, not an error.
func (r Repository) GetHistory(ctx context.Context, userID int, filter Filter) ([]Record, Summary, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, Summary{}, err
	}
	if err := r.canActFor(claims, userID); err != nil {
		return nil, Summary{}, err
	}

	query := `
		SELECT
			a.id,
			a.user_id,
			a.work_day::text,
			a.status,
			a.marked_at
		FROM attendance a
		WHERE a.deleted_at IS NULL AND a.user_id = ?`
	args := []interface{}{userID}

	if filter.From != nil {
		if _, err := r.rules.ParseDay(*filter.From); err != nil {
			return nil, Summary{}, err
		}
		query += ` AND a.work_day >= ?`
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		if _, err := r.rules.ParseDay(*filter.To); err != nil {
			return nil, Summary{}, err
		}
		query += ` AND a.work_day <= ?`
		args = append(args, *filter.To)
	}
	query += ` ORDER BY a.work_day DESC`

	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, Summary{}, web.NewRequestError(errors.Wrap(err, "selecting attendance history"), http.StatusInternalServerError)
	}
	defer rows.Close()

	list := []Record{}
	var summary Summary

	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, Summary{}, err
		}

		summary.TotalDays++
		switch record.Status {
		case entity.StatusOffice:
			summary.OfficeDays++
		case entity.StatusHome:
			summary.HomeDays++
		case entity.StatusLeave:
			summary.LeaveDays++
		}

		list = append(list, *record)
	}
	if err = rows.Err(); err != nil {
		return nil, Summary{}, web.NewRequestError(errors.Wrap(err, "reading attendance history"), http.StatusInternalServerError)
	}

	return list, summary, nil
}

// ResolveToday computes the effective status for today. After the cutoff an
// unmarked day is filled by carrying forward the most recent explicit status
// (falling back to the configured default) and the result is persisted so
// reports and the audit trail agree.
func (r Repository) ResolveToday(ctx context.Context, userID int) (TodayResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return TodayResponse{}, err
	}
	if err := r.canActFor(claims, userID); err != nil {
		return TodayResponse{}, err
	}

	now := r.rules.now()
	today := now.Format(dayLayout)

	record, err := r.getRecord(ctx, userID, today)
	if err != nil {
		return TodayResponse{}, err
	}
	if record != nil {
		return TodayResponse{WorkDay: today, Status: &record.Status, Source: "marked"}, nil
	}

	if isWeekend(now) {
		return TodayResponse{WorkDay: today, Source: "weekend"}, nil
	}

	if !r.rules.AfterCutoff(now) {
		return TodayResponse{WorkDay: today, Source: "unset"}, nil
	}

	status := r.rules.DefaultStatus
	source := "default"

	var previous string
	err = r.QueryRowContext(ctx, `
		SELECT status FROM attendance
		WHERE deleted_at IS NULL AND user_id = ? AND work_day < ?
		ORDER BY work_day DESC
		LIMIT 1`, userID, today).Scan(&previous)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return TodayResponse{}, web.NewRequestError(errors.Wrap(err, "selecting previous status"), http.StatusInternalServerError)
	default:
		status = previous
		source = "carried_forward"
	}

	assigned := MarkResponse{
		UserID:    &userID,
		WorkDay:   today,
		Status:    &status,
		MarkedAt:  now,
		CreatedAt: now,
		CreatedBy: claims.UserId,
	}
	// DO NOTHING keeps a concurrently marked record authoritative.
	_, err = r.NewInsert().Model(&assigned).
		On("CONFLICT (user_id, work_day) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return TodayResponse{}, web.NewRequestError(errors.Wrap(err, "persisting resolved status"), http.StatusInternalServerError)
	}

	r.invalidateCount(ctx, today)

	return TodayResponse{WorkDay: today, Status: &status, Source: source}, nil
}

func (r Repository) canActFor(claims auth.Claims, userID int) error {
	if claims.UserId == userID || claims.Role == auth.RoleAdmin {
		return nil
	}
	return web.NewRequestError(errors.New("attempted action is not allowed"), http.StatusForbidden)
}

func (r Repository) checkUserActive(ctx context.Context, userID int) error {
	active := false
	err := r.QueryRowContext(ctx,
		`SELECT is_active FROM users WHERE id = ? AND deleted_at IS NULL`, userID).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		return web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking user"), http.StatusInternalServerError)
	}
	if !active {
		return web.NewRequestError(errors.New("user is not active"), http.StatusBadRequest)
	}
	return nil
}

func (r Repository) getRecord(ctx context.Context, userID int, day string) (*Record, error) {
	var row entity.Attendance

	err := r.NewSelect().Model(&row).
		Where("deleted_at IS NULL AND user_id = ? AND work_day = ?", userID, day).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}

	record := Record{ID: row.ID}
	if row.UserID != nil {
		record.UserID = *row.UserID
	}
	if row.Status != nil {
		record.Status = *row.Status
	}
	if row.MarkedAt != nil {
		record.MarkedAt = *row.MarkedAt
	}
	if row.WorkDay != nil {
		workDay := date.Date{Time: *row.WorkDay}
		record.WorkDay = &workDay
	}
	return &record, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var record Record
	var workDayString string

	if err := row.Scan(
		&record.ID,
		&record.UserID,
		&workDayString,
		&record.Status,
		&record.MarkedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, web.NewRequestError(errors.Wrap(err, "scanning attendance"), http.StatusInternalServerError)
	}

	workDay, err := date.ParseDate(workDayString)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusInternalServerError)
	}
	record.WorkDay = &workDay

	return &record, nil
}

func (r Repository) invalidateCount(ctx context.Context, day string) {
	if r.redisDB != nil {
		r.redisDB.Del(ctx, postgres.OfficeCountCacheKey(day))
	}
}
