package report

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/auth"
	"lunch/backend/internal/entity"
	"lunch/backend/internal/pkg/repository/postgresql"
	"lunch/backend/internal/repository/postgres"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const dayLayout = "2006-01-02"

type Repository struct {
	*postgresql.Database
	redisDB  *redis.Client
	cacheTTL time.Duration
	location *time.Location
}

func NewRepository(database *postgresql.Database, redisDB *redis.Client, cacheTTL time.Duration, location *time.Location) *Repository {
	return &Repository{Database: database, redisDB: redisDB, cacheTTL: cacheTTL, location: location}
}

// DailyOfficeCount is the number of users marked office for a day. It is
// called by the scheduler without request claims, so access control lives at
// the route layer. The count is cached briefly in redis; cache failures fall
// back to the database.
func (r Repository) DailyOfficeCount(ctx context.Context, day string) (int, error) {
	if _, err := time.ParseInLocation(dayLayout, day, r.location); err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "invalid date format, want YYYY-MM-DD"), http.StatusBadRequest)
	}

	if r.redisDB != nil {
		if cached, err := r.redisDB.Get(ctx, postgres.OfficeCountCacheKey(day)).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count := 0
	err := r.QueryRowContext(ctx, `
		SELECT count(*) FROM attendance
		WHERE deleted_at IS NULL AND work_day = ? AND status = 'office'`, day).Scan(&count)
	if err != nil {
		return 0, web.NewRequestError(errors.Wrap(err, "counting office attendance"), http.StatusInternalServerError)
	}

	if r.redisDB != nil {
		r.redisDB.Set(ctx, postgres.OfficeCountCacheKey(day), strconv.Itoa(count), r.cacheTTL)
	}

	return count, nil
}

// Trend returns per-day office counts over a window, zero-filled for days
// with no records.
func (r Repository) Trend(ctx context.Context, from, to string) ([]TrendPoint, error) {
	if _, err := r.CheckClaims(ctx, auth.RoleAdmin, auth.RoleChef); err != nil {
		return nil, err
	}

	fromDay, err := time.ParseInLocation(dayLayout, from, r.location)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "invalid from date"), http.StatusBadRequest)
	}
	toDay, err := time.ParseInLocation(dayLayout, to, r.location)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "invalid to date"), http.StatusBadRequest)
	}
	if toDay.Before(fromDay) {
		return nil, web.NewRequestError(errors.New("to date precedes from date"), http.StatusBadRequest)
	}

	rows, err := r.QueryContext(ctx, `
		SELECT work_day::text, count(*)
		FROM attendance
		WHERE deleted_at IS NULL AND status = 'office' AND work_day BETWEEN ? AND ?
		GROUP BY work_day`, from, to)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting trend"), http.StatusInternalServerError)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var day string
		var count int
		if err = rows.Scan(&day, &count); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning trend"), http.StatusInternalServerError)
		}
		counts[day] = count
	}
	if err = rows.Err(); err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "reading trend"), http.StatusInternalServerError)
	}

	return fillTrend(fromDay, toDay, counts), nil
}

// fillTrend materializes one point per day so charts never see gaps.
func fillTrend(from, to time.Time, counts map[string]int) []TrendPoint {
	points := []TrendPoint{}
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		points = append(points, TrendPoint{Date: key, OfficeCount: counts[key]})
	}
	return points
}

// AdminReport aggregates a date range: totals per status, per-day breakdown
// and a per-employee summary with zero-filled status counters.
func (r Repository) AdminReport(ctx context.Context, from, to string) (ReportResponse, error) {
	if _, err := r.CheckClaims(ctx, auth.RoleAdmin); err != nil {
		return ReportResponse{}, err
	}

	for _, day := range []string{from, to} {
		if _, err := time.ParseInLocation(dayLayout, day, r.location); err != nil {
			return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "invalid date format, want YYYY-MM-DD"), http.StatusBadRequest)
		}
	}

	response := ReportResponse{
		Period:       Period{StartDate: from, EndDate: to},
		StatusCounts: []StatusCount{},
		DailyCounts:  []DailyStatusCount{},
		UserSummary:  []UserSummaryRow{},
	}

	statusRows, err := r.QueryContext(ctx, `
		SELECT status, count(*)
		FROM attendance
		WHERE deleted_at IS NULL AND work_day BETWEEN ? AND ?
		GROUP BY status`, from, to)
	if err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "selecting status counts"), http.StatusInternalServerError)
	}
	defer statusRows.Close()

	got := map[string]int{}
	for statusRows.Next() {
		var sc StatusCount
		if err = statusRows.Scan(&sc.Status, &sc.Count); err != nil {
			return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "scanning status counts"), http.StatusInternalServerError)
		}
		got[sc.Status] = sc.Count
	}
	if err = statusRows.Err(); err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "reading status counts"), http.StatusInternalServerError)
	}
	for _, status := range []string{entity.StatusOffice, entity.StatusHome, entity.StatusLeave} {
		response.StatusCounts = append(response.StatusCounts, StatusCount{Status: status, Count: got[status]})
	}

	dailyRows, err := r.QueryContext(ctx, `
		SELECT work_day::text, status, count(*)
		FROM attendance
		WHERE deleted_at IS NULL AND work_day BETWEEN ? AND ?
		GROUP BY work_day, status
		ORDER BY work_day DESC`, from, to)
	if err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "selecting daily counts"), http.StatusInternalServerError)
	}
	defer dailyRows.Close()

	for dailyRows.Next() {
		var dc DailyStatusCount
		if err = dailyRows.Scan(&dc.Date, &dc.Status, &dc.Count); err != nil {
			return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "scanning daily counts"), http.StatusInternalServerError)
		}
		response.DailyCounts = append(response.DailyCounts, dc)
	}
	if err = dailyRows.Err(); err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "reading daily counts"), http.StatusInternalServerError)
	}

	summaryQuery := fmt.Sprintf(`
		SELECT
			u.full_name,
			u.email,
			count(a.id) AS total_days,
			count(*) FILTER (WHERE a.status = 'office') AS office_days,
			count(*) FILTER (WHERE a.status = 'home') AS home_days,
			count(*) FILTER (WHERE a.status = 'leave') AS leave_days
		FROM users u
		LEFT JOIN attendance a
			ON a.user_id = u.id
			AND a.deleted_at IS NULL
			AND a.work_day BETWEEN '%s' AND '%s'
		WHERE u.deleted_at IS NULL AND u.role = 'EMPLOYEE'
		GROUP BY u.id
		ORDER BY u.full_name`, from, to)

	summaryRows, err := r.QueryContext(ctx, summaryQuery)
	if err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user summary"), http.StatusInternalServerError)
	}
	defer summaryRows.Close()

	for summaryRows.Next() {
		var row UserSummaryRow
		if err = summaryRows.Scan(
			&row.FullName,
			&row.Email,
			&row.TotalDays,
			&row.OfficeDays,
			&row.HomeDays,
			&row.LeaveDays); err != nil {
			return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "scanning user summary"), http.StatusInternalServerError)
		}
		response.UserSummary = append(response.UserSummary, row)
	}
	if err = summaryRows.Err(); err != nil {
		return ReportResponse{}, web.NewRequestError(errors.Wrap(err, "reading user summary"), http.StatusInternalServerError)
	}

	return response, nil
}
