package attendance

import (
	"context"

	"lunch/backend/internal/repository/postgres/attendance"
)

type Attendance interface {
	Mark(ctx context.Context, request attendance.MarkRequest) (attendance.MarkResponse, error)
	GetAttendance(ctx context.Context, userID int, day string) (*attendance.Record, error)
	GetHistory(ctx context.Context, userID int, filter attendance.Filter) ([]attendance.Record, attendance.Summary, error)
	ResolveToday(ctx context.Context, userID int) (attendance.TodayResponse, error)
}
