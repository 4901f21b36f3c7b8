package report

import (
	"context"

	"lunch/backend/internal/repository/postgres/report"
)

type Report interface {
	DailyOfficeCount(ctx context.Context, day string) (int, error)
	Trend(ctx context.Context, from, to string) ([]report.TrendPoint, error)
	AdminReport(ctx context.Context, from, to string) (report.ReportResponse, error)
}
