package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFillTrendZeroFillsGaps(t *testing.T) {
	from := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC)

	counts := map[string]int{
		"2024-01-08": 5,
		"2024-01-10": 3,
	}

	points := fillTrend(from, to, counts)

	require.Equal(t, []TrendPoint{
		{Date: "2024-01-08", OfficeCount: 5},
		{Date: "2024-01-09", OfficeCount: 0},
		{Date: "2024-01-10", OfficeCount: 3},
		{Date: "2024-01-11", OfficeCount: 0},
		{Date: "2024-01-12", OfficeCount: 0},
	}, points)
}

func TestFillTrendSingleDay(t *testing.T) {
	day := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

	points := fillTrend(day, day, map[string]int{"2024-01-08": 2})
	require.Equal(t, []TrendPoint{{Date: "2024-01-08", OfficeCount: 2}}, points)
}

func TestFillTrendEmptyRange(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	points := fillTrend(from, to, nil)
	require.NotNil(t, points)
	require.Empty(t, points)
}
