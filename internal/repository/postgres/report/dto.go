package report

type DailyCountResponse struct {
	Date        string `json:"date"`
	OfficeCount int    `json:"office_count"`
	Message     string `json:"message"`
}

type TrendPoint struct {
	Date        string `json:"date"`
	OfficeCount int    `json:"office_count"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type DailyStatusCount struct {
	Date   string `json:"date"`
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type UserSummaryRow struct {
	FullName   *string `json:"full_name"`
	Email      *string `json:"email"`
	TotalDays  int     `json:"total_days"`
	OfficeDays int     `json:"office_days"`
	HomeDays   int     `json:"home_days"`
	LeaveDays  int     `json:"leave_days"`
}

type Period struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type ReportResponse struct {
	Period       Period             `json:"period"`
	StatusCounts []StatusCount      `json:"status_counts"`
	DailyCounts  []DailyStatusCount `json:"daily_counts"`
	UserSummary  []UserSummaryRow   `json:"user_summary"`
}
