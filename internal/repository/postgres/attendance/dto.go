package attendance

import (
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/uptrace/bun"
)

type Filter struct {
	From *string
	To   *string
}

type MarkRequest struct {
	UserID *int    `json:"user_id" form:"user_id"`
	Date   *string `json:"date" form:"date"`
	Status *string `json:"status" form:"status"`
}

type MarkResponse struct {
	bun.BaseModel `bun:"table:attendance"`

	ID        int       `json:"id" bun:"-"`
	UserID    *int      `json:"user_id" bun:"user_id"`
	WorkDay   string    `json:"date" bun:"work_day"`
	Status    *string   `json:"status" bun:"status"`
	MarkedAt  time.Time `json:"marked_at" bun:"marked_at"`
	CreatedAt time.Time `json:"-" bun:"created_at"`
	CreatedBy int       `json:"-" bun:"created_by"`
}

type Record struct {
	ID       int        `json:"id"`
	UserID   int        `json:"user_id"`
	WorkDay  *date.Date `json:"date"`
	Status   string     `json:"status"`
	MarkedAt time.Time  `json:"marked_at"`
}

// Summary aggregates a history range by status.
type Summary struct {
	TotalDays  int `json:"total_days"`
	OfficeDays int `json:"office_days"`
	HomeDays   int `json:"home_days"`
	LeaveDays  int `json:"leave_days"`
}

// TodayResponse is the resolved status for today. Source is "marked" when an
// explicit record exists, "carried_forward" or "default" when the post-cutoff
// policy filled it in, "unset" before the cutoff and "weekend" on weekends.
type TodayResponse struct {
	WorkDay string  `json:"date"`
	Status  *string `json:"status"`
	Source  string  `json:"source"`
}
