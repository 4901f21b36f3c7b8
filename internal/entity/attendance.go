package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Statuses an employee may declare for a work day.
const (
	StatusOffice = "office"
	StatusHome   = "home"
	StatusLeave  = "leave"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusOffice, StatusHome, StatusLeave:
		return true
	}
	return false
}

type Attendance struct {
	bun.BaseModel `bun:"table:attendance"`

	BasicEntity
	UserID   *int       `json:"user_id"   bun:"user_id"`
	WorkDay  *time.Time `json:"date"      bun:"work_day"`
	Status   *string    `json:"status"    bun:"status"`
	MarkedAt *time.Time `json:"marked_at" bun:"marked_at"`
}
