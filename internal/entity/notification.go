package entity

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	NotificationSent   = "sent"
	NotificationFailed = "failed"

	NotificationTypeDailyCount = "daily_count"
)

// Notification rows are an append-only audit trail; they are never updated
// or deleted and carry no foreign keys.
type Notification struct {
	bun.BaseModel `bun:"table:notifications"`

	ID          int       `json:"id"           bun:"id,pk,autoincrement"`
	Type        string    `json:"type"         bun:"type"`
	Recipient   string    `json:"recipient"    bun:"recipient"`
	Content     string    `json:"content"      bun:"content"`
	OfficeCount int       `json:"office_count" bun:"office_count"`
	SentAt      time.Time `json:"sent_at"      bun:"sent_at"`
	Status      string    `json:"status"       bun:"status"`
}
