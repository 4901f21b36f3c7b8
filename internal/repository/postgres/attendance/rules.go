package attendance

import (
	"net/http"
	"time"

	"lunch/backend/foundation/web"
	"lunch/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

const dayLayout = "2006-01-02"

// Rules holds the clock-dependent marking policy. Now is injected so the
// cutoff logic is testable with a fixed clock.
type Rules struct {
	Location      *time.Location
	CutoffHour    int
	CutoffMinute  int
	DefaultStatus string
	Now           func() time.Time
}

func (r Rules) now() time.Time {
	if r.Now != nil {
		return r.Now().In(r.Location)
	}
	return time.Now().In(r.Location)
}

func (r Rules) today() time.Time {
	now := r.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, r.Location)
}

// AfterCutoff reports whether the instant is past the daily cutoff.
func (r Rules) AfterCutoff(at time.Time) bool {
	at = at.In(r.Location)
	cutoff := time.Date(at.Year(), at.Month(), at.Day(), r.CutoffHour, r.CutoffMinute, 0, 0, r.Location)
	return at.After(cutoff)
}

func isWeekend(day time.Time) bool {
	wd := day.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ParseDay parses a YYYY-MM-DD value in the configured location.
func (r Rules) ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, value, r.Location)
	if err != nil {
		return time.Time{}, web.NewRequestError(errors.Wrap(err, "invalid date format, want YYYY-MM-DD"), http.StatusBadRequest)
	}
	return day, nil
}

// CheckMarkDay enforces the marking window: the target must be a business
// day, must be today or tomorrow, and today freezes once the cutoff passes.
func (r Rules) CheckMarkDay(day time.Time) error {
	if isWeekend(day) {
		return web.NewRequestError(errors.New("cannot mark attendance on weekends"), http.StatusBadRequest)
	}

	today := r.today()
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case day.Equal(today):
		if r.AfterCutoff(r.now()) {
			return web.NewKindError(postgres.ErrCutoffExceeded, http.StatusConflict, web.KindCutoffExceeded)
		}
		return nil
	case day.Equal(tomorrow):
		return nil
	default:
		return web.NewRequestError(errors.New("date must be today or tomorrow"), http.StatusBadRequest)
	}
}
