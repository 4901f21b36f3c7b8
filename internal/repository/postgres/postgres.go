package postgres

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrNotFound       = errors.New("row not found")
	ErrCutoffExceeded = errors.New("attendance for today is frozen after the cutoff")
)

// OfficeCountCacheKey is shared between the report reads that fill the cache
// and the attendance writes that invalidate it.
func OfficeCountCacheKey(day string) string {
	return fmt.Sprintf("office_count:%s", day)
}
