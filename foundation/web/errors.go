package web

import "net/http"

// Machine-readable error kinds returned to API callers.
const (
	KindValidation     = "validation"
	KindCutoffExceeded = "cutoff_exceeded"
	KindNotFound       = "not_found"
	KindInternal       = "internal"
)

// Error wraps a cause with the HTTP status and kind the caller should see.
type Error struct {
	Err    error
	Status int
	Kind   string
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewRequestError derives the kind from the status. Use NewKindError when the
// status alone is not specific enough (e.g. cutoff violations).
func NewRequestError(err error, status int) error {
	return &Error{Err: err, Status: status, Kind: kindFromStatus(status)}
}

func NewKindError(err error, status int, kind string) error {
	return &Error{Err: err, Status: status, Kind: kind}
}

func kindFromStatus(status int) string {
	switch {
	case status == http.StatusNotFound:
		return KindNotFound
	case status >= 400 && status < 500:
		return KindValidation
	default:
		return KindInternal
	}
}
