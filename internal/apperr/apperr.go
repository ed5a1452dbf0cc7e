package apperr

import "errors"

// Sentinel kinds. Their text doubles as the stable machine-readable
// "error" field in JSON responses.
var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidInput    = errors.New("invalid_input")
	ErrTooLarge        = errors.New("payload_too_large")
	ErrConflict        = errors.New("conflict")
)

type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// Wrap attaches a human-readable message to one of the kind sentinels,
// so errors.Is still matches the kind.
func Wrap(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Kind returns the wire identifier for err, or "" if err carries no
// known kind (treated as an internal error by the HTTP layer).
func Kind(err error) string {
	for _, k := range []error{
		ErrUnauthenticated, ErrForbidden, ErrNotFound,
		ErrInvalidInput, ErrTooLarge, ErrConflict,
	} {
		if errors.Is(err, k) {
			return k.Error()
		}
	}
	return ""
}
