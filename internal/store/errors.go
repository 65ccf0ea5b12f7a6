package store

import "fmt"

// Error is a persistence failure the service layer translates into a domain
// error. Copies made with WithCause still match their sentinel in errors.Is.
type Error struct {
	Reason string
	Err    error // Underlying driver error (optional)
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches sentinels by reason.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Reason == t.Reason
}

// WithCause attaches the driver error that produced e.
func (e *Error) WithCause(err error) *Error {
	return &Error{Reason: e.Reason, Err: err}
}

// Sentinel errors.
var (
	// ErrNotFound reports a missing row.
	ErrNotFound = &Error{Reason: "record not found"}

	// ErrAlreadyExists reports a primary key or unique index conflict.
	ErrAlreadyExists = &Error{Reason: "record already exists"}
)
