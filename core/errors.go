package core

import "github.com/pkg/errors"

// FieldError pins a validation failure to a named struct field.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field failures next to the underlying cause.
// Transport layers flatten Fields into the error payload.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error { return err.Err }

// shutdown signals an integrity problem the server cannot recover from.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err (or its cause) asks for a graceful stop.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
