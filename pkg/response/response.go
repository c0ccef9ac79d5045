package response

import (
	"errors"
	"net/http"
)

// Error is a sentinel that carries the HTTP status it maps to.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same status and message, so sentinels
// compare equal after being wrapped or rebuilt.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// StatusOf returns the status of the first *Error in err's chain, or 500.
func StatusOf(err error) int {
	var respErr *Error
	if errors.As(err, &respErr) && respErr.Code >= 400 && respErr.Code < 600 {
		return respErr.Code
	}
	return http.StatusInternalServerError
}
