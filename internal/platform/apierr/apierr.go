package apierr

import (
	"fmt"
	"net/http"
)

// Error carries the HTTP status and machine code a handler answers with.
type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	if e.Code != "" {
		return e.Code
	}
	return fmt.Sprintf("api error (%d)", e.Status)
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// InvalidParam reports a malformed path or query parameter as invalid_<name>.
func InvalidParam(name string, err error) *Error {
	if err == nil {
		err = fmt.Errorf("invalid %s", name)
	}
	return New(http.StatusBadRequest, "invalid_"+name, err)
}
