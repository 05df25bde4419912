package httperror

import (
	"fmt"
	"net/http"
)

// Error is returned by handlers and rendered by the HTTP adapter as
// {"code", "message", "details"} with Status as the response status.
type Error struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *Error) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(status int, code, message string, details any) *Error {
	return &Error{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

func NoContent(code, message string, details any) *Error {
	return New(http.StatusNoContent, code, message, details)
}

func BadRequest(code, message string, details any) *Error {
	return New(http.StatusBadRequest, code, message, details)
}

func Unauthorized(code, message string, details any) *Error {
	return New(http.StatusUnauthorized, code, message, details)
}

func Forbidden(code, message string, details any) *Error {
	return New(http.StatusForbidden, code, message, details)
}

func NotFound(code, message string, details any) *Error {
	return New(http.StatusNotFound, code, message, details)
}

func InternalServerError(code, message string, details any) *Error {
	return New(http.StatusInternalServerError, code, message, details)
}
