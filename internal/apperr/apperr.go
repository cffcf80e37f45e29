// Package apperr defines the error taxonomy shared by the service layer.
// Each error carries the HTTP-style status the controller layer responds
// with; the services themselves only care about the category.
package apperr

import (
	"errors"
	"net/http"
)

// Error is a typed service failure with an HTTP-style status code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

// NotFound marks a referenced resource as absent.
func NotFound(msg string) *Error { return &Error{Code: http.StatusNotFound, Message: msg} }

// Forbidden marks an actor mutating a resource they do not own.
func Forbidden(msg string) *Error { return &Error{Code: http.StatusForbidden, Message: msg} }

// Conflict marks a duplicate unique value.
func Conflict(msg string) *Error { return &Error{Code: http.StatusConflict, Message: msg} }

// Unavailable marks an unreachable external collaborator (broker, cache).
func Unavailable(msg string) *Error {
	return &Error{Code: http.StatusServiceUnavailable, Message: msg}
}

// StatusOf extracts the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return http.StatusInternalServerError
}

// IsNotFound reports whether err is a NotFound error.
func IsNotFound(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == http.StatusNotFound
}
