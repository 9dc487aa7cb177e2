package pms

import (
	"errors"
	"net/http"
)

var _ error = &Error{}

// Error is a non-200 response from the media server.
type Error struct {
	StatusCode int
	Status     string
}

func (e *Error) Error() string {
	return e.Status
}

// IsUnauthorized reports whether err is a media-server response indicating an
// expired or invalid token.
func IsUnauthorized(err error) bool {
	return isStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a media-server response denying access to
// the resource.
func IsForbidden(err error) bool {
	return isStatus(err, http.StatusForbidden)
}

// IsNotFound reports whether err is a media-server response for a missing
// resource.
func IsNotFound(err error) bool {
	return isStatus(err, http.StatusNotFound)
}

func isStatus(err error, statusCode int) bool {
	var e *Error
	return errors.As(err, &e) && e.StatusCode == statusCode
}

var _ error = &ErrInvalidJSON{}

// ErrInvalidJSON indicates the server returned a response that could not be parsed.
// Body contains the response received.
type ErrInvalidJSON struct {
	Err  error
	Body []byte
}

func (e *ErrInvalidJSON) Error() string {
	return "parse: " + e.Err.Error()
}

func (e *ErrInvalidJSON) Is(target error) bool {
	var err *ErrInvalidJSON
	return errors.As(target, &err)
}

func (e *ErrInvalidJSON) Unwrap() error {
	return e.Err
}
