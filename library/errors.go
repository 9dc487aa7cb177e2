package library

import (
	"errors"

	"github.com/clambin/plexmusic/pms"
)

var _ error = &FetchError{}

// FetchError wraps a failed library fetch with a message suitable for showing
// to the user. The underlying cause remains available through Unwrap.
type FetchError struct {
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	return e.Message
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func userFacingMessage(err error) string {
	switch {
	case pms.IsUnauthorized(err):
		return "authentication expired. Please sign in again"
	case pms.IsForbidden(err):
		return "access denied by the media server"
	case pms.IsNotFound(err):
		return "library not found on the media server"
	default:
		var serverErr *pms.Error
		if errors.As(err, &serverErr) {
			return "the media server returned an error: " + serverErr.Status
		}
		return "could not reach the media server"
	}
}
