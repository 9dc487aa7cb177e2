package plextv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrUnauthorized indicates that plex.tv could not authenticate the user.
	ErrUnauthorized = errors.New("user could not be authenticated")
	// ErrTooManyRequests indicates that the plex.tv API rate limit has been reached.
	ErrTooManyRequests = errors.New("too many requests")
)

var _ error = &Error{}

// Error is an error response from plex.tv.
type Error struct {
	errors     error
	Status     string
	Body       []byte
	StatusCode int
}

func (e *Error) Error() string {
	txt := e.Status
	if e.errors != nil {
		txt = e.errors.Error()
	}
	return "plex: " + txt
}

func (e *Error) Unwrap() error {
	return e.errors
}

var plexErrors = map[int]error{
	1001: ErrUnauthorized,
	1003: ErrTooManyRequests,
}

// ParseError parses the error body returned by plex.tv and returns an [Error].
func ParseError(r *http.Response) error {
	var errorBody struct {
		Error  string `json:"error"`
		Errors []struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
			Status  int    `json:"status"`
		} `json:"errors"`
	}

	var buf bytes.Buffer
	if r.Body != nil {
		_ = json.NewDecoder(io.TeeReader(r.Body, &buf)).Decode(&errorBody)
	}

	e := Error{
		StatusCode: r.StatusCode,
		Status:     r.Status,
		Body:       buf.Bytes(),
	}

	switch {
	case errorBody.Error != "":
		// single-message error
		e.errors = errors.New(errorBody.Error)
	case len(errorBody.Errors) > 0:
		// multi-message error
		errs := make([]error, len(errorBody.Errors))
		for i, entry := range errorBody.Errors {
			var ok bool
			if errs[i], ok = plexErrors[entry.Code]; !ok {
				errs[i] = fmt.Errorf("%d - %s", entry.Code, entry.Message)
			}
		}
		e.errors = errors.Join(errs...)
	}
	return &e
}
