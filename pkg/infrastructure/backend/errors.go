package backend

import (
	"errors"
	"fmt"
)

// ErrInvalidPayload is returned when a successful response carries data of the wrong shape.
var ErrInvalidPayload = errors.New("backend: invalid response payload")

// CodeSuccess is the envelope code the backend uses for success.
const CodeSuccess = 200

// BackendError is returned when the backend answers with a failure code or a
// non-2xx HTTP status.
type BackendError struct {
	Path       string
	HTTPStatus int
	Code       int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("backend %s: code %d: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("backend %s: http status %d: %s", e.Path, e.HTTPStatus, e.Message)
}
