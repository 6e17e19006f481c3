package datasource

import "errors"

var (
	// ErrNotFound indicates no data source matches the given ID or name.
	ErrNotFound = errors.New("data source not found")

	// ErrDuplicateName indicates another data source already uses the name.
	ErrDuplicateName = errors.New("data source name already in use")

	// ErrNoConnection indicates no connection was given and none was used before.
	ErrNoConnection = errors.New("no connection configured")
)

// ValidationError describes a missing or malformed field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
