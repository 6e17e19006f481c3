package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// Exit codes beyond the generic failure.
const (
	ExitUsage       = 2
	ExitUnreachable = 3
)

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var valErr *datasource.ValidationError
	if errors.As(err, &valErr) {
		e := NewCLIError("invalid "+valErr.Field, hintForField(valErr.Field), err)
		e.ExitCode = ExitUsage
		return e
	}

	var beErr *backend.BackendError
	if errors.As(err, &beErr) {
		if beErr.Code != 0 {
			return NewCLIError(
				fmt.Sprintf("backend rejected the request (code %d)", beErr.Code),
				"Check the statement and credentials; run 'sqlscore connect' to test the connection",
				err,
			)
		}
		return NewCLIError(
			fmt.Sprintf("backend answered with HTTP %d", beErr.HTTPStatus),
			"Check backend.url with 'sqlscore config show'",
			err,
		)
	}

	var netErr net.Error
	switch {
	case errors.Is(err, application.ErrEmptySQL):
		e := NewCLIError("no SQL statement given", "Pass --sql, --file, or pipe the statement on stdin", err)
		e.ExitCode = ExitUsage
		return e
	case errors.Is(err, datasource.ErrNoConnection):
		e := NewCLIError("no connection configured", "Pass --source or --url/--username/--password, or pick one with 'sqlscore source use'", err)
		e.ExitCode = ExitUsage
		return e
	case errors.Is(err, datasource.ErrNotFound):
		return NewCLIError("data source not found", "Run 'sqlscore source list' to see saved data sources", err)
	case errors.Is(err, datasource.ErrDuplicateName):
		return NewCLIError("data source name already in use", "Pick another --name or edit the existing source", err)
	case errors.Is(err, backend.ErrInvalidPayload):
		return NewCLIError("unexpected response from backend", "Check that backend.url points at the SQL analysis service", err)
	case errors.Is(err, context.DeadlineExceeded):
		e := NewCLIError("backend timed out", "Raise the limit with 'sqlscore config set backend.timeout 60s'", err)
		e.ExitCode = ExitUnreachable
		return e
	case errors.As(err, &netErr), isConnRefused(err):
		e := NewCLIError("cannot reach backend", "Start the backend or set SQLSCORE_BACKEND_URL / 'sqlscore config set backend.url <url>'", err)
		e.ExitCode = ExitUnreachable
		return e
	}

	return err
}

func hintForField(field string) string {
	switch field {
	case "url":
		return "Use a MySQL JDBC URL such as jdbc:mysql://localhost:3306/shop"
	case "name":
		return "Give the data source a --name"
	default:
		return fmt.Sprintf("Pass --%s", field)
	}
}

// isConnRefused catches transport errors that lost their type while being wrapped.
func isConnRefused(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "connection refused") || strings.Contains(msg, "no such host")
}
