package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

func TestCLIError_Error(t *testing.T) {
	e := NewCLIError("something failed", "try again", errors.New("root cause"))
	if e.Error() != "something failed: root cause" {
		t.Errorf("Error() = %q", e.Error())
	}
	if e.ExitCode != 1 {
		t.Errorf("ExitCode = %d", e.ExitCode)
	}

	bare := NewCLIError("just a message", "", nil)
	if bare.Error() != "just a message" {
		t.Errorf("Error() = %q", bare.Error())
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	if !errors.Is(NewCLIError("outer", "", inner), inner) {
		t.Error("expected Unwrap to expose the inner error")
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantCode int
	}{
		{"empty sql", application.ErrEmptySQL, "no SQL statement given", ExitUsage},
		{"no connection", fmt.Errorf("analyze: %w", datasource.ErrNoConnection), "no connection configured", ExitUsage},
		{"not found", fmt.Errorf("%w: shop", datasource.ErrNotFound), "data source not found", 1},
		{"duplicate", datasource.ErrDuplicateName, "already in use", 1},
		{"validation", &datasource.ValidationError{Field: "password", Message: "password is required"}, "invalid password", ExitUsage},
		{"backend code", fmt.Errorf("analyze: %w", &backend.BackendError{Path: backend.PathAnalyze, Code: 500, Message: "boom"}), "code 500", 1},
		{"backend http", &backend.BackendError{Path: backend.PathHealth, HTTPStatus: 502, Message: "bad gateway"}, "HTTP 502", 1},
		{"payload", fmt.Errorf("x: %w", backend.ErrInvalidPayload), "unexpected response", 1},
		{"timeout", fmt.Errorf("x: %w", context.DeadlineExceeded), "timed out", ExitUnreachable},
		{"refused", errors.New("dial tcp 127.0.0.1:1: connect: connection refused"), "cannot reach backend", ExitUnreachable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mapped := MapError(tt.err)
			var cliErr *CLIError
			if !errors.As(mapped, &cliErr) {
				t.Fatalf("expected CLIError, got %T", mapped)
			}
			if !strings.Contains(cliErr.Message, tt.wantMsg) {
				t.Errorf("Message = %q, want containing %q", cliErr.Message, tt.wantMsg)
			}
			if cliErr.ExitCode != tt.wantCode {
				t.Errorf("ExitCode = %d, want %d", cliErr.ExitCode, tt.wantCode)
			}
			if cliErr.Hint == "" {
				t.Error("expected a hint")
			}
			if !errors.Is(mapped, tt.err) {
				t.Error("expected original error in chain")
			}
		})
	}
}

func TestMapError_PassThrough(t *testing.T) {
	if MapError(nil) != nil {
		t.Error("nil must stay nil")
	}
	plain := errors.New("plain")
	if MapError(plain) != plain {
		t.Error("unknown errors must pass through")
	}
	cliErr := NewCLIError("already mapped", "", nil)
	if MapError(cliErr) != error(cliErr) {
		t.Error("CLIErrors must pass through")
	}
}
