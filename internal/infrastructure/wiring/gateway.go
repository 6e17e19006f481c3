package wiring

import (
	"log/slog"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/config"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

// NewGateway builds the backend client described by cfg.
func NewGateway(cfg *config.Config, logger *slog.Logger) *backend.Client {
	return backend.NewClient(cfg.Backend.URL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithRetry(cfg.Backend.MaxAttempts, config.RetryDelay),
		backend.WithLogger(logger),
	)
}
