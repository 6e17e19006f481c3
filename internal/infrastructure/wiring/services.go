package wiring

import (
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/config"
	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

// AppServices exposes the application layer services wired together with a workspace.
type AppServices struct {
	Workspace *Workspace
	Config    *config.Config
	Gateway   *backend.Client
	Sources   *application.DataSourceService
	Analysis  *application.AnalysisService
}

// BuildAppServices wires the services for the sqlscore home at root.
// An unreadable config falls back to the defaults; the returned error then
// describes the problem while the services remain usable.
func BuildAppServices(root string, logger *slog.Logger) (*AppServices, error) {
	if logger == nil {
		logger = slog.Default()
	}
	workspace := NewWorkspace(root)

	cfg, err := config.Load(root)
	var loadErr error
	if err != nil {
		loadErr = fmt.Errorf("config fallback to defaults: %w", err)
		cfg = config.Default()
	}

	gateway := NewGateway(cfg, logger)
	sources := application.NewDataSourceService(workspace.Repo)

	return &AppServices{
		Workspace: workspace,
		Config:    cfg,
		Gateway:   gateway,
		Sources:   sources,
		Analysis:  application.NewAnalysisService(gateway, sources, logger),
	}, loadErr
}
