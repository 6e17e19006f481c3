package mcp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/sqlscore/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/sqlscore/pkg/application"
)

type Server struct {
	mcpServer   *mcp.Server
	analysisSvc *application.AnalysisService
	sourceSvc   *application.DataSourceService
	logger      *slog.Logger
}

var (
	Version     = "dev"
	BuildCommit = "unknown"
	BuildDate   = "unknown"
)

// mcpErr returns a user-friendly error for MCP clients.
// Internal details are logged, not returned.
func mcpErr(friendly string) error {
	return fmt.Errorf("%s", friendly)
}

// NewServer wires the services for the sqlscore home at root.
func NewServer(root string, logger *slog.Logger) (*Server, error) {
	services, err := wiring.BuildAppServices(root, logger)
	if services == nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	if err != nil && logger != nil {
		logger.Warn("using default configuration", "error", err)
	}
	return NewServerWithServices(services, logger), nil
}

// NewServerWithServices exposes already wired services.
func NewServerWithServices(services *wiring.AppServices, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	info := mcp.ServerInfo{
		Name:    "sqlscore",
		Version: Version,
	}

	s := &Server{
		mcpServer: mcp.NewServer(info,
			mcp.WithTitle("sqlscore MCP Server"),
			mcp.WithDescription("sqlscore scores SQL statements against a remote analysis backend and explains the result."),
			mcp.WithWebsiteURL("https://github.com/felixgeelhaar/sqlscore"),
			mcp.WithBuildInfo(BuildCommit, BuildDate),
			mcp.WithInstructions("Use sqlscore_analyze with a saved data source or explicit JDBC credentials. Use sqlscore_parse_report to structure a report you already have."),
		),
		analysisSvc: services.Analysis,
		sourceSvc:   services.Sources,
		logger:      logger,
	}

	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) registerTools() {
	s.mcpServer.Tool("sqlscore_parse_report").
		Description("Parse a raw analysis report into its SQL ID, total score and matched rules").
		Handler(s.handleParseReport)

	s.mcpServer.Tool("sqlscore_analyze").
		Description("Score a SQL statement on the analysis backend and return the parsed report and EXPLAIN rows").
		Handler(s.handleAnalyze)

	s.mcpServer.Tool("sqlscore_test_connection").
		Description("Check that the backend can reach a database and describe it").
		Handler(s.handleTestConnection)

	s.mcpServer.Tool("sqlscore_list_data_sources").
		Description("List saved data sources with passwords masked").
		Handler(s.handleListDataSources)

	s.mcpServer.Tool("sqlscore_health").
		Description("Report whether the analysis backend is up").
		Handler(s.handleHealth)
}

func (s *Server) Start() error {
	return s.ServeStdio(context.Background())
}

func (s *Server) ServeStdio(ctx context.Context) error {
	return mcp.ServeStdio(ctx, s.mcpServer)
}

func (s *Server) ServeHTTP(ctx context.Context, addr string) error {
	return mcp.ServeHTTP(ctx, s.mcpServer, addr, mcp.WithDefaultCORS())
}

func (s *Server) ServeWebSocket(ctx context.Context, addr string) error {
	return mcp.ServeWebSocket(ctx, s.mcpServer, addr)
}
