package mcp

import (
	"context"
	"errors"
	"strings"

	"github.com/felixgeelhaar/sqlscore/pkg/application"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
	"github.com/felixgeelhaar/sqlscore/pkg/infrastructure/backend"
)

type ParseReportArgs struct {
	Report string `json:"report" jsonschema:"required,description=Raw report text returned by the analysis backend"`
}

// ConnectionArgs selects a connection: a saved source, explicit credentials,
// or, when both are empty, the last-used connection.
type ConnectionArgs struct {
	Source   string `json:"source,omitempty" jsonschema:"description=ID or name of a saved data source"`
	URL      string `json:"url,omitempty" jsonschema:"description=JDBC URL such as jdbc:mysql://host:3306/db"`
	Username string `json:"username,omitempty" jsonschema:"description=Database user"`
	Password string `json:"password,omitempty" jsonschema:"description=Database password"`
}

type AnalyzeArgs struct {
	SQL      string `json:"sql" jsonschema:"required,description=The SQL statement to score"`
	Source   string `json:"source,omitempty" jsonschema:"description=ID or name of a saved data source"`
	URL      string `json:"url,omitempty" jsonschema:"description=JDBC URL such as jdbc:mysql://host:3306/db"`
	Username string `json:"username,omitempty" jsonschema:"description=Database user"`
	Password string `json:"password,omitempty" jsonschema:"description=Database password"`
}

func (a AnalyzeArgs) connection() ConnectionArgs {
	return ConnectionArgs{Source: a.Source, URL: a.URL, Username: a.Username, Password: a.Password}
}

type HealthStatus struct {
	Status  int  `json:"status"`
	Healthy bool `json:"healthy"`
}

func (s *Server) handleParseReport(ctx context.Context, args ParseReportArgs) (any, error) {
	return s.analysisSvc.ParseReport(args.Report).View(), nil
}

func (s *Server) handleAnalyze(ctx context.Context, args AnalyzeArgs) (any, error) {
	conn, err := s.connectionFor(args.connection())
	if err != nil {
		return nil, err
	}
	out, err := s.analysisSvc.Analyze(ctx, conn, args.SQL)
	if err != nil {
		s.logger.Debug("analyze failed", "error", err)
		return nil, friendly(err, "Failed to analyze the statement. Check the connection and that the backend is running.")
	}
	return out.View(), nil
}

func (s *Server) handleTestConnection(ctx context.Context, args ConnectionArgs) (any, error) {
	conn, err := s.connectionFor(args)
	if err != nil {
		return nil, err
	}
	meta, err := s.analysisSvc.TestConnection(ctx, conn)
	if err != nil {
		s.logger.Debug("test connection failed", "error", err)
		return nil, friendly(err, "Connection test failed. Check the JDBC URL and credentials.")
	}
	return meta, nil
}

func (s *Server) handleListDataSources(ctx context.Context, args struct{}) (any, error) {
	sources, err := s.sourceSvc.List()
	if err != nil {
		s.logger.Debug("list data sources failed", "error", err)
		return nil, mcpErr("Failed to load saved data sources.")
	}
	masked := make([]datasource.DataSource, 0, len(sources))
	for _, ds := range sources {
		masked = append(masked, ds.Masked())
	}
	return masked, nil
}

func (s *Server) handleHealth(ctx context.Context, args struct{}) (any, error) {
	status, err := s.analysisSvc.Health(ctx)
	if err != nil {
		s.logger.Debug("health check failed", "error", err)
		return nil, mcpErr("Analysis backend is unreachable.")
	}
	return HealthStatus{Status: status, Healthy: status == 200}, nil
}

func (s *Server) connectionFor(args ConnectionArgs) (datasource.Connection, error) {
	if src := strings.TrimSpace(args.Source); src != "" {
		ds, err := s.sourceSvc.Resolve(src)
		if err != nil {
			return datasource.Connection{}, mcpErr("Unknown data source '" + src + "'. Use sqlscore_list_data_sources to see saved sources.")
		}
		return ds.Connection(), nil
	}
	return datasource.Connection{URL: args.URL, Username: args.Username, Password: args.Password}, nil
}

// friendly maps errors the caller can act on to specific messages.
func friendly(err error, fallback string) error {
	var ve *datasource.ValidationError
	var be *backend.BackendError
	switch {
	case errors.Is(err, application.ErrEmptySQL):
		return mcpErr("The sql argument is empty.")
	case errors.Is(err, datasource.ErrNoConnection):
		return mcpErr("No connection given and none used before. Pass source or url, username and password.")
	case errors.As(err, &ve):
		return mcpErr("Invalid connection: " + ve.Error())
	case errors.As(err, &be) && be.Code != 0:
		return mcpErr("Backend rejected the request: " + be.Message)
	case errors.Is(err, backend.ErrInvalidPayload):
		return mcpErr("Backend returned an unexpected response.")
	}
	return mcpErr(fallback)
}

