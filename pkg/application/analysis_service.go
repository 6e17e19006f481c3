package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

// ErrEmptySQL is returned when there is no statement to analyze.
var ErrEmptySQL = errors.New("sql statement is empty")

// Outcome is the result of one analysis. Result is nil when the report could
// not be parsed; ParseErr then holds the reason and Raw must be shown as is.
type Outcome struct {
	SQL      string
	Raw      string
	Result   *analysis.AnalysisResult
	ParseErr error
	Explain  []analysis.ExplainRow
}

// Parsed reports whether the report was turned into a structured result.
func (o *Outcome) Parsed() bool {
	return o.Result != nil
}

// AnalysisService runs statements through the backend and parses the reports.
type AnalysisService struct {
	gateway analysis.Gateway
	sources *DataSourceService
	logger  *slog.Logger
}

func NewAnalysisService(gateway analysis.Gateway, sources *DataSourceService, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{gateway: gateway, sources: sources, logger: logger}
}

// ResolveConnection returns conn when set, otherwise the last-used connection.
func (s *AnalysisService) ResolveConnection(conn datasource.Connection) (datasource.Connection, error) {
	if conn.IsZero() {
		if s.sources == nil {
			return datasource.Connection{}, datasource.ErrNoConnection
		}
		last, err := s.sources.Last()
		if err != nil {
			return datasource.Connection{}, err
		}
		conn = last
	}
	if err := conn.Validate(); err != nil {
		return datasource.Connection{}, err
	}
	return conn, nil
}

// TestConnection checks that the backend can reach the database.
func (s *AnalysisService) TestConnection(ctx context.Context, conn datasource.Connection) (*analysis.DatabaseMeta, error) {
	conn, err := s.ResolveConnection(conn)
	if err != nil {
		return nil, err
	}
	meta, err := s.gateway.TestConnection(ctx, conn)
	if err != nil {
		return nil, fmt.Errorf("test connection: %w", err)
	}
	s.remember(conn)
	return meta, nil
}

// Analyze submits sql against conn and parses the returned report.
// A report that cannot be parsed is not an error; see Outcome.
func (s *AnalysisService) Analyze(ctx context.Context, conn datasource.Connection, sql string) (*Outcome, error) {
	sql = strings.TrimSpace(sql)
	if sql == "" {
		return nil, ErrEmptySQL
	}
	conn, err := s.ResolveConnection(conn)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("analyzing statement", "url", conn.URL, "bytes", len(sql))
	resp, err := s.gateway.Analyze(ctx, analysis.AnalyzeRequest{Connection: conn, SQL: sql})
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	s.remember(conn)

	out := s.ParseReport(resp.ScoreResult)
	out.SQL = sql
	out.Explain = resp.ExplainRows
	return out, nil
}

// ParseReport parses a report without contacting the backend.
func (s *AnalysisService) ParseReport(report string) *Outcome {
	out := &Outcome{Raw: report}
	result, err := analysis.Parse(report)
	if err != nil {
		s.logger.Warn("report could not be parsed, showing raw text", "error", err)
		out.ParseErr = err
		return out
	}
	out.Result = result
	return out
}

// Health returns the backend's analysis engine status code.
func (s *AnalysisService) Health(ctx context.Context) (int, error) {
	status, err := s.gateway.Health(ctx)
	if err != nil {
		return 0, fmt.Errorf("health: %w", err)
	}
	return status, nil
}

func (s *AnalysisService) remember(conn datasource.Connection) {
	if s.sources == nil {
		return
	}
	if err := s.sources.Remember(conn); err != nil {
		s.logger.Warn("could not remember connection", "error", err)
	}
}
