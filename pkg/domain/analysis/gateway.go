package analysis

import (
	"context"

	"github.com/felixgeelhaar/sqlscore/pkg/domain/datasource"
)

// AnalyzeRequest is a statement plus the connection to explain it against.
type AnalyzeRequest struct {
	datasource.Connection
	SQL string `json:"sql"`
}

// AnalyzeResponse is the backend's answer to an analyze call. ScoreResult is
// the raw report text consumed by Parse; ExplainRows pass through unmodified.
type AnalyzeResponse struct {
	ExplainRows []ExplainRow `json:"explainResultList"`
	ScoreResult string       `json:"scoreResult"`
}

// Gateway is the remote analysis backend.
type Gateway interface {
	TestConnection(ctx context.Context, conn datasource.Connection) (*DatabaseMeta, error)
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalyzeResponse, error)
	Health(ctx context.Context) (int, error)
}
