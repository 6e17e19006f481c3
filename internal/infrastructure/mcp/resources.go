package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
)

const explainGuideURI = "sqlscore://explain-guide"

type explainGuide struct {
	Columns     []explainEntry `json:"columns"`
	AccessTypes []explainEntry `json:"access_types"`
}

type explainEntry struct {
	Name      string `json:"name"`
	Important bool   `json:"important,omitempty"`
	Help      string `json:"help"`
}

func (s *Server) registerResources() {
	s.mcpServer.Resource(explainGuideURI).
		Name(explainGuideURI).
		Description("How to read the EXPLAIN rows returned by sqlscore_analyze").
		MimeType("application/json").
		Handler(s.readExplainGuide)
}

func (s *Server) readExplainGuide(_ context.Context, _ string, _ map[string]string) (*mcplib.ResourceContent, error) {
	columns, types := analysis.ExplainGuide()
	data, err := json.Marshal(explainGuide{Columns: toEntries(columns), AccessTypes: toEntries(types)})
	if err != nil {
		return nil, err
	}
	return &mcplib.ResourceContent{
		URI:      explainGuideURI,
		MimeType: "application/json",
		Text:     string(data),
	}, nil
}

func toEntries(cols []analysis.ExplainColumn) []explainEntry {
	out := make([]explainEntry, 0, len(cols))
	for _, c := range cols {
		out = append(out, explainEntry{Name: c.Name, Important: c.Important, Help: c.Help})
	}
	return out
}
