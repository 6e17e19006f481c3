package application

import (
	"github.com/felixgeelhaar/sqlscore/pkg/domain/analysis"
)

// OutcomeView is the JSON shape of an Outcome, shared by the CLI and MCP.
type OutcomeView struct {
	SQL        string                   `json:"sql,omitempty"`
	Parsed     bool                     `json:"parsed"`
	Grade      string                   `json:"grade,omitempty"`
	GradeLabel string                   `json:"grade_label,omitempty"`
	Result     *analysis.AnalysisResult `json:"result,omitempty"`
	ParseError string                   `json:"parse_error,omitempty"`
	Raw        string                   `json:"raw"`
	Explain    []analysis.ExplainRow    `json:"explain,omitempty"`
}

// View converts the outcome for serialization.
func (o *Outcome) View() OutcomeView {
	v := OutcomeView{
		SQL:     o.SQL,
		Parsed:  o.Parsed(),
		Result:  o.Result,
		Raw:     o.Raw,
		Explain: o.Explain,
	}
	if o.Result != nil {
		g := o.Result.Grade()
		v.Grade = g.String()
		v.GradeLabel = g.Label()
	}
	if o.ParseErr != nil {
		v.ParseError = o.ParseErr.Error()
	}
	return v
}
