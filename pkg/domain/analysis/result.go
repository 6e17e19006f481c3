// Package analysis models the backend's SQL quality report and the EXPLAIN
// plan that accompanies it.
package analysis

// RuleResult is one scoring rule that matched the analyzed statement.
// Suggestion and Score stay unset until the report assigns them.
type RuleResult struct {
	Reason     string `json:"reason"`
	Suggestion string `json:"suggestion,omitempty"`
	Score      *int   `json:"score,omitempty"`
}

// HasScore reports whether the report assigned a point delta to the rule.
func (r RuleResult) HasScore() bool {
	return r.Score != nil
}

// Points returns the rule's point delta, or 0 when none was assigned.
func (r RuleResult) Points() int {
	if r.Score == nil {
		return 0
	}
	return *r.Score
}

// IsBonus reports whether the rule added points.
func (r RuleResult) IsBonus() bool {
	return r.Points() > 0
}

// AnalysisResult is the structured form of a backend report.
type AnalysisResult struct {
	SQLID *string      `json:"sqlId"`
	Score int          `json:"score"`
	Rules []RuleResult `json:"rules"`
}

// ID returns the statement identifier, or "" when the report carried none.
func (r *AnalysisResult) ID() string {
	if r == nil || r.SQLID == nil {
		return ""
	}
	return *r.SQLID
}

// Grade classifies the total score.
func (r *AnalysisResult) Grade() Grade {
	return GradeFor(r.Score)
}

// IsEmpty reports whether the report contained none of the recognized markers.
func (r *AnalysisResult) IsEmpty() bool {
	return r.SQLID == nil && r.Score == 0 && len(r.Rules) == 0
}
