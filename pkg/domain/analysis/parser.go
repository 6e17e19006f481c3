package analysis

import (
	"fmt"
	"strings"
)

// Parse converts a backend report into an AnalysisResult.
//
// Blank and unrecognized lines are skipped. A report with none of the markers
// yields the zero result, not a failure. Broken quoting or an internal fault
// yields a *ParseFailure; Parse never panics.
func Parse(report string) (result *AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &ParseFailure{Err: fmt.Errorf("internal error: %v", r)}
		}
	}()

	acc, err := newRuleAccumulator()
	if err != nil {
		return nil, &ParseFailure{Err: err}
	}

	result = &AnalysisResult{Rules: []RuleResult{}}
	for i, raw := range strings.Split(report, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, cerr := Classify(raw)
		if cerr != nil {
			return nil, &ParseFailure{Line: i + 1, Text: raw, Err: cerr}
		}

		switch line.Kind {
		case LineID:
			id := line.Text
			result.SQLID = &id
		case LineScore:
			result.Score = line.Value
		case LineReason:
			acc.Reason(line.Text)
		case LineSuggestion:
			acc.Suggestion(line.Text)
		case LineScoreDelta:
			if line.HasValue {
				acc.Delta(line.Value)
			}
		case LineUnrecognized:
		}
	}

	result.Rules = acc.Finish()
	return result, nil
}
