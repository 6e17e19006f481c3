package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedQuote indicates a reason or suggestion line whose quoting is broken.
	ErrMalformedQuote = errors.New("malformed quote structure")

	// ErrEmptyReason indicates a reason line with nothing between its quotes.
	ErrEmptyReason = errors.New("empty rule reason")

	// ErrNumberOutOfRange indicates a score token that does not fit in an int.
	ErrNumberOutOfRange = errors.New("score out of range")
)

// ParseFailure reports that a report could not be turned into an AnalysisResult.
// Callers fall back to showing the raw report text.
type ParseFailure struct {
	Line int // 1-based, 0 when the failure is not tied to a line
	Text string
	Err  error
}

func (e *ParseFailure) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse report line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse report: %v", e.Err)
}

func (e *ParseFailure) Unwrap() error {
	return e.Err
}

// IsParseFailure reports whether err is or wraps a *ParseFailure.
func IsParseFailure(err error) bool {
	var pf *ParseFailure
	return errors.As(err, &pf)
}
