package analysis

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Markers emitted by the analysis backend. A line is classified by the first
// marker it contains, checked in classifier order.
const (
	MarkerSQLID      = "SQL 语句 ID："
	MarkerTotalScore = "SQL分析结果的分数为:"
	MarkerReason     = "规则命中原因："
	MarkerSuggestion = "规则命中，修改建议："
	MarkerSubtract   = "规则命中，减去分数"
	MarkerAdd        = "规则命中，加上分数："
)

// LineKind tags a classified report line.
type LineKind int

const (
	LineUnrecognized LineKind = iota
	LineID
	LineScore
	LineReason
	LineSuggestion
	LineScoreDelta
)

func (k LineKind) String() string {
	switch k {
	case LineID:
		return "id"
	case LineScore:
		return "score"
	case LineReason:
		return "reason"
	case LineSuggestion:
		return "suggestion"
	case LineScoreDelta:
		return "score-delta"
	default:
		return "unrecognized"
	}
}

// Line is a classified report line. Text carries the payload of ID, reason and
// suggestion lines; Value carries the number of score and score-delta lines.
// HasValue is false for a score-delta line without a signed integer.
type Line struct {
	Kind     LineKind
	Text     string
	Value    int
	HasValue bool
}

type classifier struct {
	kind    LineKind
	markers []string
	extract func(raw string) (Line, error)
}

func (c classifier) matches(raw string) bool {
	for _, m := range c.markers {
		if strings.Contains(raw, m) {
			return true
		}
	}
	return false
}

// quotedPattern extracts the text between the quote that follows a marker
// and the last quote on the line. Both ASCII and full-width quotes are accepted.
type quotedPattern struct {
	open *regexp.Regexp
	full *regexp.Regexp
}

func newQuotedPattern(marker string) quotedPattern {
	m := regexp.QuoteMeta(marker)
	return quotedPattern{
		open: regexp.MustCompile(m + `\s*["“]`),
		full: regexp.MustCompile(m + `\s*["“](.*)["”]`),
	}
}

func (p quotedPattern) extract(raw string) (string, error) {
	if !p.open.MatchString(raw) {
		return "", fmt.Errorf("%w: missing opening quote", ErrMalformedQuote)
	}
	m := p.full.FindStringSubmatch(raw)
	if m == nil {
		return "", fmt.Errorf("%w: missing closing quote", ErrMalformedQuote)
	}
	return m[1], nil
}

var (
	idPattern         = regexp.MustCompile(regexp.QuoteMeta(MarkerSQLID) + `(.*)$`)
	digitsPattern     = regexp.MustCompile(`\d+`)
	deltaPattern      = regexp.MustCompile(`[+-]?\d+`)
	reasonPattern     = newQuotedPattern(MarkerReason)
	suggestionPattern = newQuotedPattern(MarkerSuggestion)
)

var classifiers = []classifier{
	{kind: LineID, markers: []string{MarkerSQLID}, extract: extractID},
	{kind: LineScore, markers: []string{MarkerTotalScore}, extract: extractTotalScore},
	{kind: LineReason, markers: []string{MarkerReason}, extract: extractReason},
	{kind: LineSuggestion, markers: []string{MarkerSuggestion}, extract: extractSuggestion},
	{kind: LineScoreDelta, markers: []string{MarkerSubtract, MarkerAdd}, extract: extractDelta},
}

// Classify tags a single report line and extracts its payload.
// Lines carrying none of the markers come back as LineUnrecognized.
func Classify(raw string) (Line, error) {
	for _, c := range classifiers {
		if !c.matches(raw) {
			continue
		}
		line, err := c.extract(raw)
		line.Kind = c.kind
		return line, err
	}
	return Line{Kind: LineUnrecognized}, nil
}

func extractID(raw string) (Line, error) {
	m := idPattern.FindStringSubmatch(raw)
	return Line{Text: strings.TrimSpace(m[1])}, nil
}

func extractTotalScore(raw string) (Line, error) {
	token := digitsPattern.FindString(raw)
	if token == "" {
		return Line{Value: 0, HasValue: true}, nil
	}
	n, err := atoi(token)
	if err != nil {
		return Line{}, err
	}
	return Line{Value: n, HasValue: true}, nil
}

func extractReason(raw string) (Line, error) {
	text, err := reasonPattern.extract(raw)
	if err != nil {
		return Line{}, err
	}
	if text == "" {
		return Line{}, ErrEmptyReason
	}
	return Line{Text: text}, nil
}

func extractSuggestion(raw string) (Line, error) {
	text, err := suggestionPattern.extract(raw)
	if err != nil {
		return Line{}, err
	}
	return Line{Text: text}, nil
}

// extractDelta reads the first signed integer on the line as is. The marker
// does not change the sign: an unsigned number is positive.
func extractDelta(raw string) (Line, error) {
	token := deltaPattern.FindString(raw)
	if token == "" {
		return Line{}, nil
	}
	n, err := atoi(token)
	if err != nil {
		return Line{}, err
	}
	return Line{Value: n, HasValue: true}, nil
}

func atoi(token string) (int, error) {
	n, err := strconv.Atoi(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNumberOutOfRange, token)
	}
	return n, nil
}
