package watch

import (
	"path/filepath"
)

// SQLPatterns selects the files re-analyzed when a directory is watched.
var SQLPatterns = []string{"*.sql"}

// EditorTempPatterns are swap and backup files editors write next to the real file.
var EditorTempPatterns = []string{"*.swp", "*.swx", "*~", ".#*", "*.tmp"}

// PatternFilter filters file paths based on include/exclude glob patterns.
type PatternFilter struct {
	Include []string
	Exclude []string
}

// NewPatternFilter creates a new pattern filter.
func NewPatternFilter(include, exclude []string) *PatternFilter {
	return &PatternFilter{
		Include: include,
		Exclude: exclude,
	}
}

// NewSQLFilter matches SQL files and skips editor temp files.
func NewSQLFilter() *PatternFilter {
	return NewPatternFilter(append([]string(nil), SQLPatterns...), append([]string(nil), EditorTempPatterns...))
}

// Matches returns true if the path passes the filter.
// If include patterns are set, at least one must match.
// If exclude patterns are set, none must match.
// Patterns are tried against the base name and the full path.
func (f *PatternFilter) Matches(path string) bool {
	base := filepath.Base(path)

	for _, pattern := range f.Exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return false
		}
	}

	if len(f.Include) == 0 {
		return true
	}

	for _, pattern := range f.Include {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, path); matched {
			return true
		}
	}

	return false
}
