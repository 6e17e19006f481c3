package analysis

// Grade buckets a total score for display.
type Grade string

const (
	GradeGood    Grade = "good"
	GradeWarning Grade = "warning"
	GradePoor    Grade = "poor"
)

const (
	goodThreshold    = 80
	warningThreshold = 60
)

// GradeFor maps a total score to its grade.
func GradeFor(score int) Grade {
	switch {
	case score >= goodThreshold:
		return GradeGood
	case score >= warningThreshold:
		return GradeWarning
	default:
		return GradePoor
	}
}

// Label returns the human-readable verdict for the grade.
func (g Grade) Label() string {
	switch g {
	case GradeGood:
		return "performing well"
	case GradeWarning:
		return "needs optimisation"
	default:
		return "performing poorly"
	}
}

func (g Grade) String() string {
	return string(g)
}
