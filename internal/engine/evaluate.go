package engine

import "kidquiz-engine/internal/domain"

// Verdict is the outcome of judging a single submitted answer.
type Verdict struct {
	Correct         bool
	PointsAwarded   int
	CorrectOptionID string
}

// Evaluate judges a selected option against the question's option set. It is
// pure: no side effects, no clock. An empty selectedOptionID models a timeout
// and is always incorrect with zero points; the correct option id is still
// returned so the host can highlight it.
func Evaluate(selectedOptionID string, q domain.Question) Verdict {
	verdict := Verdict{CorrectOptionID: firstCorrectOption(q)}
	if selectedOptionID == "" {
		return verdict
	}
	for _, opt := range q.Options {
		if opt.ID == selectedOptionID && opt.Correct {
			verdict.Correct = true
			verdict.PointsAwarded = questionPoints(q)
			return verdict
		}
	}
	return verdict
}

func firstCorrectOption(q domain.Question) string {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt.ID
		}
	}
	return ""
}

func questionPoints(q domain.Question) int {
	if q.Points > 0 {
		return q.Points
	}
	return 1
}
