package domain

import "time"

// PackageOrder controls how a package presents its questions when a session
// set is built from it.
type PackageOrder string

const (
	// OrderSequential keeps the package's creation order.
	OrderSequential PackageOrder = "sequential"
	// OrderShuffle randomizes the package's questions before concatenation.
	OrderShuffle PackageOrder = "shuffle"
)

// Package groups questions a parent has curated for their kids.
type Package struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Order PackageOrder `json:"order"`
}

// Option represents a possible answer for a question.
type Option struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Question models an MCQ question with at least one correct option.
// Immutable once loaded into a session.
type Question struct {
	ID           string   `json:"id"`
	Prompt       string   `json:"prompt"`
	Options      []Option `json:"options"`
	Points       int      `json:"points"`       // defaults to 1 if zero
	TimeLimitSec int      `json:"timeLimitSec"` // per-question countdown, whole seconds
	PackageID    string   `json:"packageId"`
}

// Valid reports whether the question is playable: at least two options and at
// least one marked correct. Sessions skip questions that fail this check.
func (q Question) Valid() bool {
	if len(q.Options) < 2 {
		return false
	}
	for _, opt := range q.Options {
		if opt.Correct {
			return true
		}
	}
	return false
}

// PackageQuestions bundles a package with its question list, as handed to the
// session set builder.
type PackageQuestions struct {
	Package   Package    `json:"package"`
	Questions []Question `json:"questions"`
}

// SubmittedAnswer is the append-only record emitted once per question.
// OptionID is empty when the question timed out unanswered.
type SubmittedAnswer struct {
	QuestionID   string    `json:"questionId"`
	OptionID     string    `json:"optionId,omitempty"`
	Correct      bool      `json:"correct"`
	PointsEarned int       `json:"pointsEarned"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

// SessionStats summarizes a finished session for the completion surface and
// for persisting against the kid's running point total.
type SessionStats struct {
	TotalPoints    int  `json:"totalPoints"`
	CorrectCount   int  `json:"correctCount"`
	TotalQuestions int  `json:"totalQuestions"`
	Perfect        bool `json:"perfect"`
}

// Kid is the learner a session runs for.
type Kid struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}
