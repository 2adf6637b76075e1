package engine

import "kidquiz-engine/internal/domain"

// Sequencer owns the ordered question list and the current index for one
// session. The index only ever moves forward; out-of-range access reads as
// "session complete" rather than panicking.
type Sequencer struct {
	questions []domain.Question
	idx       int
}

// NewSequencer copies the question set so the session's order is immutable
// even if the caller mutates its slice afterwards.
func NewSequencer(questions []domain.Question) *Sequencer {
	qs := make([]domain.Question, len(questions))
	copy(qs, questions)
	return &Sequencer{questions: qs}
}

// Current returns the active question, or false when the session is past the
// last question.
func (s *Sequencer) Current() (domain.Question, bool) {
	if s.idx >= len(s.questions) {
		return domain.Question{}, false
	}
	return s.questions[s.idx], true
}

// HasNext reports whether a question follows the current one.
func (s *Sequencer) HasNext() bool {
	return s.idx+1 < len(s.questions)
}

// Advance moves to the next question and reports whether one exists.
func (s *Sequencer) Advance() bool {
	if s.idx < len(s.questions) {
		s.idx++
	}
	return s.idx < len(s.questions)
}

// Index reports the zero-based position of the current question.
func (s *Sequencer) Index() int { return s.idx }

// Len reports the total number of questions in the session.
func (s *Sequencer) Len() int { return len(s.questions) }
