package memory

import (
	"context"
	"sync"

	"kidquiz-engine/internal/domain"
)

// AnswerStore keeps answer records in memory, grouped per session, plus a
// per-kid wrong-answer log for review.
type AnswerStore struct {
	mu      sync.RWMutex
	answers map[string][]domain.SubmittedAnswer // sessionID -> records
	wrong   map[string][]domain.SubmittedAnswer // kidID -> wrong answers
}

func NewAnswerStore() *AnswerStore {
	return &AnswerStore{
		answers: make(map[string][]domain.SubmittedAnswer),
		wrong:   make(map[string][]domain.SubmittedAnswer),
	}
}

func (s *AnswerStore) AppendAnswer(_ context.Context, kidID, sessionID string, answer domain.SubmittedAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[sessionID] = append(s.answers[sessionID], answer)
	if !answer.Correct {
		s.wrong[kidID] = append(s.wrong[kidID], answer)
	}
	return nil
}

// SessionAnswers returns the recorded answers for a session, in order.
func (s *AnswerStore) SessionAnswers(sessionID string) []domain.SubmittedAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SubmittedAnswer, len(s.answers[sessionID]))
	copy(out, s.answers[sessionID])
	return out
}

// WrongAnswers returns the kid's accumulated wrong-answer log.
func (s *AnswerStore) WrongAnswers(kidID string) []domain.SubmittedAnswer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SubmittedAnswer, len(s.wrong[kidID]))
	copy(out, s.wrong[kidID])
	return out
}

// ScoreStore keeps per-kid running point totals in memory.
type ScoreStore struct {
	mu     sync.RWMutex
	points map[string]int
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{points: make(map[string]int)}
}

func (s *ScoreStore) AddSessionResult(_ context.Context, kidID string, stats domain.SessionStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.points[kidID] += stats.TotalPoints
	return nil
}

// Points returns the kid's accumulated total.
func (s *ScoreStore) Points(kidID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.points[kidID]
}
