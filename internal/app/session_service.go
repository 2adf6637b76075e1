package app

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"kidquiz-engine/internal/domain"
	"kidquiz-engine/internal/engine"
)

// PackageRepository loads package content (from cache/backing store).
type PackageRepository interface {
	GetPackageQuestions(ctx context.Context, packageID string) (domain.PackageQuestions, error)
}

// AnswerStore persists per-question answer records (wrong-answer log,
// analytics).
type AnswerStore interface {
	AppendAnswer(ctx context.Context, kidID, sessionID string, answer domain.SubmittedAnswer) error
}

// ScoreStore persists the final session score against the kid's running
// point total.
type ScoreStore interface {
	AddSessionResult(ctx context.Context, kidID string, stats domain.SessionStats) error
}

// SessionService runs quiz sessions: it loads package questions, builds the
// session set, drives one engine per session, and persists answers and
// scores. Persistence failures surface as notices on the command stream and
// never stall gameplay.
type SessionService struct {
	packages PackageRepository
	answers  AnswerStore
	scores   ScoreStore
	baseCfg  engine.Config
	newRand  func() *rand.Rand

	mu       sync.RWMutex
	sessions map[string]*runningSession
}

type runningSession struct {
	id        string
	kidID     string
	questions []domain.Question
	engine    *engine.Session
	stream    *commandStream
}

// NewSessionService wires the service with its collaborators. baseCfg sets
// the delay policy shared by all sessions; zero fields take engine defaults.
func NewSessionService(packages PackageRepository, answers AnswerStore, scores ScoreStore, baseCfg engine.Config) *SessionService {
	return &SessionService{
		packages: packages,
		answers:  answers,
		scores:   scores,
		baseCfg:  baseCfg,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
		sessions: make(map[string]*runningSession),
	}
}

// NewSessionServiceWithRand is test-only for deterministic question order.
func NewSessionServiceWithRand(packages PackageRepository, answers AnswerStore, scores ScoreStore, baseCfg engine.Config, newRand func() *rand.Rand) *SessionService {
	s := NewSessionService(packages, answers, scores, baseCfg)
	s.newRand = newRand
	return s
}

// StartSession assembles a question set from the requested packages and
// starts a session for the kid. It returns the new session id. An entirely
// empty or malformed set fails with domain.ErrNoValidQuestions before any
// session is registered.
func (s *SessionService) StartSession(ctx context.Context, kidID string, packageIDs []string) (string, error) {
	bundles := make([]domain.PackageQuestions, 0, len(packageIDs))
	for _, id := range packageIDs {
		bundle, err := s.packages.GetPackageQuestions(ctx, id)
		if err != nil {
			return "", err
		}
		bundles = append(bundles, bundle)
	}

	set := engine.BuildQuestionSet(bundles, s.newRand())
	if len(set) == 0 {
		return "", domain.ErrNoValidQuestions
	}

	sessionID := uuid.NewString()
	rs := &runningSession{
		id:        sessionID,
		kidID:     kidID,
		questions: set,
	}
	rs.stream = newCommandStream(func() { s.drop(sessionID) })

	cfg := s.baseCfg
	recorder := &storeRecorder{
		answers:   s.answers,
		scores:    s.scores,
		kidID:     kidID,
		sessionID: sessionID,
	}
	cfg.OnRecordError = func(err error) {
		log.Printf("session %s: record failed: %v", sessionID, err)
		rs.stream.notice("progress could not be saved")
	}
	rs.engine = engine.NewSession(set, rs.stream, recorder, cfg)

	s.mu.Lock()
	s.sessions[sessionID] = rs
	s.mu.Unlock()

	if err := rs.engine.Start(); err != nil {
		s.drop(sessionID)
		return "", err
	}
	return sessionID, nil
}

// Subscribe returns the presentation command stream for a session. Joining an
// active session yields the current question first. The caller must invoke
// the returned cancel function to avoid leaks.
func (s *SessionService) Subscribe(_ context.Context, sessionID string) (<-chan Command, func(), error) {
	rs, ok := s.get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := rs.stream.subscribe()

	// Catch the new subscriber up on the question already on screen.
	state := rs.engine.Snapshot()
	if state.QuestionIndex < len(rs.questions) {
		if cmd := initialCommand(state, rs.questions[state.QuestionIndex]); cmd != nil {
			ch <- *cmd
		}
	}
	return ch, cancel, nil
}

// SelectOption forwards the kid's choice to the session engine. Duplicate or
// late selections are absorbed by the engine, not errors.
func (s *SessionService) SelectOption(_ context.Context, sessionID, optionID string) error {
	rs, ok := s.get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	rs.engine.SelectOption(optionID)
	return nil
}

// Abort ends a session early, cancelling its countdown and every pending
// delayed effect.
func (s *SessionService) Abort(_ context.Context, sessionID string) error {
	rs, ok := s.get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	rs.engine.Abort()
	s.drop(sessionID)
	return nil
}

// Snapshot exposes the session state for polling hosts and tests.
func (s *SessionService) Snapshot(sessionID string) (engine.State, error) {
	rs, ok := s.get(sessionID)
	if !ok {
		return engine.State{}, domain.ErrSessionNotFound
	}
	return rs.engine.Snapshot(), nil
}

func (s *SessionService) get(sessionID string) (*runningSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.sessions[sessionID]
	return rs, ok
}

func (s *SessionService) drop(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// storeRecorder binds the engine's per-session recorder to the kid-scoped
// persistence stores.
type storeRecorder struct {
	answers   AnswerStore
	scores    ScoreStore
	kidID     string
	sessionID string
}

func (r *storeRecorder) RecordAnswer(answer domain.SubmittedAnswer) error {
	if r.answers == nil {
		return nil
	}
	return r.answers.AppendAnswer(context.Background(), r.kidID, r.sessionID, answer)
}

func (r *storeRecorder) RecordScore(stats domain.SessionStats) error {
	if r.scores == nil {
		return nil
	}
	return r.scores.AddSessionResult(context.Background(), r.kidID, stats)
}
