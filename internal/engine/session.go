package engine

import (
	"sync"

	"kidquiz-engine/internal/domain"
)

// Phase is the session lifecycle state.
type Phase string

const (
	PhaseConfiguring   Phase = "configuring"
	PhaseActive        Phase = "active"
	PhaseLocked        Phase = "locked"
	PhaseTransitioning Phase = "transitioning"
	PhaseComplete      Phase = "complete"
	PhaseAborted       Phase = "aborted"
)

// Effect scheduler keys. One key per delayed transition keeps overlapping
// timers from double-firing: rescheduling a key replaces the old entry.
const (
	effectAdvance   = "advance"
	effectSummary   = "summary"
	effectAutoClose = "auto-close"
)

// defaultTimeLimitSec backstops questions saved without a countdown.
const defaultTimeLimitSec = 30

// State is a read-only snapshot of the session for hosts and tests.
type State struct {
	Phase            Phase
	QuestionIndex    int
	TotalQuestions   int
	TimeRemaining    int
	CorrectCount     int
	TotalPoints      int
	SelectedOptionID string
	InputEnabled     bool
}

// Session is the quiz session state machine. It owns the only mutable session
// record and arbitrates every race (late ticks, double clicks, overlapping
// delays) through one rule: every event handler runs under the session mutex
// and is a silent no-op outside its valid source phase. There are no other
// guards.
//
// Timer ticks and scheduled effects arrive on timer goroutines; user events
// arrive on the host's goroutine. The mutex serializes them into the single
// logical event loop the engine assumes.
type Session struct {
	mu sync.Mutex

	cfg       Config
	clock     Clock
	seq       *Sequencer
	board     *Scoreboard
	timer     *CountdownTimer
	effects   *EffectScheduler
	presenter Presenter
	recorder  Recorder

	phase            Phase
	inputEnabled     bool
	selectedOptionID string
	answers          []domain.SubmittedAnswer
}

// NewSession builds a session over an already-assembled question set.
// Malformed questions are dropped defensively even though BuildQuestionSet
// filters them too; a set that ends up empty completes immediately on Start.
func NewSession(questions []domain.Question, presenter Presenter, recorder Recorder, cfg Config) *Session {
	cfg = cfg.withDefaults()
	if recorder == nil {
		recorder = NopRecorder{}
	}
	playable := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		if q.Valid() {
			playable = append(playable, q)
		}
	}
	s := &Session{
		cfg:       cfg,
		clock:     cfg.Clock,
		seq:       NewSequencer(playable),
		board:     &Scoreboard{},
		effects:   NewEffectScheduler(cfg.Clock),
		presenter: presenter,
		recorder:  recorder,
		phase:     PhaseConfiguring,
	}
	s.timer = NewCountdownTimer(cfg.Clock, s.handleTick, s.handleExpired)
	return s
}

// Start moves the session from Configuring to the first question. With no
// playable questions it completes immediately and reports ErrNoValidQuestions;
// the host still receives a (zero) completion summary rather than a crash.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseConfiguring {
		return nil
	}
	if s.seq.Len() == 0 {
		s.phase = PhaseComplete
		s.presentSummaryLocked()
		return domain.ErrNoValidQuestions
	}
	s.activateCurrentLocked()
	return nil
}

// SelectOption locks in the player's choice for the active question. A second
// call for the same question (double click) or a call after the countdown
// expired is absorbed silently.
func (s *Session) SelectOption(optionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive || !s.inputEnabled {
		return
	}
	s.lockInLocked(optionID, false)
}

// Abort ends the session early. Every pending countdown tick and scheduled
// effect is cancelled; nothing scheduled before Abort runs afterwards.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseAborted {
		return
	}
	s.phase = PhaseAborted
	s.inputEnabled = false
	s.timer.Stop()
	s.effects.CancelAll()
	s.presenter.Close()
}

// Snapshot returns the current session state for hosts and tests.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Phase:            s.phase,
		QuestionIndex:    s.seq.Index(),
		TotalQuestions:   s.seq.Len(),
		TimeRemaining:    s.timer.Remaining(),
		CorrectCount:     s.board.CorrectCount(),
		TotalPoints:      s.board.TotalPoints(),
		SelectedOptionID: s.selectedOptionID,
		InputEnabled:     s.inputEnabled,
	}
}

// Answers returns a copy of the append-only answer log.
func (s *Session) Answers() []domain.SubmittedAnswer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.SubmittedAnswer, len(s.answers))
	copy(out, s.answers)
	return out
}

// Stats summarizes the session so far.
func (s *Session) Stats() domain.SessionStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statsLocked()
}

func (s *Session) statsLocked() domain.SessionStats {
	total := s.seq.Len()
	return domain.SessionStats{
		TotalPoints:    s.board.TotalPoints(),
		CorrectCount:   s.board.CorrectCount(),
		TotalQuestions: total,
		Perfect:        s.board.IsPerfect(total),
	}
}

func (s *Session) handleTick(remaining int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive {
		return
	}
	s.presenter.Tick(remaining)
}

func (s *Session) handleExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseActive {
		// The player answered between the final tick and this callback;
		// the outcome is already locked.
		return
	}
	s.lockInLocked("", true)
}

// lockInLocked is the Active -> Locked transition: stop the countdown, judge
// the answer, record it, and schedule the delayed advance per the outcome.
func (s *Session) lockInLocked(optionID string, timedOut bool) {
	s.phase = PhaseLocked
	s.inputEnabled = false
	s.selectedOptionID = optionID
	s.timer.Stop()

	q, ok := s.seq.Current()
	if !ok {
		return
	}
	verdict := Evaluate(optionID, q)
	answer := domain.SubmittedAnswer{
		QuestionID:   q.ID,
		OptionID:     optionID,
		Correct:      verdict.Correct,
		PointsEarned: verdict.PointsAwarded,
		AnsweredAt:   s.clock.Now(),
	}
	s.answers = append(s.answers, answer)
	s.board.RecordAnswer(verdict.Correct, verdict.PointsAwarded)
	if err := s.recorder.RecordAnswer(answer); err != nil {
		s.reportRecordError(err)
	}

	s.presenter.ShowFeedback(verdict.Correct, verdict.CorrectOptionID, timedOut)

	delay := s.cfg.WrongDelay
	if verdict.Correct {
		delay = s.cfg.CorrectDelay
	}
	s.effects.Schedule(effectAdvance, delay, s.advance)
}

// advance is the Locked -> Transitioning -> Active|Complete transition, fired
// by the effect scheduler after the outcome delay.
func (s *Session) advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseLocked {
		return
	}
	s.phase = PhaseTransitioning
	s.selectedOptionID = ""
	if s.seq.Advance() {
		s.activateCurrentLocked()
		return
	}
	s.completeLocked()
}

func (s *Session) activateCurrentLocked() {
	q, ok := s.seq.Current()
	if !ok {
		s.completeLocked()
		return
	}
	limit := q.TimeLimitSec
	if limit <= 0 {
		limit = defaultTimeLimitSec
	}
	s.phase = PhaseActive
	s.inputEnabled = true
	s.timer.Reset(limit)
	s.timer.Start(limit)
	s.presenter.ShowQuestion(q, limit)
}

func (s *Session) completeLocked() {
	s.phase = PhaseComplete
	stats := s.statsLocked()
	if err := s.recorder.RecordScore(stats); err != nil {
		s.reportRecordError(err)
	}
	if stats.Perfect && !s.cfg.DisableCelebration {
		// Celebrate first, then surface the summary.
		s.presenter.ShowCelebration()
		s.effects.Schedule(effectSummary, s.cfg.CelebrationTime, s.showSummary)
		return
	}
	s.presentSummaryLocked()
}

func (s *Session) showSummary() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseComplete {
		return
	}
	s.presentSummaryLocked()
}

func (s *Session) presentSummaryLocked() {
	s.presenter.ShowCompletionSummary(s.statsLocked())
	s.effects.Schedule(effectAutoClose, s.cfg.SummaryAutoClose, s.autoClose)
}

func (s *Session) autoClose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseComplete {
		return
	}
	s.presenter.Close()
}

func (s *Session) reportRecordError(err error) {
	if s.cfg.OnRecordError != nil {
		s.cfg.OnRecordError(err)
	}
}
