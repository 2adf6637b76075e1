package engine

import (
	"time"

	"kidquiz-engine/internal/domain"
)

// Presenter is the closed set of commands the host UI must honor. The engine
// never renders anything itself; it only emits these. Implementations must
// not block and must not call back into the session.
type Presenter interface {
	// ShowQuestion presents the active question with its countdown start.
	ShowQuestion(q domain.Question, timeRemaining int)
	// Tick updates the visible countdown once per second.
	Tick(remaining int)
	// ShowFeedback reveals the outcome of a lock-in, highlighting the
	// correct option when the answer was wrong or timed out.
	ShowFeedback(correct bool, correctOptionID string, wasTimeout bool)
	// ShowCelebration plays the perfect-score celebration.
	ShowCelebration()
	// ShowCompletionSummary surfaces the final stats.
	ShowCompletionSummary(stats domain.SessionStats)
	// Close dismisses the session presentation.
	Close()
}

// Recorder persists answer records and the final score. Failures are reported
// through Config.OnRecordError and never block session progression.
type Recorder interface {
	RecordAnswer(answer domain.SubmittedAnswer) error
	RecordScore(stats domain.SessionStats) error
}

// NopRecorder discards everything; useful for demos and tests.
type NopRecorder struct{}

func (NopRecorder) RecordAnswer(domain.SubmittedAnswer) error { return nil }
func (NopRecorder) RecordScore(domain.SessionStats) error     { return nil }

// Config tunes the session's delay policy and collaborators.
type Config struct {
	// CorrectDelay is how long feedback for a correct answer stays up
	// before advancing. Default 1.5s.
	CorrectDelay time.Duration
	// WrongDelay is how long feedback stays up after a wrong answer or a
	// timeout, giving time to study the highlighted correct option.
	// Default 5s.
	WrongDelay time.Duration
	// CelebrationTime is how long the perfect-score celebration plays
	// before the summary appears. Default 3s.
	CelebrationTime time.Duration
	// SummaryAutoClose dismisses the completion summary if the caller has
	// not already closed it. Default 5s.
	SummaryAutoClose time.Duration
	// DisableCelebration turns off the perfect-score celebration. The
	// celebration is on by default.
	DisableCelebration bool
	// Clock drives the countdown and all delays. Defaults to RealClock.
	Clock Clock
	// OnRecordError receives recorder failures. Optional.
	OnRecordError func(error)
}

// Delay policy defaults per the product rules.
const (
	DefaultCorrectDelay     = 1500 * time.Millisecond
	DefaultWrongDelay       = 5 * time.Second
	DefaultCelebrationTime  = 3 * time.Second
	DefaultSummaryAutoClose = 5 * time.Second
)

func (c Config) withDefaults() Config {
	if c.CorrectDelay <= 0 {
		c.CorrectDelay = DefaultCorrectDelay
	}
	if c.WrongDelay <= 0 {
		c.WrongDelay = DefaultWrongDelay
	}
	if c.CelebrationTime <= 0 {
		c.CelebrationTime = DefaultCelebrationTime
	}
	if c.SummaryAutoClose <= 0 {
		c.SummaryAutoClose = DefaultSummaryAutoClose
	}
	if c.Clock == nil {
		c.Clock = RealClock()
	}
	return c
}
