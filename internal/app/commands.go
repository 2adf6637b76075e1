package app

import (
	"sync"

	"kidquiz-engine/internal/domain"
	"kidquiz-engine/internal/engine"
)

// CommandType enumerates the presentation commands a host receives.
type CommandType string

const (
	CommandQuestion    CommandType = "question"
	CommandTick        CommandType = "tick"
	CommandFeedback    CommandType = "feedback"
	CommandCelebration CommandType = "celebration"
	CommandSummary     CommandType = "summary"
	CommandNotice      CommandType = "notice"
	CommandClose       CommandType = "close"
)

// Feedback is the payload of a feedback command.
type Feedback struct {
	Correct         bool   `json:"correct"`
	CorrectOptionID string `json:"correctOptionId"`
	WasTimeout      bool   `json:"wasTimeout"`
}

// Command is one presentation instruction emitted by a running session.
type Command struct {
	Type          CommandType          `json:"type"`
	Question      *domain.Question     `json:"question,omitempty"`
	TimeRemaining int                  `json:"timeRemaining,omitempty"`
	Feedback      *Feedback            `json:"feedback,omitempty"`
	Stats         *domain.SessionStats `json:"stats,omitempty"`
	Notice        string               `json:"notice,omitempty"`
}

// commandStream adapts engine.Presenter into a fan-out of Command values, one
// buffered channel per subscriber. Slow subscribers lose the oldest pending
// command rather than blocking the session.
type commandStream struct {
	mu          sync.Mutex
	subscribers map[chan Command]struct{}
	closed      bool
	onClose     func()
}

func newCommandStream(onClose func()) *commandStream {
	return &commandStream{
		subscribers: make(map[chan Command]struct{}),
		onClose:     onClose,
	}
}

func (s *commandStream) subscribe() (chan Command, func()) {
	ch := make(chan Command, 32)
	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *commandStream) publish(cmd Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	for ch := range s.subscribers {
		select {
		case ch <- cmd:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- cmd
		}
	}
}

// engine.Presenter implementation.

func (s *commandStream) ShowQuestion(q domain.Question, timeRemaining int) {
	shown := redactCorrectFlags(q)
	s.publish(Command{Type: CommandQuestion, Question: &shown, TimeRemaining: timeRemaining})
}

func (s *commandStream) Tick(remaining int) {
	s.publish(Command{Type: CommandTick, TimeRemaining: remaining})
}

func (s *commandStream) ShowFeedback(correct bool, correctOptionID string, wasTimeout bool) {
	s.publish(Command{Type: CommandFeedback, Feedback: &Feedback{
		Correct:         correct,
		CorrectOptionID: correctOptionID,
		WasTimeout:      wasTimeout,
	}})
}

func (s *commandStream) ShowCelebration() {
	s.publish(Command{Type: CommandCelebration})
}

func (s *commandStream) ShowCompletionSummary(stats domain.SessionStats) {
	s.publish(Command{Type: CommandSummary, Stats: &stats})
}

func (s *commandStream) Close() {
	s.publish(Command{Type: CommandClose})
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	onClose := s.onClose
	s.mu.Unlock()
	if onClose != nil {
		onClose()
	}
}

func (s *commandStream) notice(msg string) {
	s.publish(Command{Type: CommandNotice, Notice: msg})
}

// redactCorrectFlags strips answer keys before a question leaves the engine
// boundary; the host learns the correct option only through feedback.
func redactCorrectFlags(q domain.Question) domain.Question {
	options := make([]domain.Option, len(q.Options))
	for i, opt := range q.Options {
		opt.Correct = false
		options[i] = opt
	}
	q.Options = options
	return q
}

// initialCommand rebuilds the "show question" command for a late subscriber
// joining an already-active session.
func initialCommand(state engine.State, q domain.Question) *Command {
	if state.Phase != engine.PhaseActive {
		return nil
	}
	shown := redactCorrectFlags(q)
	return &Command{Type: CommandQuestion, Question: &shown, TimeRemaining: state.TimeRemaining}
}
