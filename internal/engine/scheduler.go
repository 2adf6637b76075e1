package engine

import (
	"sync"
	"time"
)

// EffectScheduler is the single authority for delayed one-shot effects.
// Scheduling under an existing key cancels and replaces the prior entry, and
// every entry carries a generation token, so a timer that fires after its key
// was replaced or cancelled is a no-op.
type EffectScheduler struct {
	clock Clock

	mu      sync.Mutex
	gen     uint64
	entries map[string]*effectEntry
}

type effectEntry struct {
	gen  uint64
	stop Stopper
}

// NewEffectScheduler returns an empty scheduler driven by clock.
func NewEffectScheduler(clock Clock) *EffectScheduler {
	return &EffectScheduler{clock: clock, entries: make(map[string]*effectEntry)}
}

// Schedule arranges fn to run once after delay, replacing any pending entry
// under the same key.
func (s *EffectScheduler) Schedule(key string, delay time.Duration, fn func()) {
	s.mu.Lock()
	s.cancelLocked(key)
	s.gen++
	gen := s.gen
	s.entries[key] = &effectEntry{
		gen:  gen,
		stop: s.clock.AfterFunc(delay, func() { s.fire(key, gen, fn) }),
	}
	s.mu.Unlock()
}

// Cancel drops the pending entry under key, if any.
func (s *EffectScheduler) Cancel(key string) {
	s.mu.Lock()
	s.cancelLocked(key)
	s.mu.Unlock()
}

// CancelAll drops every pending entry. Used on session abort: no effect
// scheduled before the call may run afterwards.
func (s *EffectScheduler) CancelAll() {
	s.mu.Lock()
	for key, entry := range s.entries {
		entry.stop.Stop()
		delete(s.entries, key)
	}
	s.mu.Unlock()
}

// Pending reports whether an entry is scheduled under key.
func (s *EffectScheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[key]
	return ok
}

func (s *EffectScheduler) cancelLocked(key string) {
	if entry, ok := s.entries[key]; ok {
		entry.stop.Stop()
		delete(s.entries, key)
	}
}

func (s *EffectScheduler) fire(key string, gen uint64, fn func()) {
	s.mu.Lock()
	entry, ok := s.entries[key]
	if !ok || entry.gen != gen {
		s.mu.Unlock()
		return
	}
	delete(s.entries, key)
	s.mu.Unlock()
	fn()
}
