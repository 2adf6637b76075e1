package engine

import (
	"sync"
	"time"
)

// CountdownTimer counts down once per whole second and fires an expiry
// callback exactly once per Start call. Every Start, Stop, and Reset bumps a
// monotonic epoch; a tick scheduled under an older epoch is discarded, so a
// stop-and-restart within the same second can neither lose nor duplicate the
// expiry event.
type CountdownTimer struct {
	clock    Clock
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	epoch     uint64
	remaining int
	pending   Stopper
}

// NewCountdownTimer wires tick and expiry callbacks. Either callback may be
// nil. Callbacks are invoked without the timer's lock held, so they may call
// back into Stop or Reset.
func NewCountdownTimer(clock Clock, onTick func(remaining int), onExpire func()) *CountdownTimer {
	return &CountdownTimer{clock: clock, onTick: onTick, onExpire: onExpire}
}

// Start begins a fresh countdown from the given number of seconds. Starting
// while already running restarts cleanly: the old tick sequence is
// invalidated by the epoch bump.
func (t *CountdownTimer) Start(seconds int) {
	t.mu.Lock()
	t.epoch++
	epoch := t.epoch
	t.remaining = seconds
	t.stopPendingLocked()
	if seconds <= 0 {
		t.pending = t.clock.AfterFunc(0, func() { t.tick(epoch) })
	} else {
		t.pending = t.clock.AfterFunc(time.Second, func() { t.tick(epoch) })
	}
	t.mu.Unlock()
}

// Stop halts the countdown. The current epoch is invalidated, so a tick
// racing with Stop is a no-op.
func (t *CountdownTimer) Stop() {
	t.mu.Lock()
	t.epoch++
	t.stopPendingLocked()
	t.mu.Unlock()
}

// Reset replaces the remaining time and implicitly stops the countdown until
// Start is called again.
func (t *CountdownTimer) Reset(seconds int) {
	t.mu.Lock()
	t.epoch++
	t.stopPendingLocked()
	t.remaining = seconds
	t.mu.Unlock()
}

// Remaining reports the seconds left on the countdown.
func (t *CountdownTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

func (t *CountdownTimer) stopPendingLocked() {
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

func (t *CountdownTimer) tick(epoch uint64) {
	t.mu.Lock()
	if epoch != t.epoch {
		t.mu.Unlock()
		return
	}
	if t.remaining > 0 {
		t.remaining--
	}
	remaining := t.remaining
	expired := remaining <= 0
	if expired {
		// Invalidate the epoch so nothing else from this run can fire.
		t.epoch++
		t.pending = nil
	} else {
		t.pending = t.clock.AfterFunc(time.Second, func() { t.tick(epoch) })
	}
	onTick, onExpire := t.onTick, t.onExpire
	t.mu.Unlock()

	if onTick != nil {
		onTick(remaining)
	}
	if expired && onExpire != nil {
		onExpire()
	}
}
