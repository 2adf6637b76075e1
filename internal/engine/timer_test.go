package engine

import (
	"testing"
	"time"
)

func TestCountdownExpiresExactlyOnce(t *testing.T) {
	clock := newFakeClock()
	var ticks []int
	expiries := 0
	timer := NewCountdownTimer(clock, func(remaining int) {
		ticks = append(ticks, remaining)
	}, func() {
		expiries++
	})

	timer.Start(3)
	clock.Advance(10 * time.Second)

	if expiries != 1 {
		t.Fatalf("expected exactly one expiry, got %d", expiries)
	}
	want := []int{2, 1, 0}
	if len(ticks) != len(want) {
		t.Fatalf("expected ticks %v, got %v", want, ticks)
	}
	for i := range want {
		if ticks[i] != want[i] {
			t.Fatalf("expected ticks %v, got %v", want, ticks)
		}
	}
}

func TestCountdownExpiresAtTickN(t *testing.T) {
	clock := newFakeClock()
	expiries := 0
	timer := NewCountdownTimer(clock, nil, func() { expiries++ })

	timer.Start(5)
	clock.Advance(4 * time.Second)
	if expiries != 0 {
		t.Fatalf("expired before tick n: %d", expiries)
	}
	clock.Advance(time.Second)
	if expiries != 1 {
		t.Fatalf("expected expiry at tick 5, got %d", expiries)
	}
}

func TestStopPreventsExpiry(t *testing.T) {
	clock := newFakeClock()
	expiries := 0
	timer := NewCountdownTimer(clock, nil, func() { expiries++ })

	timer.Start(2)
	clock.Advance(time.Second)
	timer.Stop()
	clock.Advance(10 * time.Second)
	if expiries != 0 {
		t.Fatalf("expected no expiry after stop, got %d", expiries)
	}
}

func TestRestartWithinSameTickKeepsSingleExpiry(t *testing.T) {
	clock := newFakeClock()
	expiries := 0
	timer := NewCountdownTimer(clock, nil, func() { expiries++ })

	// Start, immediately stop, and restart before any tick lands. The old
	// tick sequence must be invalidated without eating the new expiry.
	timer.Start(2)
	timer.Stop()
	timer.Start(2)
	clock.Advance(10 * time.Second)
	if expiries != 1 {
		t.Fatalf("expected exactly one expiry after restart, got %d", expiries)
	}
}

func TestRestartInvalidatesOldTickSequence(t *testing.T) {
	clock := newFakeClock()
	var ticks []int
	timer := NewCountdownTimer(clock, func(remaining int) {
		ticks = append(ticks, remaining)
	}, nil)

	timer.Start(5)
	clock.Advance(2 * time.Second) // ticks 4, 3
	timer.Start(2)
	clock.Advance(time.Second)

	if len(ticks) != 3 || ticks[2] != 1 {
		t.Fatalf("expected restarted countdown to tick from 1, got %v", ticks)
	}
}

func TestResetStopsUntilStarted(t *testing.T) {
	clock := newFakeClock()
	expiries := 0
	timer := NewCountdownTimer(clock, nil, func() { expiries++ })

	timer.Start(3)
	timer.Reset(10)
	clock.Advance(time.Minute)
	if expiries != 0 {
		t.Fatalf("reset should stop the countdown, got %d expiries", expiries)
	}
	if timer.Remaining() != 10 {
		t.Fatalf("expected remaining 10 after reset, got %d", timer.Remaining())
	}

	timer.Start(10)
	clock.Advance(10 * time.Second)
	if expiries != 1 {
		t.Fatalf("expected one expiry after restart, got %d", expiries)
	}
}

func TestStopDuringFinalTickRace(t *testing.T) {
	clock := newFakeClock()
	expiries := 0
	var timer *CountdownTimer
	timer = NewCountdownTimer(clock, func(remaining int) {
		if remaining == 1 {
			// A consumer reacting to the penultimate tick by stopping.
			timer.Stop()
		}
	}, func() {
		expiries++
	})

	timer.Start(2)
	clock.Advance(5 * time.Second)
	if expiries != 0 {
		t.Fatalf("stop on the final tick boundary must suppress expiry, got %d", expiries)
	}
}
