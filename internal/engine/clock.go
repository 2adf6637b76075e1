package engine

import "time"

// Stopper cancels a pending timer callback. Stop reports whether the call
// prevented the callback from firing.
type Stopper interface {
	Stop() bool
}

// Clock abstracts time for the countdown timer and the effect scheduler so
// tests can drive both deterministically.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Stopper
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Stopper {
	return time.AfterFunc(d, f)
}

// RealClock returns a Clock backed by the time package.
func RealClock() Clock { return realClock{} }
