package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session exists for the given id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrPackageNotFound indicates package content could not be loaded.
	ErrPackageNotFound = errors.New("package not found")
	// ErrNoValidQuestions indicates every question in the requested packages
	// was malformed or the packages were empty.
	ErrNoValidQuestions = errors.New("no valid questions")
	// ErrKidNotFound indicates the learner id is unknown to the score store.
	ErrKidNotFound = errors.New("kid not found")
)
