package engine

// Scoreboard accumulates correct-answer count and total points for one
// session. RecordAnswer is the only mutation.
type Scoreboard struct {
	correctCount int
	totalPoints  int
}

// RecordAnswer appends one judged answer to the running totals.
func (b *Scoreboard) RecordAnswer(correct bool, points int) {
	if correct {
		b.correctCount++
	}
	b.totalPoints += points
}

// CorrectCount reports how many answers were correct so far.
func (b *Scoreboard) CorrectCount() int { return b.correctCount }

// TotalPoints reports the points accumulated so far.
func (b *Scoreboard) TotalPoints() int { return b.totalPoints }

// IsPerfect reports whether every question in a finished session was answered
// correctly. An empty session is never perfect.
func (b *Scoreboard) IsPerfect(totalQuestions int) bool {
	return totalQuestions > 0 && b.correctCount == totalQuestions
}
