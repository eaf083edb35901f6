package models

import "time"

// Attempt is one durable guess record. Attempts for a (user, date) pair are
// append-only: the full history reconstructs session state on every read.
type Attempt struct {
	ID           int64
	UserID       string
	QuestionDate string
	GuessText    string
	IsCorrect    bool
	Score        int
	CreatedAt    time.Time
}
