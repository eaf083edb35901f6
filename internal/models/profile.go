package models

import "time"

// Profile is the per-user aggregate: streak and score state plus the
// account fields used by authentication.
type Profile struct {
	ID            string
	Email         string
	PasswordHash  string
	Name          string
	OAuthProvider string
	OAuthSubject  string
	IsAdmin       bool
	CurrentStreak int
	MaxStreak     int
	TotalScore    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
