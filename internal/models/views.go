package models

// SlotView is the per-slot display data exposed to the client. Answer text
// is present only once the session is complete.
type SlotView struct {
	Index   int      `json:"index"`
	Label   string   `json:"label,omitempty"`
	Logos   []string `json:"logos,omitempty"`
	Retired bool     `json:"retired"`
	Found   *bool    `json:"found,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// QuestionView is the snapshot returned on page load. Progress fields are
// present only when a user identifier accompanied the request.
type QuestionView struct {
	QuestionDate   string     `json:"question_date"`
	Question       string     `json:"question"`
	Slots          []SlotView `json:"slots"`
	MaxMisses      int        `json:"max_misses"`
	RulesNote      string     `json:"rules_note,omitempty"`
	RetiredPlayers []string   `json:"retired_players,omitempty"`

	AttemptsRemaining *int     `json:"attempts_remaining,omitempty"`
	Guesses           []string `json:"guesses,omitempty"`
	CorrectGuesses    []string `json:"correct_guesses,omitempty"`
	IsComplete        *bool    `json:"is_complete,omitempty"`
	IsSolved          *bool    `json:"is_solved,omitempty"`
	CorrectAnswers    []string `json:"correct_answers,omitempty"`
}

// SubmissionResult is the state returned after a guess submission. It is
// also populated on game-rule rejections (duplicate, no attempts left) so
// the client can re-render without a second round trip.
type SubmissionResult struct {
	IsCorrect         bool     `json:"is_correct"`
	Score             int      `json:"score"`
	Streak            *int     `json:"streak"`
	IsComplete        bool     `json:"is_complete"`
	AttemptsRemaining int      `json:"attempts_remaining"`
	Guesses           []string `json:"guesses"`
	CorrectGuesses    []string `json:"correct_guesses,omitempty"`
	CorrectAnswers    []string `json:"correct_answers,omitempty"`
}

// ProfileView is the streak/score readout for the signed-in user
type ProfileView struct {
	ID            string `json:"id"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	CurrentStreak int    `json:"current_streak"`
	MaxStreak     int    `json:"max_streak"`
	TotalScore    int    `json:"total_score"`
}
