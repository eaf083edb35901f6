package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"rimble/internal/game"
	"rimble/internal/models"
)

var (
	ErrMissingUser    = errors.New("missing user_id")
	ErrMissingGuess   = errors.New("missing guess")
	ErrNoQuestion     = errors.New("no question today")
	ErrAlreadySolved  = errors.New("already solved")
	ErrNoAttemptsLeft = errors.New("no attempts left")
	ErrAlreadyGuessed = errors.New("already guessed")
)

// StoreError is a persistence failure surfaced with diagnostic detail.
// The request is not retried: at-most-once write semantics per request.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// QuestionStore provides read access to daily questions
type QuestionStore interface {
	GetByDate(date string) (*models.Question, error)
}

// AttemptStore provides access to the append-only attempt ledger
type AttemptStore interface {
	ListByUserAndDate(userID, date string) ([]models.Attempt, error)
	Insert(userID, date, guessText string, isCorrect bool, score int) (*models.Attempt, error)
}

// ProfileStore provides access to per-user streak/score state
type ProfileStore interface {
	EnsureExists(userID string) error
	GetByID(userID string) (*models.Profile, error)
	UpdateStreakAndScore(userID string, currentStreak, maxStreak, totalScore int) error
}

// GameService coordinates guess submissions and daily snapshots. Store
// access goes through the injected interfaces so tests run against fakes.
type GameService struct {
	questions QuestionStore
	attempts  AttemptStore
	profiles  ProfileStore
	rules     *game.Rules
	email     *EmailService
}

// streakMilestoneInterval is the streak length between congratulation emails
const streakMilestoneInterval = 7

// NewGameService creates a new game service
func NewGameService(questions QuestionStore, attempts AttemptStore, profiles ProfileStore, rules *game.Rules) *GameService {
	return &GameService{
		questions: questions,
		attempts:  attempts,
		profiles:  profiles,
		rules:     rules,
	}
}

// SetEmailService enables streak milestone emails
func (s *GameService) SetEmailService(email *EmailService) {
	s.email = email
}

// Submit evaluates one guess for the day's question, persists the attempt,
// and applies the streak/score transition when this guess completes the
// puzzle. Game-rule rejections (already solved, out of attempts, duplicate)
// return the current state alongside the sentinel error so the caller can
// re-render without a second fetch.
//
// Note: the read-then-decide-then-write sequence is not serialized per
// (user, date); two concurrent submissions can both pass the budget check
// and overshoot it by one. This matches the reference behavior.
func (s *GameService) Submit(userID, date, rawGuess string) (*models.SubmissionResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}
	guess := strings.TrimSpace(rawGuess)
	if guess == "" {
		return nil, ErrMissingGuess
	}

	// Profile row must exist regardless of game outcome
	if err := s.profiles.EnsureExists(userID); err != nil {
		return nil, &StoreError{Op: "ensure profile", Err: err}
	}

	question, err := s.questions.GetByDate(date)
	if err != nil {
		return nil, &StoreError{Op: "load question", Err: err}
	}
	if question == nil {
		return nil, ErrNoQuestion
	}

	sets := s.rules.AcceptableSets(question.SlotAnswers())
	budget := s.rules.MissBudget(question.MaxMisses)

	prior, err := s.attempts.ListByUserAndDate(userID, date)
	if err != nil {
		return nil, &StoreError{Op: "load attempts", Err: err}
	}
	records := toRecords(prior)

	summary := game.Summarize(records, sets)
	outcome := game.Evaluate(summary.Found, summary.MissesUsed, budget)

	// Session already over: reject, revealing the complete state
	if outcome.IsComplete {
		result := buildResult(question, prior, summary, outcome, budget, nil, 0, false)
		if outcome.AllFound {
			return result, ErrAlreadySolved
		}
		return result, ErrNoAttemptsLeft
	}

	// Duplicate guesses reveal nothing extra
	if game.IsDuplicate(guess, records, sets) {
		result := buildResult(question, prior, summary, outcome, budget, nil, 0, false)
		return result, ErrAlreadyGuessed
	}

	slot := game.MatchSlot(guess, sets)
	isCorrect := slot != game.NoMatch
	score := game.Score(isCorrect)

	attempt, err := s.attempts.Insert(userID, date, guess, isCorrect, score)
	if err != nil {
		// Nothing was persisted; the client may resubmit safely
		return nil, &StoreError{Op: "insert attempt", Err: err}
	}

	all := append(prior, *attempt)
	summary = game.Summarize(toRecords(all), sets)
	outcome = game.Evaluate(summary.Found, summary.MissesUsed, budget)

	// Streak and score move exactly once, on the completing attempt, and
	// the profile banks only that attempt's score.
	var streak *int
	if outcome.IsComplete {
		profile, err := s.profiles.GetByID(userID)
		if err != nil {
			return nil, &StoreError{Op: "load profile", Err: err}
		}
		if profile != nil {
			newStreak, newMax := game.NextStreak(profile.CurrentStreak, profile.MaxStreak, outcome.AllFound)
			if err := s.profiles.UpdateStreakAndScore(userID, newStreak, newMax, profile.TotalScore+score); err != nil {
				return nil, &StoreError{Op: "update profile", Err: err}
			}
			streak = &newStreak
			if outcome.AllFound && newStreak%streakMilestoneInterval == 0 {
				s.notifyMilestone(profile, newStreak)
			}
		}
	}

	return buildResult(question, all, summary, outcome, budget, streak, score, isCorrect), nil
}

// Snapshot reconstructs the current visible state for a (date, user) pair
// without side effects. With no user it returns the anonymous preview.
func (s *GameService) Snapshot(date, userID string) (*models.QuestionView, error) {
	question, err := s.questions.GetByDate(date)
	if err != nil {
		return nil, &StoreError{Op: "load question", Err: err}
	}
	if question == nil {
		return nil, ErrNoQuestion
	}

	budget := s.rules.MissBudget(question.MaxMisses)
	view := &models.QuestionView{
		QuestionDate:   question.Date,
		Question:       question.Prompt,
		Slots:          s.buildSlotViews(question, nil, false),
		MaxMisses:      budget,
		RulesNote:      question.RulesNote,
		RetiredPlayers: question.RetiredNames,
	}

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return view, nil
	}

	attempts, err := s.attempts.ListByUserAndDate(userID, date)
	if err != nil {
		return nil, &StoreError{Op: "load attempts", Err: err}
	}

	sets := s.rules.AcceptableSets(question.SlotAnswers())
	summary := game.Summarize(toRecords(attempts), sets)
	outcome := game.Evaluate(summary.Found, summary.MissesUsed, budget)

	remaining := game.AttemptsRemaining(summary.MissesUsed, budget)
	view.AttemptsRemaining = &remaining
	view.Guesses = attemptTexts(attempts)
	view.CorrectGuesses = correctTexts(attempts)
	view.IsComplete = &outcome.IsComplete
	view.IsSolved = &outcome.AllFound
	view.Slots = s.buildSlotViews(question, summary.Found, outcome.IsComplete)
	if outcome.IsComplete {
		view.CorrectAnswers = question.AnswerDisplayNames()
	}

	return view, nil
}

// Profile returns the streak/score readout for a user, creating the bare
// profile row on first sight.
func (s *GameService) Profile(userID string) (*models.ProfileView, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrMissingUser
	}

	if err := s.profiles.EnsureExists(userID); err != nil {
		return nil, &StoreError{Op: "ensure profile", Err: err}
	}
	profile, err := s.profiles.GetByID(userID)
	if err != nil {
		return nil, &StoreError{Op: "load profile", Err: err}
	}
	if profile == nil {
		return nil, &StoreError{Op: "load profile", Err: errors.New("profile missing after ensure")}
	}

	return &models.ProfileView{
		ID:            profile.ID,
		Email:         profile.Email,
		Name:          profile.Name,
		CurrentStreak: profile.CurrentStreak,
		MaxStreak:     profile.MaxStreak,
		TotalScore:    profile.TotalScore,
	}, nil
}

// notifyMilestone sends the streak congratulation email best-effort, off
// the request path.
func (s *GameService) notifyMilestone(profile *models.Profile, streak int) {
	if s.email == nil || !s.email.IsEnabled() || profile.Email == "" {
		return
	}
	email, name := profile.Email, profile.Name
	go func() {
		if err := s.email.SendStreakMilestoneEmail(context.Background(), email, name, streak); err != nil {
			log.Printf("Warning: failed to send streak milestone email to %s: %v", email, err)
		}
	}()
}

// buildSlotViews assembles per-slot display data. Found flags are included
// when a summary is available; answer text only once the session is over.
func (s *GameService) buildSlotViews(question *models.Question, found []bool, revealAll bool) []models.SlotView {
	retired := make(map[string]bool, len(question.RetiredNames))
	for _, name := range question.RetiredNames {
		retired[game.Normalize(name)] = true
	}

	views := make([]models.SlotView, len(question.Slots))
	for i, slot := range question.Slots {
		view := models.SlotView{
			Index: i,
			Label: slot.Label,
			Logos: slot.Logos,
		}
		for _, answer := range slot.Answers {
			if retired[game.Normalize(answer)] {
				view.Retired = true
				break
			}
		}
		if found != nil {
			f := found[i]
			view.Found = &f
		}
		if revealAll {
			view.Answer = slot.DisplayName()
		}
		views[i] = view
	}
	return views
}

func buildResult(question *models.Question, attempts []models.Attempt, summary game.Summary, outcome game.Outcome, budget int, streak *int, score int, isCorrect bool) *models.SubmissionResult {
	result := &models.SubmissionResult{
		IsCorrect:         isCorrect,
		Score:             score,
		Streak:            streak,
		IsComplete:        outcome.IsComplete,
		AttemptsRemaining: game.AttemptsRemaining(summary.MissesUsed, budget),
		Guesses:           attemptTexts(attempts),
		CorrectGuesses:    correctTexts(attempts),
	}
	if outcome.IsComplete {
		result.CorrectAnswers = question.AnswerDisplayNames()
	}
	return result
}

func toRecords(attempts []models.Attempt) []game.AttemptRecord {
	records := make([]game.AttemptRecord, len(attempts))
	for i, attempt := range attempts {
		records[i] = game.AttemptRecord{Text: attempt.GuessText, IsCorrect: attempt.IsCorrect}
	}
	return records
}

func attemptTexts(attempts []models.Attempt) []string {
	texts := make([]string, len(attempts))
	for i, attempt := range attempts {
		texts[i] = attempt.GuessText
	}
	return texts
}

func correctTexts(attempts []models.Attempt) []string {
	var texts []string
	for _, attempt := range attempts {
		if attempt.IsCorrect {
			texts = append(texts, attempt.GuessText)
		}
	}
	return texts
}
