package service

import (
	"errors"
	"fmt"
	"testing"

	"rimble/internal/game"
	"rimble/internal/models"
)

// In-memory store fakes so game flows run without a database

type fakeQuestionStore struct {
	questions map[string]*models.Question
	err       error
}

func (f *fakeQuestionStore) GetByDate(date string) (*models.Question, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.questions[date], nil
}

type fakeAttemptStore struct {
	attempts  []models.Attempt
	nextID    int64
	insertErr error
}

func (f *fakeAttemptStore) ListByUserAndDate(userID, date string) ([]models.Attempt, error) {
	var out []models.Attempt
	for _, a := range f.attempts {
		if a.UserID == userID && a.QuestionDate == date {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) Insert(userID, date, guessText string, isCorrect bool, score int) (*models.Attempt, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.nextID++
	attempt := models.Attempt{
		ID:           f.nextID,
		UserID:       userID,
		QuestionDate: date,
		GuessText:    guessText,
		IsCorrect:    isCorrect,
		Score:        score,
	}
	f.attempts = append(f.attempts, attempt)
	return &attempt, nil
}

type fakeProfileStore struct {
	profiles map[string]*models.Profile
	updates  int
}

func (f *fakeProfileStore) EnsureExists(userID string) error {
	if f.profiles == nil {
		f.profiles = make(map[string]*models.Profile)
	}
	if _, ok := f.profiles[userID]; !ok {
		f.profiles[userID] = &models.Profile{ID: userID}
	}
	return nil
}

func (f *fakeProfileStore) GetByID(userID string) (*models.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileStore) UpdateStreakAndScore(userID string, currentStreak, maxStreak, totalScore int) error {
	p := f.profiles[userID]
	p.CurrentStreak = currentStreak
	p.MaxStreak = maxStreak
	p.TotalScore = totalScore
	f.updates++
	return nil
}

const testDate = "2026-08-30"

func intPtr(n int) *int { return &n }

func testQuestion(slots [][]string, maxMisses *int) *models.Question {
	question := &models.Question{
		Date:      testDate,
		Prompt:    "Name the scoring leaders",
		MaxMisses: maxMisses,
	}
	for _, answers := range slots {
		question.Slots = append(question.Slots, models.AnswerSlot{Answers: answers})
	}
	return question
}

func newTestService(question *models.Question) (*GameService, *fakeAttemptStore, *fakeProfileStore) {
	questions := &fakeQuestionStore{questions: map[string]*models.Question{}}
	if question != nil {
		questions.questions[question.Date] = question
	}
	attempts := &fakeAttemptStore{}
	profiles := &fakeProfileStore{}
	rules := game.NewRules([]string{"jr", "sr", "ii", "iii", "iv", "v"}, 5)
	return NewGameService(questions, attempts, profiles, rules), attempts, profiles
}

func TestSubmitValidation(t *testing.T) {
	svc, _, _ := newTestService(testQuestion([][]string{{"Michael Jordan"}}, nil))

	tests := []struct {
		name    string
		userID  string
		guess   string
		wantErr error
	}{
		{"missing user", "", "Jordan", ErrMissingUser},
		{"whitespace user", "   ", "Jordan", ErrMissingUser},
		{"missing guess", "user-1", "", ErrMissingGuess},
		{"whitespace guess", "user-1", "   ", ErrMissingGuess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Submit(tt.userID, testDate, tt.guess)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Submit() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubmitNoQuestion(t *testing.T) {
	svc, _, _ := newTestService(nil)

	_, err := svc.Submit("user-1", testDate, "Jordan")
	if !errors.Is(err, ErrNoQuestion) {
		t.Errorf("Submit() error = %v, want ErrNoQuestion", err)
	}
}

func TestSubmitCorrectGuess(t *testing.T) {
	svc, attempts, _ := newTestService(testQuestion([][]string{
		{"Michael Jordan"},
		{"LeBron James"},
	}, nil))

	result, err := svc.Submit("user-1", testDate, "Jordan")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !result.IsCorrect {
		t.Error("guess should be correct")
	}
	if result.Score != 100 {
		t.Errorf("Score = %d, want 100", result.Score)
	}
	if result.IsComplete {
		t.Error("one of two slots should not complete the puzzle")
	}
	if result.Streak != nil {
		t.Error("streak must be null on a non-completing guess")
	}
	if result.AttemptsRemaining != 5 {
		t.Errorf("AttemptsRemaining = %d, want 5 (correct guesses don't consume budget)", result.AttemptsRemaining)
	}
	if len(result.Guesses) != 1 || result.Guesses[0] != "Jordan" {
		t.Errorf("Guesses = %v, want [Jordan]", result.Guesses)
	}
	if result.CorrectAnswers != nil {
		t.Error("answers must not be revealed before completion")
	}
	if len(attempts.attempts) != 1 {
		t.Fatalf("expected 1 persisted attempt, got %d", len(attempts.attempts))
	}
	if !attempts.attempts[0].IsCorrect || attempts.attempts[0].Score != 100 {
		t.Error("persisted attempt should carry correctness and score")
	}
}

func TestSubmitIncorrectGuess(t *testing.T) {
	svc, _, profiles := newTestService(testQuestion([][]string{{"Michael Jordan"}}, nil))

	result, err := svc.Submit("user-1", testDate, "Larry Bird")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if result.IsCorrect {
		t.Error("guess should be incorrect")
	}
	if result.Score != 0 {
		t.Errorf("Score = %d, want 0", result.Score)
	}
	if result.AttemptsRemaining != 4 {
		t.Errorf("AttemptsRemaining = %d, want 4", result.AttemptsRemaining)
	}
	if profiles.updates != 0 {
		t.Error("profile must be untouched on a non-completing guess")
	}
}

func TestSubmitDuplicate(t *testing.T) {
	svc, _, _ := newTestService(testQuestion([][]string{{"LeBron James"}, {"Michael Jordan"}}, nil))

	if _, err := svc.Submit("user-1", testDate, "LeBron James"); err != nil {
		t.Fatalf("first Submit() error = %v", err)
	}

	tests := []struct {
		name  string
		guess string
	}{
		{"exact repeat", "LeBron James"},
		{"case and spacing variant", "lebron   JAMES"},
		{"synonym for the same slot", "James"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Submit("user-1", testDate, tt.guess)
			if !errors.Is(err, ErrAlreadyGuessed) {
				t.Fatalf("Submit() error = %v, want ErrAlreadyGuessed", err)
			}
			if result == nil {
				t.Fatal("rejection must still return current state")
			}
			if result.IsComplete {
				t.Error("duplicate rejection must not complete the puzzle")
			}
			if result.CorrectAnswers != nil {
				t.Error("duplicate rejection must not reveal answers")
			}
			if len(result.Guesses) != 1 {
				t.Errorf("Guesses = %v, duplicate must not be recorded", result.Guesses)
			}
		})
	}
}

func TestSubmitWinUpdatesStreak(t *testing.T) {
	svc, _, profiles := newTestService(testQuestion([][]string{
		{"Michael Jordan"},
		{"LeBron James"},
	}, nil))

	profiles.EnsureExists("user-1")
	profiles.profiles["user-1"].CurrentStreak = 3
	profiles.profiles["user-1"].MaxStreak = 3
	profiles.profiles["user-1"].TotalScore = 700

	// Find slots out of order: slot 1 first, then slot 0
	if _, err := svc.Submit("user-1", testDate, "James"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	result, err := svc.Submit("user-1", testDate, "Jordan")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !result.IsComplete {
		t.Fatal("finding every slot should complete the puzzle")
	}
	if result.Streak == nil || *result.Streak != 4 {
		t.Errorf("Streak = %v, want 4", result.Streak)
	}
	if result.CorrectAnswers == nil {
		t.Error("completion must reveal the answer list")
	}

	profile := profiles.profiles["user-1"]
	if profile.CurrentStreak != 4 || profile.MaxStreak != 4 {
		t.Errorf("profile streaks = %d/%d, want 4/4", profile.CurrentStreak, profile.MaxStreak)
	}
	// Documented quirk: only the completing guess's score is banked; the
	// first correct guess's 100 points never reach the profile.
	if profile.TotalScore != 800 {
		t.Errorf("TotalScore = %d, want 800 (completing guess only)", profile.TotalScore)
	}
	if profiles.updates != 1 {
		t.Errorf("profile updated %d times, want exactly once", profiles.updates)
	}
}

func TestSubmitLossResetsStreak(t *testing.T) {
	svc, _, profiles := newTestService(testQuestion([][]string{{"Michael Jordan"}}, intPtr(2)))

	profiles.EnsureExists("user-1")
	profiles.profiles["user-1"].CurrentStreak = 6
	profiles.profiles["user-1"].MaxStreak = 9
	profiles.profiles["user-1"].TotalScore = 500

	if _, err := svc.Submit("user-1", testDate, "wrong one"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	result, err := svc.Submit("user-1", testDate, "wrong two")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if !result.IsComplete {
		t.Fatal("exhausting the miss budget should complete the puzzle")
	}
	if result.Streak == nil || *result.Streak != 0 {
		t.Errorf("Streak = %v, want 0", result.Streak)
	}
	if result.CorrectAnswers == nil {
		t.Error("losing completion must still reveal answers")
	}

	profile := profiles.profiles["user-1"]
	if profile.CurrentStreak != 0 {
		t.Errorf("CurrentStreak = %d, want 0", profile.CurrentStreak)
	}
	if profile.MaxStreak != 9 {
		t.Errorf("MaxStreak = %d, must never decrease", profile.MaxStreak)
	}
	if profile.TotalScore != 500 {
		t.Errorf("TotalScore = %d, want 500 (losing guess scores 0)", profile.TotalScore)
	}
}

func TestSubmitAfterCompletion(t *testing.T) {
	svc, _, _ := newTestService(testQuestion([][]string{{"Michael Jordan"}}, intPtr(1)))

	t.Run("already solved", func(t *testing.T) {
		if _, err := svc.Submit("solver", testDate, "Jordan"); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		result, err := svc.Submit("solver", testDate, "LeBron")
		if !errors.Is(err, ErrAlreadySolved) {
			t.Fatalf("Submit() error = %v, want ErrAlreadySolved", err)
		}
		if result == nil || !result.IsComplete {
			t.Fatal("rejection must return the complete state")
		}
		if result.CorrectAnswers == nil {
			t.Error("complete state must include answers")
		}
	})

	t.Run("no attempts left", func(t *testing.T) {
		if _, err := svc.Submit("loser", testDate, "wrong"); err != nil {
			t.Fatalf("Submit() error = %v", err)
		}
		result, err := svc.Submit("loser", testDate, "another")
		if !errors.Is(err, ErrNoAttemptsLeft) {
			t.Fatalf("Submit() error = %v, want ErrNoAttemptsLeft", err)
		}
		if result == nil || !result.IsComplete {
			t.Fatal("rejection must return the complete state")
		}
		if result.AttemptsRemaining != 0 {
			t.Errorf("AttemptsRemaining = %d, want 0", result.AttemptsRemaining)
		}
	})
}

// TestSubmitMissScenario is the documented six-guess walk: budget 5, three
// disjoint slots, W W C W W leaves four misses and an open puzzle; a sixth
// wrong guess completes it as a loss.
func TestSubmitMissScenario(t *testing.T) {
	svc, _, profiles := newTestService(testQuestion([][]string{
		{"Michael Jordan"},
		{"LeBron James"},
		{"Kobe Bryant"},
	}, nil))

	profiles.EnsureExists("user-1")
	profiles.profiles["user-1"].CurrentStreak = 2
	profiles.profiles["user-1"].MaxStreak = 2

	sequence := []struct {
		guess       string
		wantCorrect bool
	}{
		{"wrong one", false},
		{"wrong two", false},
		{"Jordan", true},
		{"wrong three", false},
		{"wrong four", false},
	}

	var last *models.SubmissionResult
	for i, step := range sequence {
		result, err := svc.Submit("user-1", testDate, step.guess)
		if err != nil {
			t.Fatalf("guess %d: Submit() error = %v", i+1, err)
		}
		if result.IsCorrect != step.wantCorrect {
			t.Errorf("guess %d: IsCorrect = %v, want %v", i+1, result.IsCorrect, step.wantCorrect)
		}
		last = result
	}

	if last.IsComplete {
		t.Fatal("puzzle must stay open at 4 of 5 misses")
	}
	if last.AttemptsRemaining != 1 {
		t.Errorf("AttemptsRemaining = %d, want 1", last.AttemptsRemaining)
	}

	result, err := svc.Submit("user-1", testDate, "wrong five")
	if err != nil {
		t.Fatalf("final Submit() error = %v", err)
	}
	if !result.IsComplete {
		t.Error("fifth miss must complete the puzzle")
	}
	if result.Streak == nil || *result.Streak != 0 {
		t.Errorf("Streak = %v, want 0 after losing completion", result.Streak)
	}
	if profiles.profiles["user-1"].MaxStreak != 2 {
		t.Error("max streak must survive a loss")
	}
}

func TestSubmitInsertFailure(t *testing.T) {
	svc, attempts, profiles := newTestService(testQuestion([][]string{{"Michael Jordan"}}, nil))
	attempts.insertErr = fmt.Errorf("connection reset")

	_, err := svc.Submit("user-1", testDate, "Jordan")

	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("Submit() error = %v, want StoreError", err)
	}
	if storeErr.Op != "insert attempt" {
		t.Errorf("StoreError.Op = %q, want %q", storeErr.Op, "insert attempt")
	}
	if len(attempts.attempts) != 0 {
		t.Error("failed insert must leave the ledger untouched")
	}
	if profiles.updates != 0 {
		t.Error("failed insert must leave the profile untouched")
	}
}

func TestSnapshotAnonymous(t *testing.T) {
	question := testQuestion([][]string{{"Michael Jordan"}, {"LeBron James"}}, nil)
	question.RulesNote = "Active players show current team logo."
	question.RetiredNames = []string{"Michael Jordan"}
	svc, _, _ := newTestService(question)

	view, err := svc.Snapshot(testDate, "")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if view.MaxMisses != 5 {
		t.Errorf("MaxMisses = %d, want default 5", view.MaxMisses)
	}
	if view.AttemptsRemaining != nil || view.IsComplete != nil || view.Guesses != nil {
		t.Error("anonymous view must carry no progress fields")
	}
	if len(view.Slots) != 2 {
		t.Fatalf("Slots = %d, want 2", len(view.Slots))
	}
	if !view.Slots[0].Retired || view.Slots[1].Retired {
		t.Error("retired flags should mark only the retired slot")
	}
	for _, slot := range view.Slots {
		if slot.Answer != "" {
			t.Error("anonymous view must not reveal answer text")
		}
	}
}

func TestSnapshotWithUser(t *testing.T) {
	svc, _, _ := newTestService(testQuestion([][]string{
		{"Michael Jordan"},
		{"LeBron James"},
	}, nil))

	if _, err := svc.Submit("user-1", testDate, "Jordan"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if _, err := svc.Submit("user-1", testDate, "wrong"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	view, err := svc.Snapshot(testDate, "user-1")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if view.AttemptsRemaining == nil || *view.AttemptsRemaining != 4 {
		t.Errorf("AttemptsRemaining = %v, want 4", view.AttemptsRemaining)
	}
	if len(view.Guesses) != 2 {
		t.Errorf("Guesses = %v, want both attempts", view.Guesses)
	}
	if len(view.CorrectGuesses) != 1 || view.CorrectGuesses[0] != "Jordan" {
		t.Errorf("CorrectGuesses = %v, want [Jordan]", view.CorrectGuesses)
	}
	if view.IsComplete == nil || *view.IsComplete {
		t.Error("puzzle should still be open")
	}
	if view.Slots[0].Found == nil || !*view.Slots[0].Found {
		t.Error("slot 0 should be marked found")
	}
	if view.Slots[1].Found == nil || *view.Slots[1].Found {
		t.Error("slot 1 should not be marked found")
	}
	if view.CorrectAnswers != nil {
		t.Error("open puzzle must not reveal answers")
	}
}

// TestSnapshotIdempotentAfterCompletion verifies repeated snapshot reads
// after completion never mutate attempts or profile state.
func TestSnapshotIdempotentAfterCompletion(t *testing.T) {
	svc, attempts, profiles := newTestService(testQuestion([][]string{{"Michael Jordan"}}, nil))

	if _, err := svc.Submit("user-1", testDate, "Jordan"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	attemptCount := len(attempts.attempts)
	updateCount := profiles.updates

	for i := 0; i < 3; i++ {
		view, err := svc.Snapshot(testDate, "user-1")
		if err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
		if view.IsSolved == nil || !*view.IsSolved {
			t.Error("snapshot should report the puzzle solved")
		}
		if view.CorrectAnswers == nil {
			t.Error("completed snapshot must reveal answers")
		}
	}

	if len(attempts.attempts) != attemptCount || profiles.updates != updateCount {
		t.Error("snapshot reads must not mutate attempts or profile")
	}
}

func TestSnapshotNoQuestion(t *testing.T) {
	svc, _, _ := newTestService(nil)

	if _, err := svc.Snapshot(testDate, ""); !errors.Is(err, ErrNoQuestion) {
		t.Errorf("Snapshot() error = %v, want ErrNoQuestion", err)
	}
}

func TestProfileReadout(t *testing.T) {
	svc, _, profiles := newTestService(testQuestion([][]string{{"Michael Jordan"}}, nil))

	view, err := svc.Profile("user-1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if view.CurrentStreak != 0 || view.TotalScore != 0 {
		t.Error("fresh profile should start at zero")
	}

	if _, err := svc.Submit("user-1", testDate, "Jordan"); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	view, err = svc.Profile("user-1")
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if view.CurrentStreak != 1 || view.TotalScore != 100 {
		t.Errorf("profile = streak %d score %d, want 1/100", view.CurrentStreak, view.TotalScore)
	}

	if _, err := svc.Profile(""); !errors.Is(err, ErrMissingUser) {
		t.Error("empty user must be rejected")
	}
	_ = profiles
}
