package repository

import (
	"fmt"
	"time"

	"rimble/internal/database"
	"rimble/internal/models"
)

// AttemptRepository handles database operations for the append-only
// attempt ledger.
type AttemptRepository struct {
	db database.DBTX
}

// NewAttemptRepository creates a new attempt repository
func NewAttemptRepository(db database.DBTX) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// ListByUserAndDate retrieves all attempts for a (user, date) pair in
// insertion order.
func (r *AttemptRepository) ListByUserAndDate(userID, date string) ([]models.Attempt, error) {
	query := `
		SELECT id, user_id, question_date, selected_answer, is_correct, score, created_at
		FROM attempts
		WHERE user_id = ? AND question_date = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(query, userID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	defer rows.Close()

	var attempts []models.Attempt
	for rows.Next() {
		var attempt models.Attempt
		err := rows.Scan(
			&attempt.ID,
			&attempt.UserID,
			&attempt.QuestionDate,
			&attempt.GuessText,
			&attempt.IsCorrect,
			&attempt.Score,
			&attempt.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// Insert records a new attempt. Attempts are never updated or deleted.
func (r *AttemptRepository) Insert(userID, date, guessText string, isCorrect bool, score int) (*models.Attempt, error) {
	query := `
		INSERT INTO attempts (user_id, question_date, selected_answer, is_correct, score)
		VALUES (?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query, userID, date, guessText, isCorrect, score)
	if err != nil {
		return nil, fmt.Errorf("failed to insert attempt: %w", err)
	}

	return &models.Attempt{
		ID:           id,
		UserID:       userID,
		QuestionDate: date,
		GuessText:    guessText,
		IsCorrect:    isCorrect,
		Score:        score,
		CreatedAt:    time.Now(),
	}, nil
}
