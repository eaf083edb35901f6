package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"rimble/internal/database"
	"rimble/internal/models"
)

// QuestionRepository handles database operations for daily questions
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetByDate retrieves the question for a calendar date, or nil if none exists
func (r *QuestionRepository) GetByDate(date string) (*models.Question, error) {
	query := `
		SELECT question_date, question, options, option_logos, option_labels,
		       max_misses, rules_note, retired_players, created_at, updated_at
		FROM questions
		WHERE question_date = ?
	`

	question := &models.Question{}
	var optionsJSON, logosJSON, labelsJSON, retiredJSON []byte
	var maxMisses sql.NullInt64
	var rulesNote sql.NullString

	err := r.db.QueryRow(query, date).Scan(
		&question.Date,
		&question.Prompt,
		&optionsJSON,
		&logosJSON,
		&labelsJSON,
		&maxMisses,
		&rulesNote,
		&retiredJSON,
		&question.CreatedAt,
		&question.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	if maxMisses.Valid {
		misses := int(maxMisses.Int64)
		question.MaxMisses = &misses
	}
	if rulesNote.Valid {
		question.RulesNote = rulesNote.String
	}

	slots, err := decodeSlots(optionsJSON, logosJSON, labelsJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode question %s: %w", date, err)
	}
	question.Slots = slots

	if len(retiredJSON) > 0 {
		if err := json.Unmarshal(retiredJSON, &question.RetiredNames); err != nil {
			return nil, fmt.Errorf("failed to decode retired names for %s: %w", date, err)
		}
	}

	return question, nil
}

// Upsert inserts or replaces the question for its date
func (r *QuestionRepository) Upsert(question *models.Question) error {
	options := make([]models.StringList, len(question.Slots))
	logos := make([]models.StringList, len(question.Slots))
	labels := make([]string, len(question.Slots))
	for i, slot := range question.Slots {
		options[i] = slot.Answers
		logos[i] = slot.Logos
		labels[i] = slot.Label
	}

	optionsJSON, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("failed to encode options: %w", err)
	}
	logosJSON, err := json.Marshal(logos)
	if err != nil {
		return fmt.Errorf("failed to encode logos: %w", err)
	}
	labelsJSON, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("failed to encode labels: %w", err)
	}
	retired := question.RetiredNames
	if retired == nil {
		retired = []string{}
	}
	retiredJSON, err := json.Marshal(retired)
	if err != nil {
		return fmt.Errorf("failed to encode retired names: %w", err)
	}

	var maxMisses interface{}
	if question.MaxMisses != nil {
		maxMisses = *question.MaxMisses
	}
	var rulesNote interface{}
	if question.RulesNote != "" {
		rulesNote = question.RulesNote
	}

	_, err = r.db.Exec(r.db.GetDialect().UpsertQuestionQuery(),
		question.Date,
		question.Prompt,
		string(optionsJSON),
		string(logosJSON),
		string(labelsJSON),
		maxMisses,
		rulesNote,
		string(retiredJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert question: %w", err)
	}
	return nil
}

// decodeSlots zips the parallel options/logos/labels columns into slots.
// Option and logo entries may each be a single string or an array.
func decodeSlots(optionsJSON, logosJSON, labelsJSON []byte) ([]models.AnswerSlot, error) {
	var options []models.StringList
	if len(optionsJSON) > 0 {
		if err := json.Unmarshal(optionsJSON, &options); err != nil {
			return nil, fmt.Errorf("bad options column: %w", err)
		}
	}

	var logos []models.StringList
	if len(logosJSON) > 0 {
		if err := json.Unmarshal(logosJSON, &logos); err != nil {
			return nil, fmt.Errorf("bad option_logos column: %w", err)
		}
	}

	var labels []string
	if len(labelsJSON) > 0 {
		if err := json.Unmarshal(labelsJSON, &labels); err != nil {
			return nil, fmt.Errorf("bad option_labels column: %w", err)
		}
	}

	slots := make([]models.AnswerSlot, len(options))
	for i, answers := range options {
		slots[i] = models.AnswerSlot{Answers: answers}
		if i < len(logos) {
			slots[i].Logos = logos[i]
		}
		if i < len(labels) {
			slots[i].Label = labels[i]
		}
	}
	return slots, nil
}
