package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"rimble/internal/database"
)

// BackupData represents the complete database backup structure
type BackupData struct {
	Version      string           `json:"version"`
	ExportedAt   time.Time        `json:"exported_at"`
	DatabaseType string           `json:"database_type"`
	Questions    []QuestionBackup `json:"questions"`
	Profiles     []ProfileBackup  `json:"profiles"`
	Attempts     []AttemptBackup  `json:"attempts"`
}

// QuestionBackup represents a daily question record for backup
type QuestionBackup struct {
	QuestionDate   string    `json:"question_date"`
	Question       string    `json:"question"`
	Options        string    `json:"options"`
	OptionLogos    string    `json:"option_logos"`
	OptionLabels   string    `json:"option_labels"`
	MaxMisses      *int      `json:"max_misses"`
	RulesNote      string    `json:"rules_note"`
	RetiredPlayers string    `json:"retired_players"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProfileBackup represents a player profile record for backup
type ProfileBackup struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Name          string    `json:"name"`
	OAuthProvider string    `json:"oauth_provider"`
	OAuthSubject  string    `json:"oauth_subject"`
	IsAdmin       bool      `json:"is_admin"`
	CurrentStreak int       `json:"current_streak"`
	MaxStreak     int       `json:"max_streak"`
	TotalScore    int       `json:"total_score"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AttemptBackup represents a guess attempt record for backup
type AttemptBackup struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	QuestionDate   string    `json:"question_date"`
	SelectedAnswer string    `json:"selected_answer"`
	IsCorrect      bool      `json:"is_correct"`
	Score          int       `json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := s.ExportToWriter(file); err != nil {
		return err
	}

	log.Printf("Database exported successfully to %s", outputPath)
	return nil
}

// ExportToWriter exports the database to an io.Writer (useful for HTTP responses)
func (s *BackupService) ExportToWriter(w io.Writer) error {
	backup := &BackupData{
		Version:      "1.0",
		ExportedAt:   time.Now(),
		DatabaseType: "universal",
	}

	if err := s.exportQuestions(backup); err != nil {
		return fmt.Errorf("failed to export questions: %w", err)
	}
	if err := s.exportProfiles(backup); err != nil {
		return fmt.Errorf("failed to export profiles: %w", err)
	}
	if err := s.exportAttempts(backup); err != nil {
		return fmt.Errorf("failed to export attempts: %w", err)
	}

	log.Printf("Exported: %d questions, %d profiles, %d attempts",
		len(backup.Questions), len(backup.Profiles), len(backup.Attempts))

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(backup)
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(file)
}

// ImportFromReader restores a database from a backup reader (for file
// uploads). The whole restore runs in one transaction: a failed import
// leaves the database untouched.
func (s *BackupService) ImportFromReader(reader io.Reader) error {
	var backup BackupData
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer tx.Rollback()

	// Import in order of dependencies
	if err := importQuestions(tx, backup.Questions); err != nil {
		return fmt.Errorf("failed to import questions: %w", err)
	}
	if err := importProfiles(tx, backup.Profiles); err != nil {
		return fmt.Errorf("failed to import profiles: %w", err)
	}
	if err := importAttempts(tx, backup.Attempts); err != nil {
		return fmt.Errorf("failed to import attempts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportQuestions(backup *BackupData) error {
	query := `
		SELECT question_date, question, options, COALESCE(option_logos, ''), COALESCE(option_labels, ''),
		       max_misses, COALESCE(rules_note, ''), COALESCE(retired_players, ''), created_at, updated_at
		FROM questions ORDER BY question_date
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var q QuestionBackup
		var maxMisses sql.NullInt64
		if err := rows.Scan(&q.QuestionDate, &q.Question, &q.Options, &q.OptionLogos, &q.OptionLabels,
			&maxMisses, &q.RulesNote, &q.RetiredPlayers, &q.CreatedAt, &q.UpdatedAt); err != nil {
			return err
		}
		if maxMisses.Valid {
			misses := int(maxMisses.Int64)
			q.MaxMisses = &misses
		}
		backup.Questions = append(backup.Questions, q)
	}
	return rows.Err()
}

func (s *BackupService) exportProfiles(backup *BackupData) error {
	query := `
		SELECT id, COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(name, ''),
		       COALESCE(oauth_provider, ''), COALESCE(oauth_subject, ''), is_admin,
		       current_streak, max_streak, total_score, created_at, updated_at
		FROM profiles ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p ProfileBackup
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.Name, &p.OAuthProvider, &p.OAuthSubject,
			&p.IsAdmin, &p.CurrentStreak, &p.MaxStreak, &p.TotalScore, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return err
		}
		backup.Profiles = append(backup.Profiles, p)
	}
	return rows.Err()
}

func (s *BackupService) exportAttempts(backup *BackupData) error {
	query := `
		SELECT id, user_id, question_date, selected_answer, is_correct, score, created_at
		FROM attempts ORDER BY id
	`
	rows, err := s.db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var a AttemptBackup
		if err := rows.Scan(&a.ID, &a.UserID, &a.QuestionDate, &a.SelectedAnswer, &a.IsCorrect, &a.Score, &a.CreatedAt); err != nil {
			return err
		}
		backup.Attempts = append(backup.Attempts, a)
	}
	return rows.Err()
}

func importQuestions(db database.DBTX, questions []QuestionBackup) error {
	log.Printf("Importing %d questions...", len(questions))
	for _, q := range questions {
		query := `
			INSERT INTO questions (question_date, question, options, option_logos, option_labels,
			                       max_misses, rules_note, retired_players, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		var maxMisses interface{}
		if q.MaxMisses != nil {
			maxMisses = *q.MaxMisses
		}
		_, err := db.Exec(query, q.QuestionDate, q.Question, q.Options, nullIfEmpty(q.OptionLogos),
			nullIfEmpty(q.OptionLabels), maxMisses, nullIfEmpty(q.RulesNote), nullIfEmpty(q.RetiredPlayers),
			q.CreatedAt, q.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import question %s: %w", q.QuestionDate, err)
		}
	}
	return nil
}

func importProfiles(db database.DBTX, profiles []ProfileBackup) error {
	log.Printf("Importing %d profiles...", len(profiles))
	for _, p := range profiles {
		query := `
			INSERT INTO profiles (id, email, password_hash, name, oauth_provider, oauth_subject,
			                      is_admin, current_streak, max_streak, total_score, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.Exec(query, p.ID, nullIfEmpty(p.Email), p.PasswordHash, p.Name,
			nullIfEmpty(p.OAuthProvider), nullIfEmpty(p.OAuthSubject), p.IsAdmin,
			p.CurrentStreak, p.MaxStreak, p.TotalScore, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import profile %s: %w", p.ID, err)
		}
	}
	return nil
}

func importAttempts(db database.DBTX, attempts []AttemptBackup) error {
	log.Printf("Importing %d attempts...", len(attempts))
	for _, a := range attempts {
		query := `
			INSERT INTO attempts (id, user_id, question_date, selected_answer, is_correct, score, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := db.Exec(query, a.ID, a.UserID, a.QuestionDate, a.SelectedAnswer, a.IsCorrect, a.Score, a.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import attempt %d: %w", a.ID, err)
		}
	}
	return nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
