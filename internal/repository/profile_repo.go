package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rimble/internal/database"
	"rimble/internal/models"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db database.DBTX
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db database.DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `
	id, COALESCE(email, ''), password_hash, name, oauth_provider, oauth_subject,
	is_admin, current_streak, max_streak, total_score, created_at, updated_at
`

func (r *ProfileRepository) scanProfile(row *sql.Row) (*models.Profile, error) {
	profile := &models.Profile{}
	err := row.Scan(
		&profile.ID,
		&profile.Email,
		&profile.PasswordHash,
		&profile.Name,
		&profile.OAuthProvider,
		&profile.OAuthSubject,
		&profile.IsAdmin,
		&profile.CurrentStreak,
		&profile.MaxStreak,
		&profile.TotalScore,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan profile: %w", err)
	}
	return profile, nil
}

// EnsureExists creates a bare profile row for the user if absent.
// Idempotent: concurrent or repeated calls are safe.
func (r *ProfileRepository) EnsureExists(userID string) error {
	_, err := r.db.Exec(r.db.GetDialect().InsertProfileIgnoreQuery(), userID)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

// GetByID retrieves a profile by user ID, or nil if none exists
func (r *ProfileRepository) GetByID(userID string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE id = ?"
	return r.scanProfile(r.db.QueryRow(query, userID))
}

// GetByEmail retrieves a profile by email address, or nil if none exists
func (r *ProfileRepository) GetByEmail(email string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE email = ?"
	return r.scanProfile(r.db.QueryRow(query, email))
}

// GetByOAuth retrieves a profile by OAuth provider and subject, or nil
func (r *ProfileRepository) GetByOAuth(provider, subject string) (*models.Profile, error) {
	query := "SELECT " + profileColumns + " FROM profiles WHERE oauth_provider = ? AND oauth_subject = ?"
	return r.scanProfile(r.db.QueryRow(query, provider, subject))
}

// Count returns the number of registered accounts (profiles with an email)
func (r *ProfileRepository) Count() (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM profiles WHERE COALESCE(email, '') != ''"
	if err := r.db.QueryRow(query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count profiles: %w", err)
	}
	return count, nil
}

// Create inserts a full account profile
func (r *ProfileRepository) Create(profile *models.Profile) error {
	query := `
		INSERT INTO profiles (id, email, password_hash, name, oauth_provider, oauth_subject, is_admin)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		profile.ID,
		profile.Email,
		profile.PasswordHash,
		profile.Name,
		profile.OAuthProvider,
		profile.OAuthSubject,
		profile.IsAdmin,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	return nil
}

// LinkOAuth attaches an OAuth identity to an existing profile
func (r *ProfileRepository) LinkOAuth(userID, provider, subject string) error {
	query := `
		UPDATE profiles
		SET oauth_provider = ?, oauth_subject = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, provider, subject, userID)
	if err != nil {
		return fmt.Errorf("failed to link oauth identity: %w", err)
	}
	return nil
}

// UpdateStreakAndScore writes the streak/score transition applied on the
// attempt that completes a puzzle.
func (r *ProfileRepository) UpdateStreakAndScore(userID string, currentStreak, maxStreak, totalScore int) error {
	query := `
		UPDATE profiles
		SET current_streak = ?, max_streak = ?, total_score = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, currentStreak, maxStreak, totalScore, userID)
	if err != nil {
		return fmt.Errorf("failed to update streak and score: %w", err)
	}
	return nil
}
