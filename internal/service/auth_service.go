package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"rimble/internal/models"
	"rimble/internal/security"
	"rimble/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// AccountStore provides access to registered account profiles
type AccountStore interface {
	GetByID(userID string) (*models.Profile, error)
	GetByEmail(email string) (*models.Profile, error)
	GetByOAuth(provider, subject string) (*models.Profile, error)
	Count() (int, error)
	Create(profile *models.Profile) error
	LinkOAuth(userID, provider, subject string) error
}

// AuthService handles authentication business logic
type AuthService struct {
	accounts AccountStore
	tokens   *security.TokenIssuer
	email    *EmailService
}

// NewAuthService creates a new auth service
func NewAuthService(accounts AccountStore, tokens *security.TokenIssuer, email *EmailService) *AuthService {
	return &AuthService{
		accounts: accounts,
		tokens:   tokens,
		email:    email,
	}
}

// Register creates a new account and returns it with a signed bearer token.
// The first registered account becomes the admin.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	existing, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	count, err := s.accounts.Count()
	if err != nil {
		return nil, "", fmt.Errorf("failed to count accounts: %w", err)
	}

	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	profile := &models.Profile{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		IsAdmin:      count == 0,
	}
	if err := s.accounts.Create(profile); err != nil {
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	s.sendWelcome(ctx, profile)

	return profile, token, nil
}

// Login authenticates an account and returns it with a signed bearer token
func (s *AuthService) Login(email, password string) (*models.Profile, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	profile, err := s.accounts.GetByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get account: %w", err)
	}
	if profile == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !security.CheckPassword(password, profile.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return profile, token, nil
}

// OAuthLogin authenticates or creates an account from an OAuth identity.
// An existing account with the same email is linked rather than duplicated,
// unless it already belongs to a different provider.
func (s *AuthService) OAuthLogin(ctx context.Context, provider, subject, email, name string) (*models.Profile, string, error) {
	if provider == "" || subject == "" {
		return nil, "", errors.New("missing oauth provider information")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validation.ValidateEmail(email); err != nil {
		return nil, "", err
	}

	profile, err := s.accounts.GetByOAuth(provider, subject)
	if err != nil {
		return nil, "", fmt.Errorf("failed to lookup oauth account: %w", err)
	}

	if profile == nil {
		existing, err := s.accounts.GetByEmail(email)
		if err != nil {
			return nil, "", fmt.Errorf("failed to check existing account: %w", err)
		}
		if existing != nil {
			if existing.OAuthProvider != "" && existing.OAuthProvider != provider {
				return nil, "", ErrEmailTaken
			}
			if err := s.accounts.LinkOAuth(existing.ID, provider, subject); err != nil {
				return nil, "", fmt.Errorf("failed to link oauth identity: %w", err)
			}
			profile = existing
		} else {
			if name == "" {
				name = strings.Split(email, "@")[0]
			}
			// OAuth accounts have no usable password; store an unguessable hash
			randomHash, err := security.HashPassword(uuid.NewString())
			if err != nil {
				return nil, "", fmt.Errorf("failed to generate oauth password hash: %w", err)
			}

			count, err := s.accounts.Count()
			if err != nil {
				return nil, "", fmt.Errorf("failed to count accounts: %w", err)
			}

			profile = &models.Profile{
				ID:            uuid.NewString(),
				Email:         email,
				PasswordHash:  randomHash,
				Name:          name,
				OAuthProvider: provider,
				OAuthSubject:  subject,
				IsAdmin:       count == 0,
			}
			if err := s.accounts.Create(profile); err != nil {
				return nil, "", fmt.Errorf("failed to create oauth account: %w", err)
			}

			s.sendWelcome(ctx, profile)
		}
	}

	token, err := s.tokens.Issue(profile.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}

	return profile, token, nil
}

// sendWelcome delivers the welcome email best-effort; a send failure never
// fails the registration.
func (s *AuthService) sendWelcome(ctx context.Context, profile *models.Profile) {
	if s.email == nil || !s.email.IsEnabled() {
		return
	}
	if err := s.email.SendWelcomeEmail(ctx, profile.Email, profile.Name); err != nil {
		log.Printf("Warning: failed to send welcome email to %s: %v", profile.Email, err)
	}
}
