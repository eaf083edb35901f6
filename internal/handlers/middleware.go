package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"rimble/internal/security"
	"rimble/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const UserIDContextKey ContextKey = "user_id"

// Middleware holds dependencies for middleware functions
type Middleware struct {
	tokens   *security.TokenIssuer
	accounts service.AccountStore
	limiter  *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(tokens *security.TokenIssuer, accounts service.AccountStore, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		tokens:   tokens,
		accounts: accounts,
		limiter:  limiter,
	}
}

// bearerToken extracts the bearer token from the Authorization header
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// RequireAuth rejects requests without a valid bearer token
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token", nil)
			return
		}

		userID, err := m.tokens.Verify(token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDContextKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// OptionalAuth attaches the user ID when a valid bearer token is present
// and lets the request through anonymously otherwise.
func (m *Middleware) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if userID, err := m.tokens.Verify(token); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), UserIDContextKey, userID))
			}
		}
		next(w, r)
	}
}

// RequireAdmin rejects requests from non-admin accounts. Must wrap a
// handler already behind RequireAuth.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		userID := GetUserIDFromContext(r.Context())

		profile, err := m.accounts.GetByID(userID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to load account", "admin check failed", err)
			return
		}
		if profile == nil || !profile.IsAdmin {
			writeError(w, http.StatusForbidden, "admin access required", nil)
			return
		}

		next(w, r)
	})
}

// RateLimit rejects requests exceeding the per-IP limit
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(security.GetClientIP(r)) {
			writeError(w, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserIDFromContext retrieves the authenticated user ID, or "" if anonymous
func GetUserIDFromContext(ctx context.Context) string {
	userID, ok := ctx.Value(UserIDContextKey).(string)
	if !ok {
		return ""
	}
	return userID
}
