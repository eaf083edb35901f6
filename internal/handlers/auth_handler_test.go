package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rimble/internal/models"
	"rimble/internal/security"
	"rimble/internal/service"
)

func newAuthTestEnv(t *testing.T) (*http.ServeMux, *stubProfileStore) {
	t.Helper()

	profiles := &stubProfileStore{profiles: make(map[string]*models.Profile)}
	tokens := security.NewTokenIssuer("test-secret", time.Hour)
	email, _ := service.NewEmailService("", "", "", "", false)
	authService := service.NewAuthService(profiles, tokens, email)

	middleware := NewMiddleware(tokens, profiles, security.NewRateLimiter(1000, time.Minute))
	authHandler := NewAuthHandler(authService, nil, "")

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/auth/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)

	return mux, profiles
}

func postJSON(t *testing.T, mux *http.ServeMux, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestRegisterEndpoint(t *testing.T) {
	mux, profiles := newAuthTestEnv(t)

	rec := postJSON(t, mux, "/api/auth/register",
		`{"email":"player@example.com","password":"hoops1234","name":"Player"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["token"] == nil || body["token"] == "" {
		t.Error("response must carry a bearer token")
	}
	profile, _ := body["profile"].(map[string]interface{})
	if profile["email"] != "player@example.com" {
		t.Errorf("profile email = %v", profile["email"])
	}
	if len(profiles.profiles) != 1 {
		t.Errorf("profiles = %d, want 1", len(profiles.profiles))
	}

	// Same email again
	rec = postJSON(t, mux, "/api/auth/register",
		`{"email":"player@example.com","password":"hoops1234"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate status = %d, want 409", rec.Code)
	}
}

func TestRegisterEndpointValidation(t *testing.T) {
	mux, _ := newAuthTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed body", `{not json`},
		{"bad email", `{"email":"nope","password":"hoops1234"}`},
		{"short password", `{"email":"player@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, mux, "/api/auth/register", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginEndpoint(t *testing.T) {
	mux, _ := newAuthTestEnv(t)

	postJSON(t, mux, "/api/auth/register",
		`{"email":"player@example.com","password":"hoops1234"}`)

	rec := postJSON(t, mux, "/api/auth/login",
		`{"email":"player@example.com","password":"hoops1234"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["token"] == nil {
		t.Error("login must return a token")
	}

	rec = postJSON(t, mux, "/api/auth/login",
		`{"email":"player@example.com","password":"wrongpass"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
}

func TestStartOAuthUnconfigured(t *testing.T) {
	mux, _ := newAuthTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/start", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for unconfigured provider", rec.Code)
	}
}
