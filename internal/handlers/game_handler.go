package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"rimble/internal/models"
	"rimble/internal/service"
	"rimble/internal/validation"
)

// GameHandler serves the daily question endpoints
type GameHandler struct {
	game *service.GameService
}

// NewGameHandler creates a new game handler
func NewGameHandler(game *service.GameService) *GameHandler {
	return &GameHandler{game: game}
}

// Today handles GET /api/today. The user comes from the bearer token when
// present, otherwise from an opaque user_id query parameter, mirroring the
// submit fallback; without either the question is served with no progress.
// A malformed or missing date falls back to today.
func (h *GameHandler) Today(w http.ResponseWriter, r *http.Request) {
	date := validation.NormalizeDate(r.URL.Query().Get("date"))
	userID := GetUserIDFromContext(r.Context())
	if userID == "" {
		userID = r.URL.Query().Get("user_id")
	}

	view, err := h.game.Snapshot(date, userID)
	if err != nil {
		if errors.Is(err, service.ErrNoQuestion) {
			writeError(w, http.StatusNotFound, "No question today", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to load question", "snapshot failed", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type submitRequest struct {
	UserID       string `json:"user_id"`
	QuestionDate string `json:"question_date"`
	Guess        string `json:"guess"`
}

// Submit handles POST /api/submit. The user comes from the bearer token
// when present, otherwise from the opaque user_id in the body. Game-rule
// rejections return 400 with the current state merged into the error body
// so the client can re-render without a second fetch.
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	date := validation.NormalizeDate(req.QuestionDate)
	userID := GetUserIDFromContext(r.Context())
	if userID == "" {
		userID = req.UserID
	}

	result, err := h.game.Submit(userID, date, req.Guess)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrMissingUser), errors.Is(err, service.ErrMissingGuess):
			writeError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, service.ErrNoQuestion):
			writeError(w, http.StatusNotFound, "No question today", nil)
		case errors.Is(err, service.ErrAlreadySolved),
			errors.Is(err, service.ErrNoAttemptsLeft),
			errors.Is(err, service.ErrAlreadyGuessed):
			writeError(w, http.StatusBadRequest, err.Error(), resultFields(result))
		default:
			// Persistence failures carry the store op and underlying
			// message through to the client.
			var extra map[string]interface{}
			var storeErr *service.StoreError
			if errors.As(err, &storeErr) {
				extra = map[string]interface{}{
					"op":     storeErr.Op,
					"detail": storeErr.Err.Error(),
				}
			}
			log.Printf("submit failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to submit guess", extra)
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Profile handles GET /api/profile
func (h *GameHandler) Profile(w http.ResponseWriter, r *http.Request) {
	view, err := h.game.Profile(GetUserIDFromContext(r.Context()))
	if err != nil {
		if errors.Is(err, service.ErrMissingUser) {
			writeError(w, http.StatusUnauthorized, "missing user", nil)
			return
		}
		respondWithError(w, http.StatusInternalServerError, "failed to load profile", "profile failed", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// resultFields flattens a submission result into the error body
func resultFields(result *models.SubmissionResult) map[string]interface{} {
	if result == nil {
		return nil
	}
	fields := map[string]interface{}{
		"is_correct":         result.IsCorrect,
		"score":              result.Score,
		"is_complete":        result.IsComplete,
		"attempts_remaining": result.AttemptsRemaining,
		"guesses":            result.Guesses,
		"correct_guesses":    result.CorrectGuesses,
	}
	if result.Streak != nil {
		fields["streak"] = *result.Streak
	}
	if result.CorrectAnswers != nil {
		fields["correct_answers"] = result.CorrectAnswers
	}
	return fields
}
