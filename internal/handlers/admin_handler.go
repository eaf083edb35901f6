package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"rimble/internal/models"
	"rimble/internal/service"
	"rimble/internal/validation"
)

// QuestionAdminStore provides read/write access to daily questions
type QuestionAdminStore interface {
	GetByDate(date string) (*models.Question, error)
	Upsert(question *models.Question) error
}

// AdminHandler serves the question management and backup endpoints
type AdminHandler struct {
	questions QuestionAdminStore
	backup    *service.BackupService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(questions QuestionAdminStore, backup *service.BackupService) *AdminHandler {
	return &AdminHandler{questions: questions, backup: backup}
}

// questionPayload is the admin wire shape for a daily question. Options
// and logos entries may each be a single string or an array of alternates.
type questionPayload struct {
	Question       string              `json:"question"`
	Options        []models.StringList `json:"options"`
	OptionLogos    []models.StringList `json:"option_logos"`
	OptionLabels   []string            `json:"option_labels"`
	MaxMisses      *int                `json:"max_misses"`
	RulesNote      string              `json:"rules_note"`
	RetiredPlayers []string            `json:"retired_players"`
}

// PutQuestion handles PUT /api/admin/questions/{date}
func (h *AdminHandler) PutQuestion(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validation.IsValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	var payload questionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if strings.TrimSpace(payload.Question) == "" {
		writeError(w, http.StatusBadRequest, "question text is required", nil)
		return
	}
	if len(payload.Options) == 0 {
		writeError(w, http.StatusBadRequest, "at least one answer slot is required", nil)
		return
	}
	for _, answers := range payload.Options {
		if len(answers) == 0 {
			writeError(w, http.StatusBadRequest, "answer slots must not be empty", nil)
			return
		}
	}
	if payload.MaxMisses != nil && *payload.MaxMisses < 1 {
		writeError(w, http.StatusBadRequest, "max_misses must be at least 1", nil)
		return
	}

	question := &models.Question{
		Date:         date,
		Prompt:       payload.Question,
		MaxMisses:    payload.MaxMisses,
		RulesNote:    payload.RulesNote,
		RetiredNames: payload.RetiredPlayers,
	}
	for i, answers := range payload.Options {
		slot := models.AnswerSlot{Answers: answers}
		if i < len(payload.OptionLogos) {
			slot.Logos = payload.OptionLogos[i]
		}
		if i < len(payload.OptionLabels) {
			slot.Label = payload.OptionLabels[i]
		}
		question.Slots = append(question.Slots, slot)
	}

	if err := h.questions.Upsert(question); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to save question", "question upsert failed", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved", "question_date": date})
}

// GetQuestion handles GET /api/admin/questions/{date}. Unlike the public
// snapshot this returns the raw answers.
func (h *AdminHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	date := r.PathValue("date")
	if !validation.IsValidDate(date) {
		writeError(w, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD", nil)
		return
	}

	question, err := h.questions.GetByDate(date)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load question", "question load failed", err)
		return
	}
	if question == nil {
		writeError(w, http.StatusNotFound, "no question for that date", nil)
		return
	}

	payload := questionPayload{
		Question:       question.Prompt,
		MaxMisses:      question.MaxMisses,
		RulesNote:      question.RulesNote,
		RetiredPlayers: question.RetiredNames,
	}
	for _, slot := range question.Slots {
		payload.Options = append(payload.Options, slot.Answers)
		payload.OptionLogos = append(payload.OptionLogos, slot.Logos)
		payload.OptionLabels = append(payload.OptionLabels, slot.Label)
	}

	writeJSON(w, http.StatusOK, payload)
}

// ExportBackup handles GET /api/admin/backup, streaming a full JSON export
func (h *AdminHandler) ExportBackup(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=rimble-backup.json")
	if err := h.backup.ExportToWriter(w); err != nil {
		// Headers are already out; log and give up
		log.Printf("backup export failed: %v", err)
	}
}

// ImportBackup handles POST /api/admin/backup, restoring from an uploaded export
func (h *AdminHandler) ImportBackup(w http.ResponseWriter, r *http.Request) {
	if err := h.backup.ImportFromReader(r.Body); err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to import backup", "backup import failed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "imported"})
}
