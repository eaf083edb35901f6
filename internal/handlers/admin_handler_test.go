package handlers

import (
	"net/http"
	"testing"

	"rimble/internal/models"
)

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	e.profiles.profiles["admin-1"] = &models.Profile{
		ID:      "admin-1",
		Email:   "admin@example.com",
		IsAdmin: true,
	}
	return e.tokenFor(t, "admin-1")
}

func TestAdminAccessControl(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPut, "/api/admin/questions/"+testDate, "", `{}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token status = %d, want 401", rec.Code)
	}

	env.profiles.profiles["user-1"] = &models.Profile{ID: "user-1", Email: "u@example.com"}
	rec = env.do(t, http.MethodPut, "/api/admin/questions/"+testDate, env.tokenFor(t, "user-1"), `{}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin status = %d, want 403", rec.Code)
	}
}

func TestAdminQuestionRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	payload := `{
		"question": "Name the scoring leaders",
		"options": ["Michael Jordan", ["LeBron James", "L. James"]],
		"option_labels": ["1990s", "2010s"],
		"max_misses": 3,
		"rules_note": "Active players only.",
		"retired_players": ["Michael Jordan"]
	}`

	rec := env.do(t, http.MethodPut, "/api/admin/questions/"+testDate, token, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodGet, "/api/admin/questions/"+testDate, token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d, want 200", rec.Code)
	}

	body := decodeBody(t, rec)
	if body["question"] != "Name the scoring leaders" {
		t.Errorf("question = %v", body["question"])
	}
	if body["max_misses"] != float64(3) {
		t.Errorf("max_misses = %v, want 3", body["max_misses"])
	}

	options, _ := body["options"].([]interface{})
	if len(options) != 2 {
		t.Fatalf("options = %v, want 2 slots", options)
	}
	second, _ := options[1].([]interface{})
	if len(second) != 2 {
		t.Errorf("slot 2 = %v, alternates must survive the round trip", options[1])
	}

	// The public snapshot now serves the saved question
	rec = env.do(t, http.MethodGet, "/api/today?date="+testDate, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("today status = %d, want 200", rec.Code)
	}
	view := decodeBody(t, rec)
	if view["max_misses"] != float64(3) {
		t.Errorf("today max_misses = %v, want question override 3", view["max_misses"])
	}
}

func TestAdminQuestionValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	tests := []struct {
		name    string
		path    string
		payload string
	}{
		{"bad date", "/api/admin/questions/not-a-date", `{"question":"q","options":["a"]}`},
		{"missing question", "/api/admin/questions/" + testDate, `{"options":["a"]}`},
		{"no slots", "/api/admin/questions/" + testDate, `{"question":"q","options":[]}`},
		{"empty slot", "/api/admin/questions/" + testDate, `{"question":"q","options":[[]]}`},
		{"zero miss budget", "/api/admin/questions/" + testDate, `{"question":"q","options":["a"],"max_misses":0}`},
		{"malformed body", "/api/admin/questions/" + testDate, `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPut, tt.path, token, tt.payload)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestAdminGetMissingQuestion(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/admin/questions/"+testDate, env.adminToken(t), "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
