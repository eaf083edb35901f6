package handlers

import (
	"encoding/json"
	"log"
	"net/http"
)

// writeJSON writes a JSON response body with the given status
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// writeError writes a JSON error response. Extra fields carry game state
// alongside the error message so clients can re-render from a rejection.
func writeError(w http.ResponseWriter, status int, message string, extra map[string]interface{}) {
	payload := map[string]interface{}{"error": message}
	for key, value := range extra {
		payload[key] = value
	}
	writeJSON(w, status, payload)
}

// respondWithError logs the underlying error and writes a JSON error body
func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}
	writeError(w, status, userMsg, nil)
}
