// Package api exposes the public HTTP surface: routing, CORS, and the JSON
// envelope every endpoint answers with.
package api

import (
	"encoding/json"
	"net/http"
)

// Envelope is the uniform response body. Success responses carry Message
// (and Sent for publish); failures carry Error with text fit for direct
// display to the end user.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Sent    *int   `json:"sent,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: message})
}
