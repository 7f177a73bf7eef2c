package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fitmi/fitmi-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// validationMessage extracts the client-facing message from a validation
// failure, falling back when the error carries none.
func validationMessage(err error, fallback string) string {
	var v *services.ValidationError
	if errors.As(err, &v) {
		return v.Message
	}
	return fallback
}

// writeInternalError logs the underlying error server-side and returns a
// generic message, never exposing internals to the client.
func writeInternalError(w http.ResponseWriter, err error) {
	log.Printf("ERROR: %v", err)
	writeError(w, http.StatusInternalServerError, "Something went wrong!")
}
