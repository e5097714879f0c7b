// Package common holds the JSON response helpers shared by the API handlers.
package common

import (
	"encoding/json"
	"net/http"

	"github.com/stacklok/rust-tracker/internal/logger"
)

// WriteJSONResponse writes data as JSON with the given status code
func WriteJSONResponse(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// headers are already sent; all that is left is to log
		logger.Errorf("Failed to encode response: %v", err)
	}
}

// WriteErrorResponse writes a {"error": message} body
func WriteErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	WriteJSONResponse(w, map[string]string{"error": message}, statusCode)
}
