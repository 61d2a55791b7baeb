// Package shared holds the JSON response helpers every handler package uses,
// keeping the error envelope consistent across the API surface.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	derrors "complimart/pkg/domain-errors"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the standard JSON error envelope.
// Errors without a domain code map to a generic 500 so internal detail never
// leaks to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	message := "internal error"

	var de *derrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	WriteJSON(w, derrors.ToHTTPStatus(code), map[string]string{
		"error":   string(code),
		"message": message,
	})
}
