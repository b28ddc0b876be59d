package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iho/chitledger/internal/adapter/http/dto"
)

// writeError renders the same error body the handlers use.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}
