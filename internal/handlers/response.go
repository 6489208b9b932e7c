package handlers

import (
	"encoding/json"
	"net/http"

	"user-accounts/internal/apperrors"
	"user-accounts/internal/logger"
	"user-accounts/internal/models"
)

// maxJSONBody caps JSON request bodies at 16kb.
const maxJSONBody = 16 << 10

// writeSuccess writes the standard success envelope.
func writeSuccess(w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

// writeError maps a domain error onto the standard error envelope.
// Non-domain errors fall back to 500 with a masked message.
func writeError(w http.ResponseWriter, err error) {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		logger.Log.Errorw("internal server error", "err", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		StatusCode: status,
		Message:    apperrors.Message(err),
		Success:    false,
		Errors:     []string{},
	})
}

// decodeJSON decodes a size-limited JSON body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	return nil
}
