package handler

import (
	"encoding/json"
	"net/http"

	"mercadito/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError maps a domain error onto an HTTP status and writes the
// standard error body. Unknown errors become 500 with a generic message.
func writeError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	code := model.ErrorCode(err)
	status := statusFor(code)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the log.
		message = "internal server error"
	}

	logger.Error().Str("code", code).Int("status", status).Err(err).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeErrorCode writes an error body for failures outside the domain, such
// as malformed JSON or bad path parameters.
func writeErrorCode(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Int("status", status).Str("message", message).Msg("request rejected")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// statusFor translates domain error codes into HTTP statuses. State and
// argument violations are unprocessable rather than malformed, so 422.
func statusFor(code string) int {
	switch code {
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	case model.ErrCodeInvalidArgument, model.ErrCodeInvalidState, model.ErrCodeInsufficientStock:
		return http.StatusUnprocessableEntity
	case model.ErrCodeInvalidJSON:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
