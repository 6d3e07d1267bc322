package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"safarinova/internal/domain"
	"safarinova/internal/metrics"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// fail maps a domain error to its wire code and HTTP status. Unmapped
// errors become an opaque 500.
func (s *HTTPServer) fail(w http.ResponseWriter, operation string, err error) {
	code := domain.Code(err)
	status := http.StatusInternalServerError

	switch code {
	case "UNAUTHENTICATED":
		status = http.StatusUnauthorized
	case "FORBIDDEN":
		status = http.StatusForbidden
	case "INVALID_INPUT":
		status = http.StatusBadRequest
	case "NOT_FOUND":
		status = http.StatusNotFound
	case "UNAVAILABLE":
		status = http.StatusServiceUnavailable
	case "":
		code = "INTERNAL"
		s.log.Error().Err(err).Str("operation", operation).Msg("unhandled operation error")
		err = fmt.Errorf("internal error")
	}

	metrics.IncRPC(operation, code)
	writeError(w, status, code, err.Error())
}

func invalidInput(message string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, message)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, code, message string) {
	writeJSON(w, statusCode, errorBody{Error: errorDetail{Code: code, Message: message}})
}
