package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/tbouchet/plume/internal/core"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}

// writeDomainError maps a service error onto the HTTP error taxonomy.
// Anything unrecognized becomes an opaque 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, core.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
	case errors.Is(err, core.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "INVALID_TOKEN", "missing or invalid token")
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, core.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "DUPLICATE_EMAIL", "email already registered")
	case errors.Is(err, core.ErrDuplicateUsername):
		writeError(w, http.StatusConflict, "DUPLICATE_USERNAME", "username already taken")
	case errors.Is(err, core.ErrAIUnavailable):
		writeError(w, http.StatusServiceUnavailable, "AI_UNAVAILABLE", "ai backend unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", core.ErrValidation)
	}
	return nil
}

// jsonHasKey reports whether the raw body carries the given top-level
// key, so handlers can tell an explicit null from an absent field.
func jsonHasKey(data []byte, key string) bool {
	var m map[string]json.RawMessage
	if json.Unmarshal(data, &m) != nil {
		return false
	}
	_, ok := m[key]
	return ok
}
