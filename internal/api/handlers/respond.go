package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/kuowesley/securebank-technical-challenge/internal/domain"
	"github.com/kuowesley/securebank-technical-challenge/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR [handlers.writeJSON] encoding response: %v", err)
	}
}

type errorResponse struct {
	Error  string              `json:"error"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service and domain errors onto the HTTP surface:
// validation 400 with field detail, conflicts 409, auth failures 401,
// missing/foreign accounts 404, state violations 400, everything else 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Fields: verr.Fields})
		return
	}

	switch {
	case errors.Is(err, domain.ErrEmailExists):
		writeError(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, domain.ErrSSNExists):
		writeError(w, http.StatusConflict, "SSN already registered")
	case errors.Is(err, domain.ErrAccountTypeExists):
		writeError(w, http.StatusConflict, "You already have an account of this type")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, domain.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, domain.ErrAccountNotActive):
		writeError(w, http.StatusBadRequest, "Account is not active")
	default:
		log.Printf("ERROR [handlers] internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
