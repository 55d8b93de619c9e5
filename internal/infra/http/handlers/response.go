package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/prospect-intake/internal/usecase"
	"github.com/xavierca1/prospect-intake/internal/validation"
)

const (
	CodeInvalidJSON = "INVALID_JSON"
	CodeRateLimited = "RATE_LIMITED"
)

type ErrorResponse struct {
	Error   string                  `json:"error"`
	Message string                  `json:"message"`
	Fields  []validation.FieldError `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("❌ Failed to encode response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeUseCaseError maps the use case error taxonomy onto HTTP statuses.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		switch de.Code {
		case usecase.CodeRecipientNotFound:
			status = http.StatusNotFound
		case usecase.CodeEmailExists:
			status = http.StatusConflict
		}
		writeJSON(w, status, ErrorResponse{Error: de.Code, Message: de.Message, Fields: de.Fields})
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ %s: %v", te.Code, te)
		writeErrorResponse(w, http.StatusInternalServerError, te.Code, te.Message)
		return
	}

	log.Printf("❌ Unexpected error: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
