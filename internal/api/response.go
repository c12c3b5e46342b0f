package api

import (
	"encoding/json"
	"net/http"

	"github.com/mapadoacolhimento/iana/internal/domain"
)

// PayloadResponse wraps successful API responses
type PayloadResponse struct {
	Payload interface{} `json:"payload"`
}

// ErrorResponse represents an error API response
type ErrorResponse struct {
	Error string `json:"error"`
}

// QueryPayload carries a generated answer. Failed queries reuse this shape
// with the fixed fallback answer so the conversational surface never changes
// form or leaks internals.
type QueryPayload struct {
	Response string `json:"response"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success writes a successful JSON response wrapped in a payload envelope
func Success(w http.ResponseWriter, status int, data interface{}) {
	JSON(w, status, PayloadResponse{Payload: data})
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorResponse{Error: message})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	domainErr, ok := err.(*domain.DomainError)
	if !ok {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeBadRequest:
		return http.StatusBadRequest
	case domain.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case domain.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case domain.ErrCodeEmbeddingFailed, domain.ErrCodeGenerationFailed:
		// Query-pipeline failures are surfaced with the uniform fallback
		// payload, deliberately as 400 rather than 5xx.
		return http.StatusBadRequest
	case domain.ErrCodeCorruptStore, domain.ErrCodeEmptyStore:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)
	Error(w, status, err.Error())
}
