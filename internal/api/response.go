// Package api holds the HTTP response envelope and error mapping shared by
// all handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pemkomedan/rag-layanan/internal/domain"
)

// ErrorBody is the error detail block inside an ErrorResponse.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Status string    `json:"status"`
	Error  ErrorBody `json:"error"`
}

// JSON writes a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Error writes an error JSON response
func Error(w http.ResponseWriter, status int, errType, message string) {
	JSON(w, status, ErrorResponse{
		Status: "error",
		Error:  ErrorBody{Type: errType, Message: message},
	})
}

// DomainErrorToHTTP maps domain errors to HTTP status codes
func DomainErrorToHTTP(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var domainErr *domain.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError
	}

	switch domainErr.Code {
	case domain.ErrCodeValidation:
		return http.StatusBadRequest
	case domain.ErrCodeIndexUnavailable:
		return http.StatusInternalServerError
	case domain.ErrCodeIngestionFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// HandleError writes an appropriate error response based on the error type
func HandleError(w http.ResponseWriter, err error) {
	status := DomainErrorToHTTP(err)

	errType := "ServerError"
	message := "Kesalahan internal"
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		message = domainErr.Message
		switch domainErr.Code {
		case domain.ErrCodeValidation:
			errType = "ValidationError"
		case domain.ErrCodeIndexUnavailable:
			errType = "IndexUnavailable"
		case domain.ErrCodeIngestionFailure:
			errType = "IngestionFailure"
		}
	}
	JSON(w, status, ErrorResponse{
		Status: "error",
		Error:  ErrorBody{Type: errType, Message: message, Detail: err.Error()},
	})
}
