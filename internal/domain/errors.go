package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes. UpstreamDegraded never reaches a caller: advisory-stage
// failures (judge, summarizer, pre-filter, prompt lookup) are absorbed into
// their documented safe defaults before a response is built.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeUpstreamDegraded = "UPSTREAM_DEGRADED"
	ErrCodeIndexUnavailable = "INDEX_UNAVAILABLE"
	ErrCodeIngestionFailure = "INGESTION_FAILURE"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrMissingEntryID   = NewDomainError(ErrCodeValidation, "entry id is required")
	ErrMissingEntryText = NewDomainError(ErrCodeValidation, "entry text is required")
)

// Index errors
var (
	ErrIndexUnavailable = NewDomainError(ErrCodeIndexUnavailable, "vector index unavailable")
)

// Ingestion errors
var (
	ErrEmptyDocument    = NewDomainError(ErrCodeIngestionFailure, "OCR produced no text")
	ErrSourceNotFound   = NewDomainError(ErrCodeIngestionFailure, "source file not found")
	ErrDownloadFailed   = NewDomainError(ErrCodeIngestionFailure, "source download failed")
	ErrExtractionFailed = NewDomainError(ErrCodeIngestionFailure, "text extraction failed")
)
