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
		Err:     nil,
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

// Common domain error codes
const (
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
	ErrCodeEmbeddingFailed  = "EMBEDDING_FAILED"
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeCorruptStore     = "CORRUPT_STORE"
	ErrCodeEmptyStore       = "EMPTY_STORE"
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Configuration errors
var (
	ErrInvalidChunkConfig = NewDomainError(ErrCodeInvalidConfig, "chunk overlap must be smaller than chunk size and both must be positive")
	ErrInvalidTopK        = NewDomainError(ErrCodeInvalidConfig, "similarity top-k must be at least 1")
	ErrInvalidDimensions  = NewDomainError(ErrCodeInvalidConfig, "embedding dimensions must be positive")
)

// Node store errors
var (
	ErrCorruptStore = NewDomainError(ErrCodeCorruptStore, "node store is corrupt")
	ErrEmptyStore   = NewDomainError(ErrCodeEmptyStore, "node store has no records")
)

// Request errors
var (
	ErrEmptyQuery       = NewDomainError(ErrCodeBadRequest, "query is required")
	ErrMethodNotAllowed = NewDomainError(ErrCodeMethodNotAllowed, "method not allowed")
)

// Provider errors
var (
	ErrEmbeddingFailed  = NewDomainError(ErrCodeEmbeddingFailed, "embedding call failed")
	ErrGenerationFailed = NewDomainError(ErrCodeGenerationFailed, "generation call failed")
)

// EmbeddingFailedAt wraps a provider error with the index of the chunk whose
// embedding could not be generated.
func EmbeddingFailedAt(chunkIndex int, err error) *DomainError {
	return NewDomainErrorWithCause(ErrCodeEmbeddingFailed, fmt.Sprintf("embedding failed for chunk %d", chunkIndex), err)
}
