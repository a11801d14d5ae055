package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a specific error type for chat operations.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates invalid input parameters.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	// ErrCodeNotFound indicates the requested entity does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeRateLimitExceeded indicates rate limit has been exceeded.
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	// ErrCodeLLMUnavailable indicates the language model service is not available.
	ErrCodeLLMUnavailable ErrorCode = "LLM_UNAVAILABLE"
	// ErrCodeStoreUnavailable indicates the appointment store is not available.
	ErrCodeStoreUnavailable ErrorCode = "STORE_UNAVAILABLE"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// ChatError represents a structured error for chat operations.
type ChatError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ChatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ChatError) Unwrap() error {
	return e.Cause
}

// InvalidArgument creates an invalid argument error.
func InvalidArgument(msg string) *ChatError {
	return &ChatError{Code: ErrCodeInvalidArgument, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *ChatError {
	return &ChatError{Code: ErrCodeNotFound, Message: msg}
}

// RateLimitExceeded creates a rate limit exceeded error.
func RateLimitExceeded(msg string) *ChatError {
	return &ChatError{Code: ErrCodeRateLimitExceeded, Message: msg}
}

// LLMUnavailable creates an LLM unavailable error.
func LLMUnavailable(msg string, cause error) *ChatError {
	return &ChatError{Code: ErrCodeLLMUnavailable, Message: msg, Cause: cause}
}

// StoreUnavailable creates a store unavailable error.
func StoreUnavailable(msg string, cause error) *ChatError {
	return &ChatError{Code: ErrCodeStoreUnavailable, Message: msg, Cause: cause}
}

// Timeout creates a timeout error.
func Timeout(msg string, cause error) *ChatError {
	return &ChatError{Code: ErrCodeTimeout, Message: msg, Cause: cause}
}

// Internal creates an internal error.
func Internal(msg string, cause error) *ChatError {
	return &ChatError{Code: ErrCodeInternal, Message: msg, Cause: cause}
}

// AsChatError extracts a structured chat error from err's chain.
func AsChatError(err error) (*ChatError, bool) {
	var chatErr *ChatError
	if stderrors.As(err, &chatErr) {
		return chatErr, true
	}
	return nil, false
}

// IsCode checks if an error carries a specific code.
func IsCode(err error, code ErrorCode) bool {
	chatErr, ok := AsChatError(err)
	return ok && chatErr.Code == code
}
