package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeInvalidState      = "INVALID_STATE"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError carries a stable error code alongside a human-readable message.
// Handlers translate codes into HTTP statuses; the domain never sees HTTP.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// InvalidArgument builds a domain error for malformed or out-of-range input.
func InvalidArgument(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidArgument, message)
}

// InvalidState builds a domain error for an operation that is not legal in
// the aggregate's current status.
func InvalidState(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidState, message)
}

// NotFound builds a domain error for an absent resource.
func NotFound(message string) *DomainError {
	return NewDomainError(ErrCodeNotFound, message)
}

// InsufficientStock builds a domain error for a requested quantity that
// exceeds available stock. It is a resource condition, not a lifecycle
// condition, so it gets its own code.
func InsufficientStock(message string) *DomainError {
	return NewDomainError(ErrCodeInsufficientStock, message)
}

// ErrorCode extracts the domain error code, or INTERNAL_ERROR for anything
// that is not a DomainError.
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}

// IsInvalidArgument reports whether err is an INVALID_ARGUMENT domain error.
func IsInvalidArgument(err error) bool {
	return ErrorCode(err) == ErrCodeInvalidArgument
}

// IsInvalidState reports whether err is an INVALID_STATE domain error.
func IsInvalidState(err error) bool {
	return ErrorCode(err) == ErrCodeInvalidState
}

// IsNotFound reports whether err is a NOT_FOUND domain error.
func IsNotFound(err error) bool {
	return ErrorCode(err) == ErrCodeNotFound
}

// IsInsufficientStock reports whether err is an INSUFFICIENT_STOCK domain error.
func IsInsufficientStock(err error) bool {
	return ErrorCode(err) == ErrCodeInsufficientStock
}
