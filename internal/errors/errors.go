// Package errors defines the structured error taxonomy surfaced to API
// callers. Every failure is a value with a stable code; none are fatal.
package errors

// DomainError is a structured, user-presentable error.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	ErrNotFound = &DomainError{
		Code:    "NOT_FOUND",
		Message: "resource not found",
	}
	ErrConflict = &DomainError{
		Code:    "CONFLICT",
		Message: "resource was modified concurrently, re-fetch and retry",
	}
	ErrUnauthorized = &DomainError{
		Code:    "UNAUTHORIZED",
		Message: "invalid credentials",
	}
	ErrInvalidInput = &DomainError{
		Code:    "INVALID_INPUT",
		Message: "invalid input",
	}
)
