package errors

import (
	"fmt"
)

// ErrorType categorizes application errors so transport code can pick a
// status without inspecting messages.
type ErrorType string

const (
	// ErrorTypeValidation covers bad request input and bad configuration,
	// such as an unknown pipeline provider or a malformed rule table.
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal covers failures inside this process, such as a rule
	// pattern that does not compile or a model session that cannot start.
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal covers failures of a collaborator, such as the
	// remote NLP pipeline returning an error.
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeUnavailable covers optional infrastructure that could not be
	// reached, such as Redis at startup.
	ErrorTypeUnavailable ErrorType = "UNAVAILABLE"
)

// AppError is the error type returned across package boundaries.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{Type: ErrorTypeValidation, Message: message}
}

// NewInternalError creates an internal error wrapping its cause.
func NewInternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeInternal, Message: message, Err: err}
}

// NewExternalError creates an external-collaborator error wrapping its cause.
func NewExternalError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeExternal, Message: message, Err: err}
}

// NewUnavailableError creates an infrastructure-unavailable error wrapping
// its cause.
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{Type: ErrorTypeUnavailable, Message: message, Err: err}
}
