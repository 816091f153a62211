package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")

	// Write-time errors
	ErrConstraintViolation = errors.New("constraint violation")

	// Validation errors
	ErrInvalidField = errors.New("invalid field")
	ErrBadRequest   = errors.New("bad request")
)

// Student and mark errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrMarkNotFound    = errors.New("mark not found")
)

// NewConstraintViolationError creates a constraint violation carrying a user-facing message
func NewConstraintViolationError(message string) *CustomError {
	return &CustomError{
		Err:     ErrConstraintViolation,
		Message: message,
	}
}

// NewInvalidFieldError reports a field an update cannot accept
func NewInvalidFieldError(field, message string) *CustomError {
	return &CustomError{
		Err:     ErrInvalidField,
		Message: message,
		Details: map[string]interface{}{"field": field},
	}
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}
