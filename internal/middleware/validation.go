package middleware

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// FieldViolation is one failed binding rule of a request body
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validationDetails flattens binding errors into per-field messages.
// Errors that did not come from the validator (malformed JSON, wrong types)
// are reported as their plain text.
func validationDetails(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	violations := make([]FieldViolation, 0, len(verrs))
	for _, e := range verrs {
		violations = append(violations, FieldViolation{
			Field:   e.Field(),
			Message: formatValidationError(e),
		})
	}
	return violations
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
