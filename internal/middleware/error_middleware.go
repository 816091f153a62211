package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/studentrecords/internal/app/models/dto"
	"github.com/yigit/studentrecords/internal/pkg/apperrors"
)

// HandleAPIError maps service errors onto HTTP responses
func HandleAPIError(c *gin.Context, err error) {
	var custom *apperrors.CustomError
	errors.As(err, &custom)

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound),
		errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrMarkNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, err.Error())))
	case errors.Is(err, apperrors.ErrInvalidField):
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidField, err.Error()).
			WithSeverity(dto.ErrorSeverityWarning)
		if custom != nil {
			if field, ok := custom.Details["field"].(string); ok {
				detail = detail.WithField(field)
			}
		}
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
	case errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()).
				WithSeverity(dto.ErrorSeverityWarning)))
	case errors.Is(err, apperrors.ErrConstraintViolation):
		detail := dto.NewErrorDetail(dto.ErrorCodeConstraintViolation, err.Error())
		if custom != nil {
			detail = detail.WithDetails(custom.Details)
		}
		c.JSON(http.StatusConflict, dto.NewErrorResponse(detail))
	default:
		// Unknown errors are logged by RequestLogger through c.Error
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}

// RespondValidationError writes a 400 for a request that failed binding or parsing.
// Client mistakes carry WARNING severity.
func RespondValidationError(c *gin.Context, message string, err error) {
	detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message).
		WithSeverity(dto.ErrorSeverityWarning)
	if err != nil {
		detail = detail.WithDetails(validationDetails(err))
	}
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
}
