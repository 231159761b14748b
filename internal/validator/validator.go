package validator

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	ErrRequired    = "is required"
	ErrMinValue    = "must be at least %s"
	ErrMaxLength   = "must be at most %s characters long"
	ErrNumeric     = "must be numeric"
	ErrURL         = "must be a valid URL"
	ErrPageSize    = "must be one of 10, 20, 50, 100 or 0 for all records"
	ErrInvalidData = "is invalid"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("page_size", validatePageSize)

	return validator
}

func validatePageSize(fl validator.FieldLevel) bool {
	return slices.Contains(domain.PageSizeOptions, int(fl.Field().Int()))
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "min":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max":
		return fmt.Sprintf(ErrMaxLength, err.Param())
	case "numeric":
		return ErrNumeric
	case "url":
		return ErrURL
	case "page_size":
		return ErrPageSize
	default:
		return ErrInvalidData
	}
}
