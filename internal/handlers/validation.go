package handlers

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	nonstd "github.com/go-playground/validator/v10/non-standard/validators"

	"chat-gateway/internal/models"
)

// NewValidator builds the validator instance shared by all handlers. Field
// names in error output follow the json tags so clients see the paths they
// actually sent.
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	// notblank rejects whitespace-only strings that pass plain "required"
	_ = v.RegisterValidation("notblank", nonstd.NotBlank)

	return v
}

// validateStruct runs the validator and folds every failing field into one
// BAD_REQUEST error. Validation fails closed and reports all fields, not
// just the first.
func validateStruct(v *validator.Validate, s interface{}) *models.AppError {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return models.NewValidationError("request validation failed", nil).WithCause(err)
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fieldErr := range validationErrors {
		fields[fieldErr.Field()] = fieldMessage(fieldErr)
	}

	return models.NewValidationError("request validation failed", fields)
}

func fieldMessage(fieldErr validator.FieldError) string {
	switch fieldErr.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be empty or whitespace"
	case "email":
		return "must be a valid email address"
	default:
		return "is invalid"
	}
}
