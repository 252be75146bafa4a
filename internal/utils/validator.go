// internal/utils/validator.go
package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/javajoker/campus-marketplace/internal/models"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("hostel", validateHostel)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// validateHostel accepts a known hostel code. Empty values are left to
// "required"/"omitempty".
func validateHostel(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.Hostel(value).Valid()
}

// Validation tags for common fields
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

// ValidationMessages flattens validation failures into the plain strings
// carried by mutation payloads.
func ValidationMessages(err error) []string {
	var messages []string
	for _, e := range GetValidationErrors(err) {
		messages = append(messages, e.Message)
	}
	if len(messages) == 0 && err != nil {
		messages = append(messages, err.Error())
	}
	return messages
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min", "gte":
		if e.Kind().String() == "string" {
			return e.Field() + " must be at least " + e.Param() + " characters"
		}
		return e.Field() + " must be at least " + e.Param()
	case "max", "lte":
		if e.Kind().String() == "string" {
			return e.Field() + " must be at most " + e.Param() + " characters"
		}
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "e164":
		return e.Field() + " must be a phone number in E.164 format, e.g. +919876543210"
	case "hostel":
		return e.Field() + " must be one of SR, RP, GN, KR, MR"
	default:
		return e.Field() + " is invalid"
	}
}
