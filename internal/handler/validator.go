package handler

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Loose phone check in the spirit of a contact book: digits with the
// usual separators, optionally prefixed with +
var phonePattern = regexp.MustCompile(`^\+?[0-9 ().\-]{3,}$`)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface
type RequestValidator struct {
	validate *validator.Validate
}

// NewRequestValidator creates the validator used for all request DTOs.
// Field names in validation errors follow the json tags so error
// reports line up with what the client actually sent.
func NewRequestValidator() *RequestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})

	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	return rv.validate.Struct(i)
}

// fieldErrors flattens a validation failure into a per-field error map
// for the 400 response body. Non-validator errors come back as a
// single catch-all entry.
func fieldErrors(err error) map[string]string {
	result := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		result["request"] = "Invalid request data"
		return result
	}

	for _, fe := range verrs {
		result[fe.Field()] = fieldErrorMessage(fe)
	}

	return result
}

func fieldErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "phone":
		return "must be a valid phone number"
	default:
		return "is invalid"
	}
}
