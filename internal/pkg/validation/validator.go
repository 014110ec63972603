// Package validation wraps go-playground/validator with field-level errors
// shaped for API responses.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// ValidationError describes one failed constraint.
type ValidationError struct {
	field   string
	tag     string
	param   string
	value   interface{}
	message string
}

func (e *ValidationError) Field() string      { return e.field }
func (e *ValidationError) Tag() string        { return e.tag }
func (e *ValidationError) Param() string      { return e.param }
func (e *ValidationError) Value() interface{} { return e.value }
func (e *ValidationError) Error() string      { return e.message }

// RequestValidationError collects every failed constraint of a request.
type RequestValidationError struct {
	errors []ValidationError
}

// NewFieldError builds a single-field error for checks done outside struct tags.
func NewFieldError(field, tag, param string, value interface{}, message string) *RequestValidationError {
	return &RequestValidationError{errors: []ValidationError{{
		field:   field,
		tag:     tag,
		param:   param,
		value:   value,
		message: message,
	}}}
}

func (ve *RequestValidationError) Errors() []ValidationError {
	return ve.errors
}

func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}

	messages := make([]string, 0, len(ve.errors))
	for _, err := range ve.errors {
		messages = append(messages, err.Error())
	}
	return strings.Join(messages, "; ")
}

// FieldDetail is the JSON form of a ValidationError.
type FieldDetail struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Details returns the per-field breakdown for an API response.
func (ve *RequestValidationError) Details() []FieldDetail {
	out := make([]FieldDetail, len(ve.errors))
	for i, err := range ve.errors {
		out[i] = FieldDetail{Field: err.field, Tag: err.tag, Message: err.message}
	}
	return out
}

// GetValidator returns the shared validator. Field names in errors follow json tags.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})

	return validate
}

// ValidateStruct runs tag validation on s. It returns nil when s is valid.
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return &RequestValidationError{
			errors: []ValidationError{{
				field:   "unknown",
				tag:     "unknown",
				message: err.Error(),
			}},
		}
	}

	fieldErrors := make([]ValidationError, len(validationErrs))
	for i, fieldErr := range validationErrs {
		fieldErrors[i] = ValidationError{
			field:   fieldErr.Field(),
			tag:     fieldErr.Tag(),
			param:   fieldErr.Param(),
			value:   fieldErr.Value(),
			message: translateError(fieldErr),
		}
	}

	return &RequestValidationError{errors: fieldErrors}
}

var errorMessageTemplates = map[string]string{
	"required": "%s is required",
	"email":    "%s must be a valid email address",
}

var errorMessageWithParam = map[string]string{
	"len": "%s must contain exactly %s values",
	"gte": "%s must be greater than or equal to %s",
	"lte": "%s must be less than or equal to %s",
}

func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	if template, ok := errorMessageWithParam[tag]; ok {
		return fmt.Sprintf(template, field, param)
	}

	switch tag {
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
