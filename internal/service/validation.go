package service

import (
	"alcyxob/health-tracker/internal/domain"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// NonFieldErrors is the key under which form-scoped errors are reported.
const NonFieldErrors = "non_field_errors"

var (
	ErrValidation = errors.New("validation failed")
	ErrParse      = errors.New("Invalid value format")
)

// ValidationError carries per-field messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func formError(msg string) *ValidationError {
	return fieldError(NonFieldErrors, msg)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// clock accepts HH:MM or HH:MM:SS
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := parseClock(fl.Field().String())
		return err == nil
	}); err != nil {
		panic(fmt.Sprintf("register clock validation: %v", err))
	}
	return v
}

// validateStruct runs tag validation and converts failures to a ValidationError.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		if _, seen := out.Fields[fe.Field()]; !seen {
			out.Fields[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	isString := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "gte", "min":
		if isString {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte", "max":
		if isString {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Select a valid choice. Valid choices are: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return "Enter a valid date (YYYY-MM-DD)."
	case "clock":
		return "Enter a valid time (HH:MM or HH:MM:SS)."
	case "email":
		return "Enter a valid email address."
	case "eqfield":
		return "The two password fields didn't match."
	}
	return "Invalid value."
}

func parseClock(s string) (string, error) {
	for _, layout := range []string{domain.TimeLayout, "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(domain.TimeLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q", s)
}

// dateOr parses an optional YYYY-MM-DD value, defaulting to fallback.
// The value has already passed the datetime tag.
func dateOr(s string, fallback time.Time) time.Time {
	if s == "" {
		return fallback
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return fallback
	}
	return d
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil
	}
	return &d
}
