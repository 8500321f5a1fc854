// Package gymlog holds the error kinds shared by the catalog, ledger and plans packages.
package gymlog

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrNotFound is returned both for missing rows and for rows owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrInvalidSequence is returned when a proposed ordering does not match the plan entries exactly.
	ErrInvalidSequence = errors.New("invalid sequence")
)

// ValidationError carries per-field messages. Nothing is persisted when it is returned.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Fields: map[string]string{field: message},
	}
}

func (e *ValidationError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e.Fields[f]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// WithFieldError adds a field message to err, which must be nil or a *ValidationError.
// Any other error is returned untouched.
func WithFieldError(err error, field, message string) error {
	if err == nil {
		return NewValidationError(field, message)
	}
	vErr, ok := IsValidationError(err)
	if !ok {
		return err
	}
	if _, exists := vErr.Fields[field]; !exists {
		vErr.Fields[field] = message
	}
	return vErr
}

// IsValidationError reports whether err wraps a *ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return v
}

// Validate runs the struct's `validate` tags and converts failures into a ValidationError
// keyed by the `json` name of each field.
func Validate(params any) error {
	err := validate.Struct(params)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	vErr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		vErr.Fields[fe.Field()] = fieldMessage(fe)
	}
	return vErr
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
