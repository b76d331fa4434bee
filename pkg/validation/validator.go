// Package validation checks configuration structs and ontology document names.
package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxNameLength bounds class, role and individual names.
	MaxNameLength = 256

	// Names start with a letter or underscore and may carry IRI-like separators.
	namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.:#/\-]*$`)
)

// ErrInvalid marks every error produced by this package.
var ErrInvalid = errors.New("validation failed")

func init() {
	validate = validator.New()
}

// Struct validates v against its `validate` struct tags.
func Struct(v any) error {
	if v == nil {
		return fmt.Errorf("%w: value cannot be nil", ErrInvalid)
	}
	if err := validate.Struct(v); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ValidateName checks a class, role or individual name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalid)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name '%s' exceeds maximum length of %d characters", ErrInvalid, name, MaxNameLength)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: name '%s' is invalid (must start with letter or underscore)", ErrInvalid, name)
	}
	return nil
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalid, field)
		case "min", "gte":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalid, field, param)
		case "max", "lte":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalid, field, param)
		case "oneof":
			return fmt.Errorf("%w: %s: must be one of [%s]", ErrInvalid, field, param)
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalid, field, e.Tag())
		}
	}

	return err
}
