package utils

import (
	"fmt"
	"go/token"
	"regexp"

	"golang.org/x/mod/module"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Validator represents a validation function
type Validator[T any] func(T) error

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Validate runs all validators in the chain
func (vc *ValidatorChain[T]) Validate(value T) error {
	for _, validator := range vc.validators {
		if err := validator(value); err != nil {
			return err
		}
	}
	return nil
}

// NotEmpty validates that a string is not empty
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return ValidationError{Field: field, Value: value, Message: "cannot be empty"}
		}
		return nil
	}
}

// MatchesRegex validates that a string matches pattern. The pattern is
// compiled once, when the validator is built.
func MatchesRegex(field, pattern string) Validator[string] {
	re := regexp.MustCompile(pattern)
	return func(value string) error {
		if !re.MatchString(value) {
			return ValidationError{
				Field:   field,
				Value:   value,
				Message: fmt.Sprintf("must match pattern '%s'", pattern),
			}
		}
		return nil
	}
}

// IsValidGoIdentifier validates that a string is a valid Go identifier and
// not a keyword
func IsValidGoIdentifier(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return ValidationError{Field: field, Value: value, Message: "cannot be empty"}
		}
		if !token.IsIdentifier(value) {
			return ValidationError{Field: field, Value: value, Message: "must be a valid Go identifier"}
		}
		return nil
	}
}

// ValidateEach validates each item in a slice using the provided validator
func ValidateEach[T any](field string, itemValidator Validator[T]) Validator[[]T] {
	return func(value []T) error {
		for i, item := range value {
			if err := itemValidator(item); err != nil {
				return ValidationError{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Value:   item,
					Message: err.Error(),
				}
			}
		}
		return nil
	}
}

// ValidatePackageName validates the package clause of generated files
func ValidatePackageName(field string) Validator[string] {
	return NewValidatorChain(
		IsValidGoIdentifier(field),
		MatchesRegex(field, `^[a-z][a-z0-9_]*$`),
	).Validate
}

// ValidateTypeSuffix validates the suffix appended to generated type names
func ValidateTypeSuffix(field string) Validator[string] {
	return NewValidatorChain(
		NotEmpty(field),
		MatchesRegex(field, `^[A-Za-z0-9_]+$`),
	).Validate
}

// ValidateImportPath validates a Go import or module path
func ValidateImportPath(field string) Validator[string] {
	return NewValidatorChain(
		NotEmpty(field),
		func(value string) error {
			if err := module.CheckImportPath(value); err != nil {
				return ValidationError{Field: field, Value: value, Message: err.Error()}
			}
			return nil
		},
	).Validate
}
