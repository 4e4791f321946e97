package utils

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/toyz/devbar/internal/errors"
)

// Validator checks a single value and returns a ValidationError on failure
type Validator[T any] func(T) error

// ValidatorChain runs validators in order and stops at the first failure
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add adds a validator to the chain
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
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

// NotEmpty rejects the empty string
func NotEmpty(field string) Validator[string] {
	return func(value string) error {
		if value == "" {
			return errors.ValidationError(field, "cannot be empty")
		}
		return nil
	}
}

// NoWhitespace rejects strings containing any whitespace
func NoWhitespace(field string) Validator[string] {
	return func(value string) error {
		if strings.IndexFunc(value, unicode.IsSpace) >= 0 {
			return errors.ValidationError(field, fmt.Sprintf("%q must not contain whitespace", value))
		}
		return nil
	}
}

// HasPrefix requires a prefix; the empty string passes
func HasPrefix(field, prefix string) Validator[string] {
	return func(value string) error {
		if value != "" && !strings.HasPrefix(value, prefix) {
			return errors.ValidationError(field, fmt.Sprintf("%q must start with '%s'", value, prefix))
		}
		return nil
	}
}

// IsOneOf requires value to be one of allowed
func IsOneOf[T comparable](field string, allowed ...T) Validator[T] {
	return func(value T) error {
		for _, a := range allowed {
			if value == a {
				return nil
			}
		}
		return errors.ValidationError(field, fmt.Sprintf("%v must be one of %v", value, allowed))
	}
}
