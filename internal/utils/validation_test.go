package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/devbar/internal/errors"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name      string
		validator Validator[string]
		value     string
		wantErr   bool
	}{
		{"not empty ok", NotEmpty("id"), "demo", false},
		{"not empty fails", NotEmpty("id"), "", true},
		{"no whitespace ok", NoWhitespace("id"), "demo-app", false},
		{"no whitespace fails", NoWhitespace("id"), "demo app", true},
		{"no whitespace tab", NoWhitespace("id"), "demo\tapp", true},
		{"prefix ok", HasPrefix("base", "/"), "/docs/", false},
		{"prefix empty", HasPrefix("base", "/"), "", false},
		{"prefix fails", HasPrefix("base", "/"), "docs", true},
		{"one of ok", IsOneOf("server", "echo", "gin"), "gin", false},
		{"one of fails", IsOneOf("server", "echo", "gin"), "chi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validator(tt.value)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ValidationErrorCode))
		})
	}
}

func TestValidatorChain(t *testing.T) {
	chain := NewValidatorChain(NotEmpty("id")).Add(NoWhitespace("id"))

	assert.NoError(t, chain.Validate("demo"))

	err := chain.Validate("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be empty")

	err = chain.Validate("a b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whitespace")
}
