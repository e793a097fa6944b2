// Copyright (c) 2026 Clanboard. All rights reserved.
// Author: dev@clanboard.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clanboard/api/internal/platform/apperr"
	"github.com/clanboard/api/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "nickname", "小真", false},
		{"empty_string", "nickname", "", true},
		{"whitespace_only", "nickname", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_PasswordCharset checks the accepted password alphabet.
*/
func TestValidator_PasswordCharset(t *testing.T) {
	tests := []struct {
		name     string
		password string
		isValid  bool
	}{
		{"ascii_letters_digits", "Passw0rd123", true},
		{"allowed_punctuation", "p@ss-w0rd!?", true},
		{"cjk_characters", "密码password", false},
		{"whitespace", "pass word", false},
		{"empty_skipped", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.PasswordCharset("pwd", tt.password)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("pwd", "secret-pw").
		MinLen("pwd", "secret-pw", 8).
		MaxLen("pwd", "secret-pw", 64).
		PasswordCharset("pwd", "secret-pw").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("nickname", "").       // Fails
		MinLen("pwd", "a", 8).          // Fails
		PasswordCharset("pwd", "密码"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 3 errors
	assert.Len(t, ae.Details, 3)
}
