package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("username", "taken").Add("email", "taken too")
	assert.Equal(t, "validation failed: email: taken too, username: taken", err.Error())

	wrapped := fmt.Errorf("auth.SignUp: %w", err)
	got, ok := AsValidation(wrapped)
	require.True(t, ok)
	assert.Equal(t, "taken", got.Fields["username"])

	_, ok = AsValidation(ErrInvalidCode)
	assert.False(t, ok)
}
