package secret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "confirmation code", value: "3f2a9c1d"},
		{name: "special chars", value: "p@ss!#$%^&*()"},
		{name: "empty value", value: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := Hash(tt.value)
			require.NoError(t, err)
			assert.NotEmpty(t, hash)
			assert.NotEqual(t, tt.value, hash)

			assert.NoError(t, Compare(hash, tt.value))
			assert.ErrorIs(t, Compare(hash, tt.value+"x"), ErrMismatch)
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := Hash("3f2a9c1d")
	require.NoError(t, err)
	second, err := Hash("3f2a9c1d")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompare_BrokenHash(t *testing.T) {
	err := Compare("not-a-bcrypt-hash", "3f2a9c1d")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
