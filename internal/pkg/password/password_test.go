package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("password123")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, Verify("password123", hash))
	assert.False(t, Verify("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	assert.True(t, ValidatePassword("password123"))
	assert.True(t, ValidatePassword("12345678"))
	assert.False(t, ValidatePassword("short"))
	assert.False(t, ValidatePassword(""))
}
