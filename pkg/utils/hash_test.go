package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, CheckPassword(hash, "hunter2"))
	assert.False(t, CheckPassword(hash, "hunter3"))
	assert.False(t, CheckPassword("not-a-hash", "hunter2"))
}

func TestGenerateRandomToken(t *testing.T) {
	token := GenerateRandomToken(16)
	assert.Len(t, token, 16)
	assert.Regexp(t, "^[0-9a-f]+$", token)

	// Odd lengths work too.
	assert.Len(t, GenerateRandomToken(9), 9)

	assert.NotEqual(t, GenerateRandomToken(16), GenerateRandomToken(16))
}
