package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct-horse", hash)

	ok, err := h.Verify("correct-horse", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("battery-staple", hash)
	require.NoError(t, err, "a wrong password is a negative result, not an error")
	assert.False(t, ok)
}

func TestPasswordHasher_SaltUniqueness(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	h1, err := h.Hash("same-password")
	require.NoError(t, err)
	h2, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "identical plaintexts must hash differently across calls")
}

func TestPasswordHasher_MalformedHashIsError(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, bad := range []string{"", "not-a-bcrypt-hash", "oauth"} {
		ok, err := h.Verify("anything", bad)
		assert.Error(t, err, "malformed hash %q must error, not silently mismatch", bad)
		assert.False(t, ok)
	}
}

func TestPasswordHasher_CostOutOfRangeFallsBack(t *testing.T) {
	h := NewPasswordHasher(99)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
