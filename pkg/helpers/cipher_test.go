package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialCipher_RoundTrip(t *testing.T) {
	c, err := NewCredentialCipher("server-secret")
	require.NoError(t, err)

	for _, plain := range []string{"", "x", "$2a$14$abcdefghijklmnopqrstuvwx", "unicode ✓ payload"} {
		ct, err := c.Encrypt(plain)
		require.NoError(t, err)
		assert.NotEqual(t, plain, ct)

		got, err := c.Decrypt(ct)
		require.NoError(t, err)
		assert.Equal(t, plain, got)
	}
}

func TestCredentialCipher_NonceUniqueness(t *testing.T) {
	c, err := NewCredentialCipher("server-secret")
	require.NoError(t, err)

	ct1, err := c.Encrypt("same input")
	require.NoError(t, err)
	ct2, err := c.Encrypt("same input")
	require.NoError(t, err)
	assert.NotEqual(t, ct1, ct2)
}

func TestCredentialCipher_WrongSecretFails(t *testing.T) {
	c1, err := NewCredentialCipher("secret-one")
	require.NoError(t, err)
	c2, err := NewCredentialCipher("secret-two")
	require.NoError(t, err)

	ct, err := c1.Encrypt("stored hash text")
	require.NoError(t, err)

	_, err = c2.Decrypt(ct)
	assert.ErrorIs(t, err, ErrDecryptFailed, "wrong secret must fail, never return plausible garbage")
}

func TestCredentialCipher_MalformedInputFails(t *testing.T) {
	c, err := NewCredentialCipher("server-secret")
	require.NoError(t, err)

	for _, bad := range []string{"", "!!!not base64!!!", "c2hvcnQ=", "oauth"} {
		_, err := c.Decrypt(bad)
		assert.ErrorIs(t, err, ErrDecryptFailed, "input %q", bad)
	}
}

func TestCredentialCipher_TamperDetected(t *testing.T) {
	c, err := NewCredentialCipher("server-secret")
	require.NoError(t, err)

	ct, err := c.Encrypt("stored hash text")
	require.NoError(t, err)

	// flip one character of the base64 payload
	b := []byte(ct)
	if b[len(b)-2] == 'A' {
		b[len(b)-2] = 'B'
	} else {
		b[len(b)-2] = 'A'
	}
	_, err = c.Decrypt(string(b))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestNewCredentialCipher_EmptySecret(t *testing.T) {
	_, err := NewCredentialCipher("")
	assert.Error(t, err)
}
