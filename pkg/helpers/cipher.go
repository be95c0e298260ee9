package helpers

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrDecryptFailed is returned when ciphertext is malformed or was not
// produced under the configured secret. GCM authentication guarantees
// decryption never silently yields garbage a caller could mistake for a
// valid hash.
var ErrDecryptFailed = errors.New("credential decrypt failed")

// CredentialCipher wraps stored password hashes in AES-256-GCM under a
// server-held secret, so a copy of the users table is unusable without the
// secret. The key is derived once as SHA-256 of the secret; the same key
// protects every row.
type CredentialCipher struct {
	aead cipher.AEAD
}

func NewCredentialCipher(secret string) (*CredentialCipher, error) {
	if secret == "" {
		return nil, errors.New("cipher secret must not be empty")
	}
	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init gcm: %w", err)
	}
	return &CredentialCipher{aead: aead}, nil
}

// Encrypt seals plainText with a fresh random nonce and returns
// base64(nonce || ciphertext).
func (c *CredentialCipher) Encrypt(plainText string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plainText), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any failure, from bad base64 to a GCM
// authentication mismatch under the wrong secret, comes back as
// ErrDecryptFailed.
func (c *CredentialCipher) Decrypt(cipherText string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return "", ErrDecryptFailed
	}
	if len(raw) < c.aead.NonceSize() {
		return "", ErrDecryptFailed
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecryptFailed
	}
	return string(plain), nil
}
