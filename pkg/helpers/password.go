package helpers

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes plaintext passwords with bcrypt at a fixed cost.
// bcrypt embeds a fresh random salt in every hash, so identical plaintexts
// produce different hash text across calls, and its comparison runs in
// constant time.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash text for plain.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Verify compares plain against hashText. A mismatch is (false, nil);
// a hash that bcrypt cannot parse at all is an error, so callers can tell
// corrupt stored data apart from a wrong password.
func (h *PasswordHasher) Verify(plain, hashText string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hashText), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
