package entity

import (
	"time"
)

// NoPasswordSentinel is stored in the password column for accounts created
// through an OAuth provider. It is a fixed, non-secret marker and is never a
// product of the hash/encrypt write path, so it can never verify as a local
// credential.
const NoPasswordSentinel = "oauth"

// User is the persistent account record. For local accounts Password holds
// the encrypted bcrypt hash (never the plaintext, never the bare hash); for
// OAuth-only accounts it holds NoPasswordSentinel.
type User struct {
	ID        string
	Email     string
	Password  string
	CreatedAt time.Time
}

// HasLocalPassword reports whether the account can attempt password login.
func (u *User) HasLocalPassword() bool {
	return u.Password != NoPasswordSentinel
}
