package repository

import (
	"context"
	"errors"

	"github.com/arielgp/secrets-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup key.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when an insert hits the email uniqueness
	// constraint. The constraint, not a prior existence check, is the
	// guard against concurrent registration of the same email.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository defines user persistence. Email is the sole lookup key for
// authentication flows.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
}
