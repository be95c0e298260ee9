package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/arielgp/secrets-service/internal/domain/entity"
	"github.com/arielgp/secrets-service/internal/domain/repository"
	"github.com/arielgp/secrets-service/pkg/helpers"
)

var (
	// ErrInvalidInput covers empty credential fields on registration.
	ErrInvalidInput = errors.New("email and password must not be empty")
	// ErrInvalidCredentials is the single rejection every failed login
	// collapses into. The underlying cause (unknown email, wrong password,
	// unreadable stored secret) is distinguished in logs only, so callers
	// cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken is the duplicate-email outcome on registration. It is a
	// normal result of concurrent registration, not a fault.
	ErrEmailTaken = repository.ErrEmailTaken
)

// Profile is the identity asserted by the OAuth provider's callback. It is
// trusted as-is once the code exchange has succeeded.
type Profile struct {
	Email string
	Name  string
}

// AuthService implements the local and OAuth authentication strategies over
// the user store. The local write path applies two transforms in sequence:
// a salted one-way hash, then symmetric encryption of the hash text under
// the server secret.
type AuthService struct {
	repo   repository.UserRepository
	cipher *helpers.CredentialCipher
	hasher *helpers.PasswordHasher
	logger *logrus.Logger
}

func NewAuthService(repo repository.UserRepository, cipher *helpers.CredentialCipher, hasher *helpers.PasswordHasher, logger *logrus.Logger) *AuthService {
	return &AuthService{repo: repo, cipher: cipher, hasher: hasher, logger: logger}
}

// AuthenticateLocal verifies an email+password pair:
// lookup -> sentinel short-circuit -> decrypt -> verify, exiting on the
// first failure with ErrInvalidCredentials.
func (s *AuthService) AuthenticateLocal(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.logger.WithField("email", email).Debug("login rejected: no such account")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !u.HasLocalPassword() {
		s.logger.WithField("user_id", u.ID).Info("login rejected: account has no local password")
		return nil, ErrInvalidCredentials
	}

	hashText, err := s.cipher.Decrypt(u.Password)
	if err != nil {
		// Implies secret rotation or data corruption; an anomaly worth an
		// operator's attention, but still just a rejection to the caller.
		s.logger.WithField("user_id", u.ID).Warn("login rejected: stored credential unreadable with configured secret")
		return nil, ErrInvalidCredentials
	}

	match, err := s.hasher.Verify(password, hashText)
	if err != nil {
		s.logger.WithField("user_id", u.ID).Warn("login rejected: decrypted credential is not a valid hash")
		return nil, ErrInvalidCredentials
	}
	if !match {
		s.logger.WithField("user_id", u.ID).Debug("login rejected: password mismatch")
		return nil, ErrInvalidCredentials
	}

	return u, nil
}

// RegisterLocal creates a local account: hash, then encrypt, then insert.
// The existence pre-check keeps the common duplicate case cheap, but the
// store's uniqueness constraint is what actually decides concurrent
// registrations of the same email.
func (s *AuthService) RegisterLocal(ctx context.Context, email, password string) (*entity.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking existing account: %w", err)
	}

	hashText, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	stored, err := s.cipher.Encrypt(hashText)
	if err != nil {
		return nil, fmt.Errorf("encrypting credential: %w", err)
	}

	u := &entity.User{Email: email, Password: stored}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("account registered")
	return u, nil
}

// AuthenticateOAuth reconciles a provider profile with the local store,
// creating a sentinel-secret account on first sight. Both branches are an
// authenticated outcome.
func (s *AuthService) AuthenticateOAuth(ctx context.Context, p Profile) (*entity.User, error) {
	if p.Email == "" {
		return nil, ErrInvalidInput
	}

	u, err := s.repo.GetByEmail(ctx, p.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("looking up account: %w", err)
	}

	u = &entity.User{Email: p.Email, Password: entity.NoPasswordSentinel}
	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			// Lost a first-login race; the row now exists.
			return s.repo.GetByEmail(ctx, p.Email)
		}
		return nil, fmt.Errorf("creating account: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"user_id": u.ID}).Info("account created from oauth profile")
	return u, nil
}
