package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/arielgp/secrets-service/internal/domain/entity"
	"github.com/arielgp/secrets-service/pkg/helpers"
)

// ErrNoSession means the token is invalid, expired, or its session record
// is gone.
var ErrNoSession = errors.New("no active session")

// Principal is the authenticated identity for the lifetime of a session: a
// snapshot taken at login, never refreshed from the store.
type Principal struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// sessionRecord is the serialized form of the User snapshot, an identity
// mapping over the full record. It lives only server-side in Redis; the
// cookie carries just the signed session token.
type sessionRecord struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionManager persists Principal snapshots in Redis keyed by a random
// session id, with a fixed expiry shared with the signed token.
type SessionManager struct {
	rdb    *redis.Client
	tokens *helpers.TokenManager
	logger *logrus.Logger
}

func NewSessionManager(rdb *redis.Client, tokens *helpers.TokenManager, logger *logrus.Logger) *SessionManager {
	return &SessionManager{rdb: rdb, tokens: tokens, logger: logger}
}

func sessionKey(sid string) string { return "session:" + sid }

// Login serializes the user snapshot into a new session and returns the
// signed token and its expiry.
func (m *SessionManager) Login(ctx context.Context, u *entity.User) (string, time.Time, error) {
	sid := uuid.NewString()
	token, exp, err := m.tokens.Generate(u.ID, sid)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing session token: %w", err)
	}

	rec := sessionRecord{ID: u.ID, Email: u.Email, Password: u.Password, CreatedAt: u.CreatedAt}
	if err := helpers.RedisSetJSON(ctx, m.rdb, sessionKey(sid), rec, m.tokens.TTL()); err != nil {
		return "", time.Time{}, fmt.Errorf("storing session record: %w", err)
	}

	m.logger.WithFields(logrus.Fields{"user_id": u.ID, "sid": sid}).Debug("session created")
	return token, exp, nil
}

// Current deserializes the session behind the token into a Principal. The
// stored snapshot is trusted as-is for the remainder of the session.
func (m *SessionManager) Current(ctx context.Context, token string) (*Principal, error) {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil, ErrNoSession
	}

	var rec sessionRecord
	found, err := helpers.RedisGetJSON(ctx, m.rdb, sessionKey(claims.SessionID), &rec)
	if err != nil {
		return nil, fmt.Errorf("loading session record: %w", err)
	}
	if !found {
		return nil, ErrNoSession
	}

	return &Principal{ID: rec.ID, Email: rec.Email, CreatedAt: rec.CreatedAt}, nil
}

// Logout removes the session record. An unparseable token means there is
// nothing to clear.
func (m *SessionManager) Logout(ctx context.Context, token string) error {
	claims, err := m.tokens.Parse(token)
	if err != nil {
		return nil
	}
	if err := m.rdb.Del(ctx, sessionKey(claims.SessionID)).Err(); err != nil {
		return fmt.Errorf("clearing session record: %w", err)
	}
	return nil
}
