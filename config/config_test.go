package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAndValidate(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", "")
	t.Setenv("HASHING_SECRET", "")

	c := Load()
	assert.Equal(t, 6*time.Hour, c.SessionTTL)
	assert.Equal(t, 14, c.BcryptCost)

	err := c.Validate()
	require.Error(t, err, "missing secrets must fail at startup")
	assert.Contains(t, err.Error(), "SESSION_COOKIE_SECRET")
	assert.Contains(t, err.Error(), "HASHING_SECRET")
}

func TestValidate_OK(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", "s1")
	t.Setenv("HASHING_SECRET", "s2")

	c := Load()
	require.NoError(t, c.Validate())
	assert.False(t, c.GoogleOAuthEnabled())
}

func TestValidate_GoogleCredsMustPair(t *testing.T) {
	t.Setenv("SESSION_COOKIE_SECRET", "s1")
	t.Setenv("HASHING_SECRET", "s2")
	t.Setenv("GOOGLE_CLIENT_ID", "client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	err := Load().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_CLIENT_ID")
}

func TestGoogleCallbackURL(t *testing.T) {
	t.Setenv("BASE_URL", "https://app.example.com/")
	c := Load()
	assert.Equal(t, "https://app.example.com/api/auth/google/callback", c.GoogleCallbackURL())
}

func TestPostgresDSN(t *testing.T) {
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_NAME", "authdb")
	c := Load()
	assert.Equal(t, "postgres://postgres:postgres@db:5432/authdb?sslmode=disable", c.PostgresDSN())
}
