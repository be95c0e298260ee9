package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/arielgp/secrets-service/internal/application"
	"github.com/arielgp/secrets-service/internal/domain/entity"
	"github.com/arielgp/secrets-service/internal/domain/repository"
	"github.com/arielgp/secrets-service/internal/interface/middleware"
	"github.com/arielgp/secrets-service/pkg/helpers"
	"github.com/arielgp/secrets-service/pkg/validation"
)

type memRepo struct {
	mu      sync.Mutex
	byEmail map[string]*entity.User
	nextID  int
}

func (r *memRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return repository.ErrEmailTaken
	}
	r.nextID++
	u.ID = strconv.Itoa(r.nextID)
	cp := *u
	r.byEmail[u.Email] = &cp
	return nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.byEmail[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byEmail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// stubSessions records logins without Redis.
type stubSessions struct {
	lastUser *entity.User
	fail     bool
}

func (s *stubSessions) Login(_ context.Context, u *entity.User) (string, time.Time, error) {
	if s.fail {
		return "", time.Time{}, errors.New("session store down")
	}
	s.lastUser = u
	return "session-token-" + u.ID, time.Now().Add(6 * time.Hour), nil
}

func (s *stubSessions) Logout(context.Context, string) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *AuthHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	cipher, err := helpers.NewCredentialCipher("test-secret")
	require.NoError(t, err)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc := application.NewAuthService(
		&memRepo{byEmail: map[string]*entity.User{}},
		cipher,
		helpers.NewPasswordHasher(bcrypt.MinCost),
		logger,
	)
	h := NewAuthHandler(svc, &stubSessions{}, helpers.NewCookie("localhost", false), logger, nil, nil)

	r := gin.New()
	r.POST("/api/register", h.Register)
	r.POST("/api/login", h.Login)
	r.GET("/api/auth/google", h.GoogleRedirect)
	return r, h
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister_SetsSessionCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "alice@example.com", resp.Data.Email)
	assert.NotEmpty(t, resp.Data.ID)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies, "registration must auto-login")
	assert.Equal(t, helpers.SessionCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestRegister_InvalidPayload(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, body := range []string{
		`{"email":"","password":"pw"}`,
		`{"email":"alice@example.com","password":""}`,
		`{"email":"not-an-email","password":"pw"}`,
		`{broken json`,
	} {
		w := doJSON(r, http.MethodPost, "/api/register", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body: %s", body)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", `{"email":"alice@example.com","password":"pw-one"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/register", `{"email":"alice@example.com","password":"pw-two"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLogin_RejectionsAreIndistinguishable(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	wrongPw := doJSON(r, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"wrong"}`)
	unknown := doJSON(r, http.MethodPost, "/api/login", `{"email":"ghost@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	// identical bodies modulo timestamps would be ideal; at minimum the
	// user-facing message must not differ
	assert.Contains(t, wrongPw.Body.String(), "invalid credentials")
	assert.Contains(t, unknown.Body.String(), "invalid credentials")
}

func TestLogin_Success(t *testing.T) {
	r, h := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/register", `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"correct-horse"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sess := h.Sessions.(*stubSessions)
	require.NotNil(t, sess.lastUser)
	assert.Equal(t, "alice@example.com", sess.lastUser.Email)
}

func TestGoogleRedirect_NotConfigured(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/auth/google", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// resolverFunc adapts a function to middleware.PrincipalResolver.
type resolverFunc func(ctx context.Context, token string) (*application.Principal, error)

func (f resolverFunc) Current(ctx context.Context, token string) (*application.Principal, error) {
	return f(ctx, token)
}

func TestProtectedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	resolver := resolverFunc(func(_ context.Context, token string) (*application.Principal, error) {
		if token == "good-token" {
			return &application.Principal{ID: "7", Email: "alice@example.com"}, nil
		}
		return nil, application.ErrNoSession
	})

	h := &AuthHandler{
		Sessions: &stubSessions{},
		Cookies:  helpers.NewCookie("localhost", false),
		Logger:   logger,
	}
	r := gin.New()
	auth := r.Group("/", middleware.Auth(resolver))
	auth.GET("/api/me", h.Me)
	auth.POST("/api/logout", h.Logout)

	// no cookie
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// bad token
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: "stale"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// valid session
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: "good-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "alice@example.com")

	// logout clears the cookie
	req = httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.AddCookie(&http.Cookie{Name: helpers.SessionCookieName, Value: "good-token"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, helpers.SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}
