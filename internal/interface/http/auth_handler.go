package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/arielgp/secrets-service/internal/application"
	"github.com/arielgp/secrets-service/internal/domain/entity"
	"github.com/arielgp/secrets-service/internal/interface/middleware"
	"github.com/arielgp/secrets-service/pkg/helpers"
	"github.com/arielgp/secrets-service/pkg/response"
	"github.com/arielgp/secrets-service/pkg/validation"
)

// googleUserInfoURL returns the verified profile for the exchanged token.
const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

const oauthStateTTL = 10 * time.Minute

// SessionStore is the slice of session behavior the handlers need.
// Satisfied by application.SessionManager.
type SessionStore interface {
	Login(ctx context.Context, u *entity.User) (string, time.Time, error)
	Logout(ctx context.Context, token string) error
}

type AuthHandler struct {
	Svc      *application.AuthService
	Sessions SessionStore
	Cookies  *helpers.CookieManager
	Logger   *logrus.Logger
	RDB      *redis.Client  // OAuth state nonces
	OAuth    *oauth2.Config // nil when Google login is not configured
}

func NewAuthHandler(svc *application.AuthService, sessions SessionStore, cookies *helpers.CookieManager, logger *logrus.Logger, rdb *redis.Client, oauth *oauth2.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Sessions: sessions, Cookies: cookies, Logger: logger, RDB: rdb, OAuth: oauth}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Register handles POST /api/register: create the account and log the new
// principal in immediately.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.RegisterLocal(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, "email and password are required", nil)
		return
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "email already registered", nil)
		return
	case err != nil:
		h.Logger.WithError(err).Error("registration failed")
		response.Error(c, http.StatusInternalServerError, "registration failed", nil)
		return
	}

	if !h.startSession(c, u) {
		return
	}
	response.Success(c, http.StatusCreated, userResponse{ID: u.ID, Email: u.Email}, "registered")
}

// Login handles POST /api/login. Every rejection is the same 401; the cause
// lives in the service logs only.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	u, err := h.Svc.AuthenticateLocal(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, application.ErrInvalidCredentials) {
			response.Error(c, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		h.Logger.WithError(err).Error("login failed")
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	if !h.startSession(c, u) {
		return
	}
	response.Success(c, http.StatusOK, userResponse{ID: u.ID, Email: u.Email}, "login successful")
}

// Logout handles POST /api/logout on protected routes.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(helpers.SessionCookieName); err == nil && token != "" {
		if err := h.Sessions.Logout(c.Request.Context(), token); err != nil {
			h.Logger.WithError(err).Warn("session cleanup failed")
		}
	}
	h.Cookies.Clear(c)
	response.Success(c, http.StatusOK, map[string]any{"logged_out": true}, "logged out")
}

// Me handles GET /api/me, returning the session principal.
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, http.StatusOK, userResponse{
		ID:    c.GetString(middleware.CtxUserIDKey),
		Email: c.GetString(middleware.CtxUserEmailKey),
	}, "authenticated")
}

// GoogleRedirect handles GET /api/auth/google: issue a single-use state
// nonce and send the browser to the consent screen.
func (h *AuthHandler) GoogleRedirect(c *gin.Context) {
	if h.OAuth == nil {
		response.Error(c, http.StatusServiceUnavailable, "google login is not configured", nil)
		return
	}
	state, err := genState()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "could not start google login", nil)
		return
	}
	if err := h.RDB.Set(c.Request.Context(), stateKey(state), "1", oauthStateTTL).Err(); err != nil {
		h.Logger.WithError(err).Error("storing oauth state failed")
		response.Error(c, http.StatusInternalServerError, "could not start google login", nil)
		return
	}
	c.Redirect(http.StatusFound, h.OAuth.AuthCodeURL(state))
}

// GoogleCallback handles GET /api/auth/google/callback. The state nonce is
// checked and consumed; the profile returned by the provider is trusted
// as-is once the code exchange succeeds.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.OAuth == nil {
		response.Error(c, http.StatusServiceUnavailable, "google login is not configured", nil)
		return
	}
	ctx := c.Request.Context()

	state := c.Query("state")
	if state == "" {
		response.Error(c, http.StatusBadRequest, "missing state", nil)
		return
	}
	if n, err := h.RDB.Del(ctx, stateKey(state)).Result(); err != nil || n == 0 {
		response.Error(c, http.StatusUnauthorized, "google sign-in failed", nil)
		return
	}

	tok, err := h.OAuth.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.Logger.WithError(err).Info("oauth code exchange rejected")
		response.Error(c, http.StatusUnauthorized, "google sign-in failed", nil)
		return
	}

	profile, err := fetchGoogleProfile(ctx, h.OAuth, tok)
	if err != nil {
		h.Logger.WithError(err).Warn("fetching google profile failed")
		response.Error(c, http.StatusBadGateway, "google sign-in failed", nil)
		return
	}

	u, err := h.Svc.AuthenticateOAuth(ctx, profile)
	if err != nil {
		h.Logger.WithError(err).Error("oauth authentication failed")
		response.Error(c, http.StatusInternalServerError, "google sign-in failed", nil)
		return
	}

	if !h.startSession(c, u) {
		return
	}
	response.Success(c, http.StatusOK, userResponse{ID: u.ID, Email: u.Email}, "login successful")
}

// startSession persists the snapshot and sets the cookie; on failure it has
// already written the error response.
func (h *AuthHandler) startSession(c *gin.Context, u *entity.User) bool {
	token, exp, err := h.Sessions.Login(c.Request.Context(), u)
	if err != nil {
		h.Logger.WithError(err).WithField("user_id", u.ID).Error("session creation failed")
		response.Error(c, http.StatusInternalServerError, "could not create session", nil)
		return false
	}
	h.Cookies.SetSession(c, token, exp)
	return true
}

func fetchGoogleProfile(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (application.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return application.Profile{}, err
	}
	res, err := cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return application.Profile{}, err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return application.Profile{}, errors.New("userinfo endpoint returned " + res.Status)
	}

	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return application.Profile{}, err
	}
	return application.Profile{Email: info.Email, Name: info.Name}, nil
}

func stateKey(state string) string { return "oauth:state:" + state }

func genState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
