package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arielgp/secrets-service/internal/container"
	handlers "github.com/arielgp/secrets-service/internal/interface/http"
	"github.com/arielgp/secrets-service/internal/interface/middleware"
)

// AuthModule wires the credential and session routes.
// Public: POST /api/register, POST /api/login, GET /api/auth/google,
// GET /api/auth/google/callback.
// Protected: POST /api/logout, GET /api/me.
type AuthModule struct {
	Handler *handlers.AuthHandler
}

func NewAuthModule(h *handlers.AuthHandler) *AuthModule {
	return &AuthModule{Handler: h}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Credential endpoints get the tightest per-IP limits.
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	oauthLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/auth/google", oauthLimiter, m.Handler.GoogleRedirect)
	rg.GET("/auth/google/callback", oauthLimiter, m.Handler.GoogleCallback)

	auth := rg.Group("/")
	auth.Use(middleware.Auth(container.GetSessions()))
	auth.Use(middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/logout", m.Handler.Logout)
		auth.GET("/me", m.Handler.Me)
	}
}
