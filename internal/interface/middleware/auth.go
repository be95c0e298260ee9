package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arielgp/secrets-service/internal/application"
	"github.com/arielgp/secrets-service/pkg/helpers"
	"github.com/arielgp/secrets-service/pkg/response"
)

// PrincipalResolver resolves the session token into the authenticated
// Principal. Satisfied by application.SessionManager.
type PrincipalResolver interface {
	Current(ctx context.Context, token string) (*application.Principal, error)
}

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"
)

// Auth gates protected routes on an active session. On success the
// Principal's id and email are placed into the Gin context; every failure is
// the same generic 401.
func Auth(sessions PrincipalResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(helpers.SessionCookieName)
		if err != nil || token == "" {
			response.AbortError(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		p, err := sessions.Current(c.Request.Context(), token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "authentication required", nil)
			return
		}
		c.Set(CtxUserIDKey, p.ID)
		c.Set(CtxUserEmailKey, p.Email)
		c.Next()
	}
}
