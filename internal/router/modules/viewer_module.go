package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arielgp/secrets-service/internal/container"
	handlers "github.com/arielgp/secrets-service/internal/interface/http"
	"github.com/arielgp/secrets-service/internal/interface/middleware"
)

// ViewerModule exposes the read-only database dump at GET /api/db,
// rate-limited per IP. Private addresses bypass the limit so local
// dashboards can poll it.
type ViewerModule struct {
	Handler *handlers.ViewerHandler
}

func NewViewerModule(h *handlers.ViewerHandler) *ViewerModule {
	return &ViewerModule{Handler: h}
}

func (m *ViewerModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP())
	rg.GET("/db", rl, m.Handler.Dump)
}
