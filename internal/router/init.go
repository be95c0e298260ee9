package router

import (
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/arielgp/secrets-service/internal/application"
	"github.com/arielgp/secrets-service/internal/container"
	pginfra "github.com/arielgp/secrets-service/internal/infrastructure/postgres"
	handlers "github.com/arielgp/secrets-service/internal/interface/http"
	"github.com/arielgp/secrets-service/internal/router/modules"
	"github.com/arielgp/secrets-service/pkg/helpers"
)

func buildAuthHandler() (*handlers.AuthHandler, error) {
	cfg := container.GetConfig()

	cipher, err := helpers.NewCredentialCipher(cfg.CipherSecret)
	if err != nil {
		return nil, err
	}

	svc := application.NewAuthService(
		pginfra.NewUserRepository(container.GetPGPool()),
		cipher,
		helpers.NewPasswordHasher(cfg.BcryptCost),
		container.GetLogger(),
	)

	var oauthCfg *oauth2.Config
	if cfg.GoogleOAuthEnabled() {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL(),
			Scopes:       []string{"openid", "profile", "email"},
			Endpoint:     google.Endpoint,
		}
	} else {
		container.GetLogger().Warn("google oauth credentials not set; google login disabled")
	}

	return handlers.NewAuthHandler(
		svc,
		container.GetSessions(),
		helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure),
		container.GetLogger(),
		container.GetRedis(),
		oauthCfg,
	), nil
}

// InitModules builds all feature modules from the container singletons and
// registers them with the router registry. Called once during startup.
func InitModules(r *Registry) error {
	authHandler, err := buildAuthHandler()
	if err != nil {
		return err
	}
	r.Add(modules.NewAuthModule(authHandler))

	viewer := handlers.NewViewerHandler(container.GetPGPool(), container.GetLogger())
	r.Add(modules.NewViewerModule(viewer))
	return nil
}
