package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	authhandlers "github.com/satrf/scorekeeper/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/satrf/scorekeeper/app/modules/auth/infrastructure/jwt"
	"github.com/satrf/scorekeeper/config"
	"golang.org/x/time/rate"
)

// Module holds the pieces other modules use to protect their routes.
type Module struct {
	Provider    authjwt.Provider
	RateLimiter *authhandlers.IPRateLimiter
	logger      *slog.Logger
}

// NewAuthModule creates the auth module and mounts /api/auth.
func NewAuthModule(ctx context.Context, cfg *config.Config, httpRouter chi.Router, logger *slog.Logger) *Module {
	logger.InfoContext(ctx, "Initializing auth module")

	m := &Module{
		Provider:    authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		RateLimiter: authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RateLimitRPS), cfg.HTTP.RateLimitBurst),
		logger:      logger,
	}

	if httpRouter != nil {
		httpRouter.Route("/api/auth", func(r chi.Router) {
			r.Use(m.Authenticate)
			r.Get("/me", authhandlers.HandleWhoAmI)
		})
	}

	logger.InfoContext(ctx, "Auth module initialized")
	return m
}

// Authenticate validates the bearer token.
func (m *Module) Authenticate(next http.Handler) http.Handler {
	return authhandlers.BearerAuth(m.Provider, m.logger)(next)
}

// RequireScoreManager limits a route to editors and admins.
func (m *Module) RequireScoreManager(next http.Handler) http.Handler {
	return authhandlers.RequireScoreManager(next)
}

// RateLimit applies the shared per-IP limiter.
func (m *Module) RateLimit(next http.Handler) http.Handler {
	return authhandlers.RateLimitMiddleware(m.RateLimiter)(next)
}
