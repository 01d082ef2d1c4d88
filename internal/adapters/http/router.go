package http

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/errtranslate/internal/adapters/http/handlers"
	"github.com/jsamuelsen/errtranslate/internal/adapters/http/middleware"
	"github.com/jsamuelsen/errtranslate/internal/platform/config"
	"github.com/jsamuelsen/errtranslate/internal/platform/telemetry"
)

// DefaultRequestTimeout is used when no request timeout is configured.
const DefaultRequestTimeout = 5 * time.Second

const defaultServiceName = "errtranslate"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	Logger *slog.Logger

	// AuthConfig controls whether replay requires authentication.
	AuthConfig *config.AuthConfig

	AppConfig *config.AppConfig

	HealthHandler    *handlers.HealthHandler
	TranslateHandler *handlers.TranslateHandler

	// Timeout is the deadline applied to /api/v1 requests.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Global middleware runs in this order:
//  1. Recovery
//  2. Request ID and correlation ID
//  3. OpenTelemetry
//  4. Logging (skips /-/ paths)
//  5. Errors, which translates anything handlers attach with c.Error
//
// Health endpoints live under /-/ and the translator under /api/v1.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	engine.Use(
		middleware.Recovery(cfg.Logger),
		middleware.RequestID(),
		middleware.CorrelationID(),
	)
	serviceName := defaultServiceName
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(
		middleware.Logging(cfg.Logger),
		middleware.Errors(),
	)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.TranslateHandler != nil {
		cfg.TranslateHandler.RegisterRoutes(apiV1, replayGuards(cfg.AuthConfig)...)
	}
}

// replayGuards returns the middleware protecting the replay endpoint.
func replayGuards(auth *config.AuthConfig) []gin.HandlerFunc {
	if auth == nil || !auth.Enabled {
		return nil
	}

	guards := []gin.HandlerFunc{middleware.RequireAuth(auth)}
	if auth.ReplayRole != "" {
		guards = append(guards, middleware.RequireRole(auth, auth.ReplayRole))
	}

	if len(auth.ReplayScopes) > 0 {
		guards = append(guards, middleware.RequireScopes(auth, auth.ReplayScopes...))
	}

	if auth.ReplayPermission != "" {
		guards = append(guards, middleware.RequirePermission(auth, auth.ReplayPermission))
	}

	return guards
}

// SetupMinimalRouter sets up a router with just health endpoints.
func SetupMinimalRouter(engine *gin.Engine, logger *slog.Logger, healthHandler *handlers.HealthHandler) {
	engine.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
	)

	if healthHandler != nil {
		healthHandler.RegisterHealthRoutesOnEngine(engine)
	}
}

// NewRouterConfig builds a RouterConfig from the loaded configuration.
func NewRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	translateHandler *handlers.TranslateHandler,
) RouterConfig {
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return RouterConfig{
		Logger:           logger,
		AuthConfig:       &cfg.Auth,
		AppConfig:        &cfg.App,
		HealthHandler:    healthHandler,
		TranslateHandler: translateHandler,
		Timeout:          timeout,
	}
}
