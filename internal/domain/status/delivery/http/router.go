package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers status HTTP routes
type Router struct {
	status *StatusHandler
	health *HealthHandler
	logger zerolog.Logger
}

// NewRouter creates a new status router
func NewRouter(status *StatusHandler, health *HealthHandler, logger zerolog.Logger) *Router {
	return &Router{
		status: status,
		health: health,
		logger: logger,
	}
}

// RegisterRoutes registers status routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/status", r.status.GetStatus)
	rt.GET("/health", r.health.Handle)

	r.logger.Info().Msg("status routes registered")
}
