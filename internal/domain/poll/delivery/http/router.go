package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers poll HTTP routes
type Router struct {
	handler *PollHandler
	logger  zerolog.Logger
}

// NewRouter creates a new poll router
func NewRouter(handler *PollHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers poll routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/get-messages", r.handler.GetMessages)

	r.logger.Info().Msg("poll routes registered")
}
