package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
)

// Router registers channel HTTP routes
type Router struct {
	handler *ChannelHandler
	logger  zerolog.Logger
}

// NewRouter creates a new channel router
func NewRouter(handler *ChannelHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers channel routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.POST("/get-channel-info", r.handler.GetChannelInfo)

	r.logger.Info().Msg("channel routes registered")
}
