package channel

import (
	"go.uber.org/fx"

	channelhttp "github.com/yourusername/telegram-triage-service/internal/domain/channel/delivery/http"
	"github.com/yourusername/telegram-triage-service/internal/domain/channel/deps"
	"github.com/yourusername/telegram-triage-service/internal/domain/channel/usecase/business"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/http/server"
)

// Module provides channel domain components for fx DI
var Module = fx.Module("channel",
	fx.Provide(
		business.NewUseCase,
		func(uc *business.UseCase) deps.ChannelUseCase {
			return uc
		},
		channelhttp.NewChannelHandler,
		channelhttp.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers channel HTTP routes on the server
func registerRoutes(srv *server.Server, router *channelhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
