package status

import (
	"go.uber.org/fx"

	statushttp "github.com/yourusername/telegram-triage-service/internal/domain/status/delivery/http"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/http/server"
)

// Module provides status domain components for fx DI
var Module = fx.Module("status",
	fx.Provide(
		statushttp.NewStatusHandler,
		statushttp.NewHealthHandler,
		statushttp.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// registerRoutes registers status HTTP routes on the server
func registerRoutes(srv *server.Server, router *statushttp.Router) {
	router.RegisterRoutes(srv.Router)
}
