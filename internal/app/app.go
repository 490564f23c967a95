package app

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/config"
	"github.com/yourusername/telegram-triage-service/internal/domain/channel"
	"github.com/yourusername/telegram-triage-service/internal/domain/poll"
	"github.com/yourusername/telegram-triage-service/internal/domain/status"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		// Domain modules
		poll.Module,
		channel.Module,
		status.Module,
	)
}
