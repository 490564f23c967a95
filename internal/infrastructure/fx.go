package infrastructure

import (
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/internal/infrastructure/cache"
	httpfx "github.com/yourusername/telegram-triage-service/internal/infrastructure/http"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/kafka"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/logger"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/metrics"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/telegram"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
)

// Module aggregates all infrastructure modules
var Module = fx.Module("infrastructure",
	logger.Module,
	metrics.Module,
	telegram.Module,
	cache.Module,
	kafka.Module,
	httpfx.Module,
	fx.Provide(pkgerrors.NewMapper),
)
