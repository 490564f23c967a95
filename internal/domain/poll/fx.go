package poll

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/config"
	"github.com/yourusername/telegram-triage-service/internal/domain"
	pollhttp "github.com/yourusername/telegram-triage-service/internal/domain/poll/delivery/http"
	"github.com/yourusername/telegram-triage-service/internal/domain/poll/deps"
	"github.com/yourusername/telegram-triage-service/internal/domain/poll/usecase/business"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/http/server"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/metrics"
)

// Module provides poll domain components for fx DI
var Module = fx.Module("poll",
	fx.Provide(
		NewTrackerFx,
		NewMatcherFx,
		NewDispatcherFx,
		NewUseCaseFx,
		// Expose the use case behind its delivery-facing interface
		func(uc *business.UseCase) deps.PollUseCase {
			return uc
		},
		pollhttp.NewPollHandler,
		pollhttp.NewRouter,
	),
	fx.Invoke(registerRoutes),
)

// NewTrackerFx creates the checkpoint tracker for fx DI
func NewTrackerFx(pollCfg *config.PollConfig) *business.Tracker {
	return business.NewTracker(pollCfg.Lookback, pollCfg.TimeOffset)
}

// NewMatcherFx creates the keyword matcher for fx DI
func NewMatcherFx(fwdCfg *config.ForwardingConfig) *business.KeywordMatcher {
	return business.NewKeywordMatcher(fwdCfg.Keywords, fwdCfg.KeywordLengthLimit)
}

// NewDispatcherFx creates the forward dispatcher for fx DI
func NewDispatcherFx(fwdCfg *config.ForwardingConfig, logger zerolog.Logger) *business.ForwardDispatcher {
	return business.NewForwardDispatcher(fwdCfg.TargetChannel, logger)
}

// NewUseCaseFx creates the poll use case for fx DI
func NewUseCaseFx(
	client domain.TelegramClient,
	tracker *business.Tracker,
	matcher *business.KeywordMatcher,
	dispatcher *business.ForwardDispatcher,
	ledger domain.ForwardLedger,
	alerts domain.AlertProducer,
	m *metrics.Metrics,
	logger zerolog.Logger,
	pollCfg *config.PollConfig,
) *business.UseCase {
	return business.NewUseCase(client, tracker, matcher, dispatcher, ledger, alerts, m, logger, pollCfg.FetchLimit)
}

// registerRoutes registers poll HTTP routes on the server
func registerRoutes(srv *server.Server, router *pollhttp.Router) {
	router.RegisterRoutes(srv.Router)
}
