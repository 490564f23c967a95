package cache

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/config"
	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// Module provides the forwarded-message ledger for fx DI
var Module = fx.Module("cache",
	fx.Provide(NewForwardedLedgerFx),
)

// NewForwardedLedgerFx creates the forwarded-message ledger from config
func NewForwardedLedgerFx(forwardingCfg *config.ForwardingConfig, logger zerolog.Logger) domain.ForwardLedger {
	return NewForwardedLedger(forwardingCfg.LedgerTTL, logger)
}
