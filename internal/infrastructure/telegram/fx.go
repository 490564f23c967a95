package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/config"
	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// connectTimeout leaves room for interactive authentication input.
const connectTimeout = 5 * time.Minute

// Module provides the Telegram client for fx DI
var Module = fx.Module("telegram",
	fx.Provide(NewClientFx),
)

// NewClientFx creates the MTProto client with lifecycle hooks for fx DI
func NewClientFx(
	lc fx.Lifecycle,
	telegramCfg *config.TelegramConfig,
	logger zerolog.Logger,
) (domain.TelegramClient, error) {
	client, err := NewClient(ClientConfig{
		APIID:       telegramCfg.APIID,
		APIHash:     telegramCfg.APIHash,
		PhoneNumber: telegramCfg.PhoneNumber,
		SessionDir:  telegramCfg.SessionDir,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			connectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			return client.Connect(connectCtx)
		},
		OnStop: func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	})

	return client, nil
}
