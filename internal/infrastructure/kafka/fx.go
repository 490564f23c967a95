package kafka

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/yourusername/telegram-triage-service/config"
	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// Module provides the alert producer for fx DI
var Module = fx.Module("kafka",
	fx.Provide(NewAlertProducerFx),
)

// NewAlertProducerFx creates the alert producer for fx DI. Alert publishing
// is disabled entirely when no brokers are configured.
func NewAlertProducerFx(
	lc fx.Lifecycle,
	kafkaCfg *config.KafkaConfig,
	logger zerolog.Logger,
) (domain.AlertProducer, error) {
	if !kafkaCfg.Enabled() {
		logger.Info().Msg("Kafka brokers not configured, alert publishing disabled")
		return &NoopAlertProducer{}, nil
	}

	producer, err := NewAlertProducer(ProducerConfig{
		Brokers: kafkaCfg.Brokers,
		Topic:   kafkaCfg.TopicAlerts,
		Logger:  logger,
	})
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return producer.Close()
		},
	})

	return producer, nil
}
