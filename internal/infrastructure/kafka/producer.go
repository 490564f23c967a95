package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// AlertProducer publishes forward alerts to Kafka using an async producer
type AlertProducer struct {
	producer  sarama.AsyncProducer
	topic     string
	logger    zerolog.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
	closed    bool
	closeMu   sync.Mutex
}

// ProducerConfig holds configuration for the alert producer
type ProducerConfig struct {
	Brokers []string
	Topic   string
	Logger  zerolog.Logger
}

// NewAlertProducer creates a new Kafka alert producer.
//
// Configuration highlights:
// - Asynchronous producer, send errors surface via the monitor goroutine
// - Snappy compression
// - Idempotent mode for at-least-once delivery with deduplication
// - Hash partitioner keyed by destination for ordering
func NewAlertProducer(cfg ProducerConfig) (*AlertProducer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("no kafka brokers specified")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka topic is required")
	}

	producer, err := sarama.NewAsyncProducer(cfg.Brokers, newProducerConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	p := &AlertProducer{
		producer: producer,
		topic:    cfg.Topic,
		logger:   cfg.Logger.With().Str("component", "alert_producer").Logger(),
	}

	p.wg.Add(2)
	go p.monitorSuccesses()
	go p.monitorErrors()

	return p, nil
}

// newProducerConfig builds the sarama configuration for the alert producer
func newProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Version = sarama.V2_6_0_0
	config.Producer.Return.Successes = true
	config.Producer.Return.Errors = true
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Idempotent = true
	config.Producer.RequiredAcks = sarama.WaitForAll // Required for idempotent producer
	config.Net.MaxOpenRequests = 1                   // Required for idempotent producer
	config.Producer.Partitioner = sarama.NewHashPartitioner
	return config
}

// monitorSuccesses drains the success channel
func (p *AlertProducer) monitorSuccesses() {
	defer p.wg.Done()
	for msg := range p.producer.Successes() {
		p.logger.Debug().
			Str("topic", msg.Topic).
			Int32("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Msg("alert delivered")
	}
}

// monitorErrors drains the error channel
func (p *AlertProducer) monitorErrors() {
	defer p.wg.Done()
	for err := range p.producer.Errors() {
		p.logger.Error().Err(err.Err).
			Str("topic", err.Msg.Topic).
			Msg("failed to deliver alert")
	}
}

// PublishForwardAlert publishes a forward alert event
func (p *AlertProducer) PublishForwardAlert(ctx context.Context, alert *domain.ForwardAlert) error {
	p.closeMu.Lock()
	if p.closed {
		p.closeMu.Unlock()
		return fmt.Errorf("producer is closed")
	}
	p.closeMu.Unlock()

	payload, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("failed to marshal alert: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(alert.Destination),
		Value: sarama.ByteEncoder(payload),
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("alert publish cancelled: %w", ctx.Err())
	}
}

// IsHealthy reports whether the producer can accept alerts
func (p *AlertProducer) IsHealthy() bool {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()
	return !p.closed
}

// Close shuts down the producer, flushing pending alerts
func (p *AlertProducer) Close() error {
	p.closeOnce.Do(func() {
		p.closeMu.Lock()
		p.closed = true
		p.closeMu.Unlock()

		p.closeErr = p.producer.Close()
		p.wg.Wait()
	})
	return p.closeErr
}

// NoopAlertProducer is used when Kafka is not configured
type NoopAlertProducer struct{}

// PublishForwardAlert discards the alert
func (p *NoopAlertProducer) PublishForwardAlert(ctx context.Context, alert *domain.ForwardAlert) error {
	return nil
}

// IsHealthy always reports healthy
func (p *NoopAlertProducer) IsHealthy() bool {
	return true
}

// Close is a no-op
func (p *NoopAlertProducer) Close() error {
	return nil
}

// Ensure both producers implement domain.AlertProducer
var (
	_ domain.AlertProducer = (*AlertProducer)(nil)
	_ domain.AlertProducer = (*NoopAlertProducer)(nil)
)
