package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the triage service
type Config struct {
	Telegram   TelegramConfig
	Poll       PollConfig
	Forwarding ForwardingConfig
	Kafka      KafkaConfig
	Logging    LoggingConfig
	Service    ServiceConfig
}

// TelegramConfig holds Telegram MTProto configuration
type TelegramConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionDir  string
}

// PollConfig holds poll cycle configuration
type PollConfig struct {
	// Lookback is the fixed window duration; every poll scans messages
	// newer than now minus Lookback.
	Lookback time.Duration
	// FetchLimit is how many recent messages are fetched per channel.
	FetchLimit int
	// TimeOffset shifts message timestamps to the target audience's local
	// time instead of UTC.
	TimeOffset time.Duration
}

// ForwardingConfig holds keyword forwarding configuration
type ForwardingConfig struct {
	// TargetChannel is the forward destination. Forwarding is disabled
	// entirely when empty.
	TargetChannel string
	// Keywords is the comma-separated keyword list.
	Keywords string
	// KeywordLengthLimit is the sanity bound; longer keywords are ignored.
	KeywordLengthLimit int
	// LedgerTTL is how long forwarded message IDs are remembered for dedup.
	LedgerTTL time.Duration
}

// KafkaConfig holds Kafka configuration. Alert publishing is disabled when
// no brokers are configured.
type KafkaConfig struct {
	Brokers     []string
	TopicAlerts string
}

// Enabled reports whether alert publishing is configured.
func (c *KafkaConfig) Enabled() bool {
	return len(c.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config     *Config
	Telegram   *TelegramConfig
	Poll       *PollConfig
	Forwarding *ForwardingConfig
	Kafka      *KafkaConfig
	Logging    *LoggingConfig
	Service    *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:     cfg,
		Telegram:   &cfg.Telegram,
		Poll:       &cfg.Poll,
		Forwarding: &cfg.Forwarding,
		Kafka:      &cfg.Kafka,
		Logging:    &cfg.Logging,
		Service:    &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	apiID, err := strconv.Atoi(getEnv("TELEGRAM_API_ID", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_API_ID: %w", err)
	}

	lookback, err := time.ParseDuration(getEnv("POLL_LOOKBACK", "1m"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_LOOKBACK: %w", err)
	}

	fetchLimit, err := strconv.Atoi(getEnv("FETCH_LIMIT", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_LIMIT: %w", err)
	}

	timeOffset, err := time.ParseDuration(getEnv("TIME_OFFSET", "3h30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TIME_OFFSET: %w", err)
	}

	keywordLimit, err := strconv.Atoi(getEnv("KEYWORD_LENGTH_LIMIT", "400"))
	if err != nil {
		return nil, fmt.Errorf("invalid KEYWORD_LENGTH_LIMIT: %w", err)
	}

	ledgerTTL, err := time.ParseDuration(getEnv("FORWARD_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid FORWARD_TTL: %w", err)
	}

	brokers := []string{}
	brokersStr := getEnv("KAFKA_BROKERS", "")
	if brokersStr != "" {
		brokers = strings.Split(brokersStr, ",")
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			APIID:       apiID,
			APIHash:     getEnv("TELEGRAM_API_HASH", ""),
			PhoneNumber: getEnv("TELEGRAM_PHONE_NUMBER", ""),
			SessionDir:  getEnv("TELEGRAM_SESSION_DIR", "./sessions"),
		},
		Poll: PollConfig{
			Lookback:   lookback,
			FetchLimit: fetchLimit,
			TimeOffset: timeOffset,
		},
		Forwarding: ForwardingConfig{
			TargetChannel:      getEnv("TARGET_CHANNEL", ""),
			Keywords:           getEnv("FORWARD_KEYWORDS", ""),
			KeywordLengthLimit: keywordLimit,
			LedgerTTL:          ledgerTTL,
		},
		Kafka: KafkaConfig{
			Brokers:     brokers,
			TopicAlerts: getEnv("KAFKA_TOPIC_ALERTS", "triage.alerts"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "triage-service"),
			Port: getEnv("SERVICE_PORT", "3002"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.APIID == 0 {
		return fmt.Errorf("TELEGRAM_API_ID is required")
	}

	if c.Telegram.APIHash == "" {
		return fmt.Errorf("TELEGRAM_API_HASH is required")
	}

	if c.Telegram.PhoneNumber == "" {
		return fmt.Errorf("TELEGRAM_PHONE_NUMBER is required")
	}

	if c.Poll.Lookback <= 0 {
		return fmt.Errorf("POLL_LOOKBACK must be positive")
	}

	if c.Poll.FetchLimit <= 0 {
		return fmt.Errorf("FETCH_LIMIT must be positive")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
