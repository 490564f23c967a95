package http

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// HealthStatus represents the overall health status
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusDegraded  HealthStatus = "degraded"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// ComponentHealth represents health status of a single component
type ComponentHealth struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Message string `json:"message,omitempty"`
}

// HealthResponse represents the JSON response for health check
type HealthResponse struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// HealthHandler handles HTTP health check requests
type HealthHandler struct {
	client   domain.TelegramClient
	producer domain.AlertProducer
	logger   zerolog.Logger
}

// NewHealthHandler creates a new health check handler
func NewHealthHandler(client domain.TelegramClient, producer domain.AlertProducer, logger zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		client:   client,
		producer: producer,
		logger:   logger,
	}
}

// Handle handles the health check request for fasthttp
func (h *HealthHandler) Handle(ctx *fasthttp.RequestCtx) {
	components := h.checkComponents(ctx)
	status := h.determineOverallStatus(components)

	response := HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC(),
		Components: components,
	}

	statusCode := fasthttp.StatusOK
	if status == HealthStatusUnhealthy {
		statusCode = fasthttp.StatusServiceUnavailable
	}

	logEvent := h.logger.Debug()
	if status == HealthStatusUnhealthy {
		logEvent = h.logger.Warn()
	} else if status == HealthStatusDegraded {
		logEvent = h.logger.Info()
	}
	logEvent.
		Str("status", string(status)).
		Int("status_code", statusCode).
		Interface("components", components).
		Msg("Health check completed")

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)

	body, err := json.Marshal(response)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to encode health check response")
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetBody(body)
}

func (h *HealthHandler) checkComponents(ctx *fasthttp.RequestCtx) []ComponentHealth {
	components := make([]ComponentHealth, 0, 2)

	state := h.client.Status(ctx)
	telegramHealthy := state.Connected && state.Authorized
	telegramMsg := ""
	if !state.Connected {
		telegramMsg = "Telegram client is not connected"
	} else if !state.Authorized {
		telegramMsg = "Telegram session is not authorized"
	}

	components = append(components, ComponentHealth{
		Name:    "telegram_client",
		Healthy: telegramHealthy,
		Message: telegramMsg,
	})

	producerHealthy := h.producer != nil && h.producer.IsHealthy()
	producerMsg := ""
	if !producerHealthy {
		producerMsg = "Kafka producer is not healthy"
	}

	components = append(components, ComponentHealth{
		Name:    "kafka_producer",
		Healthy: producerHealthy,
		Message: producerMsg,
	})

	return components
}

// determineOverallStatus determines overall health status based on component health
func (h *HealthHandler) determineOverallStatus(components []ComponentHealth) HealthStatus {
	allHealthy := true
	anyHealthy := false

	for _, component := range components {
		if !component.Healthy {
			allHealthy = false
		} else {
			anyHealthy = true
		}
	}

	if allHealthy {
		return HealthStatusHealthy
	} else if anyHealthy {
		return HealthStatusDegraded
	}

	return HealthStatusUnhealthy
}
