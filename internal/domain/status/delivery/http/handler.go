package http

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/yourusername/telegram-triage-service/internal/domain"
	"github.com/yourusername/telegram-triage-service/internal/domain/poll/usecase/business"
	"github.com/yourusername/telegram-triage-service/pkg/httputil"
)

// StatusResponse represents the JSON response for the status endpoint
type StatusResponse struct {
	ClientConnected  bool      `json:"client_connected"`
	ClientAuthorized bool      `json:"client_authorized"`
	LastCheck        time.Time `json:"last_check"`
	Status           string    `json:"status"`
}

// StatusHandler handles service status HTTP requests
type StatusHandler struct {
	client  domain.TelegramClient
	tracker *business.Tracker
	logger  zerolog.Logger
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(client domain.TelegramClient, tracker *business.Tracker, logger zerolog.Logger) *StatusHandler {
	return &StatusHandler{
		client:  client,
		tracker: tracker,
		logger:  logger.With().Str("handler", "status").Logger(),
	}
}

// GetStatus handles GET /status
func (h *StatusHandler) GetStatus(ctx *fasthttp.RequestCtx) {
	state := h.client.Status(ctx)

	resp := StatusResponse{
		ClientConnected:  state.Connected,
		ClientAuthorized: state.Authorized,
		// Initialized at tracker construction, so always present.
		LastCheck: h.tracker.LastCheck(),
		Status:    "running",
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, resp)
}
