package http

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/yourusername/telegram-triage-service/internal/domain/poll/deps"
	"github.com/yourusername/telegram-triage-service/internal/domain/poll/dto"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
	"github.com/yourusername/telegram-triage-service/pkg/httputil"
)

// PollHandler handles the message polling HTTP endpoint
type PollHandler struct {
	useCase deps.PollUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewPollHandler creates a new poll handler
func NewPollHandler(useCase deps.PollUseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *PollHandler {
	return &PollHandler{
		useCase: useCase,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "poll").Logger(),
	}
}

// GetMessages handles POST /get-messages
func (h *PollHandler) GetMessages(ctx *fasthttp.RequestCtx) {
	var req dto.PollRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		httputil.WriteErrorMessage(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.useCase.RunPoll(ctx, req.Channels)
	if err != nil {
		status, message := h.mapper.MapErrorToHTTP(err)
		httputil.WriteErrorMessage(ctx, status, message)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, dto.NewPollResponse(result))
}
