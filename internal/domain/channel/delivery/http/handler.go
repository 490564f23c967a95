package http

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/yourusername/telegram-triage-service/internal/domain/channel/deps"
	"github.com/yourusername/telegram-triage-service/internal/domain/channel/dto"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
	"github.com/yourusername/telegram-triage-service/pkg/httputil"
)

// ChannelHandler handles channel info HTTP requests
type ChannelHandler struct {
	useCase deps.ChannelUseCase
	mapper  *pkgerrors.Mapper
	logger  zerolog.Logger
}

// NewChannelHandler creates a new channel handler
func NewChannelHandler(useCase deps.ChannelUseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *ChannelHandler {
	return &ChannelHandler{
		useCase: useCase,
		mapper:  mapper,
		logger:  logger.With().Str("handler", "channel").Logger(),
	}
}

// GetChannelInfo handles POST /get-channel-info
func (h *ChannelHandler) GetChannelInfo(ctx *fasthttp.RequestCtx) {
	var req dto.ChannelInfoRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		httputil.WriteErrorMessage(ctx, fasthttp.StatusBadRequest, "invalid request body")
		return
	}

	peer, err := h.useCase.GetChannelInfo(ctx, req.ChannelLink)
	if err != nil {
		status, message := h.mapper.MapErrorToHTTP(err)
		httputil.WriteErrorMessage(ctx, status, message)
		return
	}

	httputil.WriteJSON(ctx, fasthttp.StatusOK, dto.NewChannelInfoResponse(peer))
}
