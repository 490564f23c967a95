package deps

import (
	"context"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// ChannelUseCase resolves channel references to peer metadata.
type ChannelUseCase interface {
	GetChannelInfo(ctx context.Context, channelLink string) (*domain.ChannelPeer, error)
}
