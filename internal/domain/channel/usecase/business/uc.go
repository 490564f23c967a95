package business

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
)

// UseCase resolves channel references on demand.
type UseCase struct {
	client domain.TelegramClient
	logger zerolog.Logger
}

func NewUseCase(client domain.TelegramClient, logger zerolog.Logger) *UseCase {
	return &UseCase{
		client: client,
		logger: logger.With().Str("component", "channel_usecase").Logger(),
	}
}

// GetChannelInfo resolves one channel reference under a session lease.
// A reference that cannot be resolved is a not-found condition, not a
// server failure.
func (u *UseCase) GetChannelInfo(ctx context.Context, channelLink string) (*domain.ChannelPeer, error) {
	if channelLink == "" {
		return nil, pkgerrors.NewValidationError("no channel link provided")
	}

	session, release, err := u.client.Acquire(ctx)
	if err != nil {
		return nil, pkgerrors.NewServiceUnavailableErrorf("telegram client unavailable: %v", err)
	}
	defer release()

	peer, err := session.ResolveChannel(ctx, channelLink)
	if err != nil {
		u.logger.Warn().Err(err).Str("channel", channelLink).Msg("channel resolution failed")
		return nil, pkgerrors.NewNotFoundErrorf("could not get channel info: %v", err)
	}

	return peer, nil
}
