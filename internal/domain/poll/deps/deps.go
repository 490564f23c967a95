package deps

import (
	"context"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// PollUseCase runs one poll cycle over the requested channels.
type PollUseCase interface {
	RunPoll(ctx context.Context, channels []string) (*domain.PollResult, error)
}
