package business

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/metrics"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
)

// UseCase runs one poll cycle: lease the session, poll every requested
// channel, triage matches for forwarding and assemble the aggregate result.
type UseCase struct {
	client     domain.TelegramClient
	tracker    *Tracker
	matcher    *KeywordMatcher
	dispatcher *ForwardDispatcher
	ledger     domain.ForwardLedger
	alerts     domain.AlertProducer
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	fetchLimit int
	offset     time.Duration
}

func NewUseCase(
	client domain.TelegramClient,
	tracker *Tracker,
	matcher *KeywordMatcher,
	dispatcher *ForwardDispatcher,
	ledger domain.ForwardLedger,
	alerts domain.AlertProducer,
	m *metrics.Metrics,
	logger zerolog.Logger,
	fetchLimit int,
) *UseCase {
	return &UseCase{
		client:     client,
		tracker:    tracker,
		matcher:    matcher,
		dispatcher: dispatcher,
		ledger:     ledger,
		alerts:     alerts,
		metrics:    m,
		logger:     logger.With().Str("component", "poll_usecase").Logger(),
		fetchLimit: fetchLimit,
		offset:     tracker.Offset(),
	}
}

// RunPoll executes one poll cycle over the given channels. Channel-scoped
// failures degrade to empty contributions; the cycle as a whole fails only
// on invalid input or when no session can be leased. The checkpoint is
// advanced after every completed cycle regardless of per-channel outcomes.
func (u *UseCase) RunPoll(ctx context.Context, channels []string) (*domain.PollResult, error) {
	if len(channels) == 0 {
		return nil, pkgerrors.NewValidationError("no channels specified")
	}

	session, release, err := u.client.Acquire(ctx)
	if err != nil {
		u.metrics.RecordPollError()
		return nil, pkgerrors.NewServiceUnavailableErrorf("telegram client unavailable: %v", err)
	}
	defer release()

	started := time.Now()
	now := u.tracker.Now()
	window := u.tracker.ComputeWindow(now)

	u.logger.Info().
		Int("channels", len(channels)).
		Time("since", window.Since).
		Time("until", window.Until).
		Msg("starting poll cycle")

	var messages []domain.NormalizedMessage
	var outcomes []domain.ForwardOutcome

	for _, channel := range channels {
		chMessages, chOutcomes := u.pollChannel(ctx, session, channel, window)
		messages = append(messages, chMessages...)
		outcomes = append(outcomes, chOutcomes...)
	}

	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].Timestamp.Before(messages[j].Timestamp)
	})

	var forwardedIDs []int
	var forwardingErrors []string
	for _, outcome := range outcomes {
		if outcome.Forwarded {
			forwardedIDs = append(forwardedIDs, outcome.MessageID)
		} else {
			forwardingErrors = append(forwardingErrors,
				fmt.Sprintf("failed to forward message %d: %s", outcome.MessageID, outcome.Err))
		}
	}

	u.tracker.RecordCheckpoint(now)
	u.metrics.RecordPoll(len(messages), time.Since(started).Seconds())

	u.logger.Info().
		Int("messages", len(messages)).
		Int("forwarded", len(forwardedIDs)).
		Int("forward_errors", len(forwardingErrors)).
		Dur("duration", time.Since(started)).
		Msg("poll cycle complete")

	return &domain.PollResult{
		Messages:         messages,
		ForwardedIDs:     forwardedIDs,
		ForwardingErrors: forwardingErrors,
		CheckedSince:     window.Since,
		LastCheck:        now,
	}, nil
}
