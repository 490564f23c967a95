package business

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// ForwardDispatcher drives at-most-once forwarding of a single message to
// the configured destination, converting every failure into an outcome
// value. The transport forward itself is not idempotent; dedup across
// overlapping poll windows is the caller's job.
type ForwardDispatcher struct {
	destination string
	logger      zerolog.Logger
}

// NewForwardDispatcher creates a dispatcher for the given destination.
// An empty destination disables forwarding entirely.
func NewForwardDispatcher(destination string, logger zerolog.Logger) *ForwardDispatcher {
	return &ForwardDispatcher{
		destination: destination,
		logger:      logger.With().Str("component", "forward_dispatcher").Logger(),
	}
}

// Enabled reports whether a forward destination is configured.
func (d *ForwardDispatcher) Enabled() bool {
	return d.destination != ""
}

// Destination returns the configured destination reference.
func (d *ForwardDispatcher) Destination() string {
	return d.destination
}

// Forward attempts to forward one message. Destination format and
// resolution failures are reported as an invalid channel format; any other
// failure surfaces with its own description. Never returns an error.
func (d *ForwardDispatcher) Forward(ctx context.Context, session domain.Session, from *domain.ChannelPeer, messageID int) domain.ForwardOutcome {
	outcome := domain.ForwardOutcome{MessageID: messageID}

	target, err := session.ResolveChannel(ctx, d.destination)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidChannelRef) || errors.Is(err, domain.ErrChannelResolution) {
			outcome.Err = fmt.Sprintf("invalid channel format: %v", err)
		} else {
			outcome.Err = err.Error()
		}
		d.logger.Error().Err(err).
			Str("destination", d.destination).
			Int("message_id", messageID).
			Msg("failed to resolve forward destination")
		return outcome
	}

	if err := session.ForwardMessage(ctx, from, messageID, target); err != nil {
		outcome.Err = err.Error()
		d.logger.Error().Err(err).
			Str("destination", d.destination).
			Int("message_id", messageID).
			Msg("failed to forward message")
		return outcome
	}

	outcome.Forwarded = true
	return outcome
}
