package business

import (
	"context"
	"strings"
	"time"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// pollChannel fetches, filters and triages one channel's recent messages.
// Resolution and fetch failures are channel-scoped: they are logged and the
// channel contributes nothing, but the batch continues.
func (u *UseCase) pollChannel(ctx context.Context, session domain.Session, channel string, window domain.CheckWindow) ([]domain.NormalizedMessage, []domain.ForwardOutcome) {
	peer, err := session.ResolveChannel(ctx, channel)
	if err != nil {
		u.logger.Error().Err(err).Str("channel", channel).Msg("failed to resolve channel")
		u.metrics.RecordChannelFetchError()
		return nil, nil
	}

	raw, err := session.RecentMessages(ctx, peer, u.fetchLimit)
	if err != nil {
		u.logger.Error().Err(err).Str("channel", channel).Msg("failed to fetch messages")
		u.metrics.RecordChannelFetchError()
		return nil, nil
	}

	var messages []domain.NormalizedMessage
	var outcomes []domain.ForwardOutcome
	maxID := 0

	for _, msg := range raw {
		// Normalize to the audience offset before the window check, so the
		// window and message timestamps share the same reference.
		ts := msg.Date.UTC().Add(u.offset)
		if ts.Before(window.Since) {
			continue
		}

		if u.dispatcher.Enabled() && u.matcher.ShouldForward(msg.Text) {
			outcomes = append(outcomes, u.triageForward(ctx, session, peer, msg))
		}

		media := []domain.MediaDescriptor{}
		if msg.Attachment != nil {
			desc := ExtractDescriptor(msg.Attachment, msg.GroupedID)
			if desc.ExtractionError != nil {
				u.metrics.RecordMediaExtractionError()
				u.logger.Warn().
					Str("channel", channel).
					Int("message_id", msg.ID).
					Str("error", *desc.ExtractionError).
					Msg("degraded media descriptor")
			}
			media = append(media, desc)
		}

		messages = append(messages, domain.NormalizedMessage{
			ID:            msg.ID,
			Text:          msg.Text,
			Timestamp:     ts,
			ChannelTitle:  peer.Title,
			ChannelHandle: peer.Username,
			SenderID:      msg.SenderID,
			HasMedia:      msg.Attachment != nil,
			Media:         media,
			Views:         msg.Views,
			Forwards:      msg.Forwards,
		})

		if msg.ID > maxID {
			maxID = msg.ID
		}
	}

	// Best effort: read acknowledge up to the latest retained message.
	if len(messages) > 0 {
		if err := session.MarkRead(ctx, peer, maxID); err != nil {
			u.logger.Warn().Err(err).Str("channel", channel).Msg("could not mark messages as read")
		}
	}

	u.logger.Debug().
		Str("channel", channel).
		Int("fetched", len(raw)).
		Int("retained", len(messages)).
		Msg("polled channel")

	return messages, outcomes
}

// triageForward forwards one matched message, consulting the dedup ledger
// first. A ledger hit is reported as an idempotent success without touching
// the transport.
func (u *UseCase) triageForward(ctx context.Context, session domain.Session, peer *domain.ChannelPeer, msg domain.RawMessage) domain.ForwardOutcome {
	if u.ledger.Seen(peer.ID, msg.ID) {
		u.metrics.RecordForwardDeduped()
		u.logger.Debug().
			Int64("channel_id", peer.ID).
			Int("message_id", msg.ID).
			Msg("message already forwarded, skipping")
		return domain.ForwardOutcome{MessageID: msg.ID, Forwarded: true}
	}

	outcome := u.dispatcher.Forward(ctx, session, peer, msg.ID)
	if !outcome.Forwarded {
		u.metrics.RecordForwardError(classifyForwardError(outcome.Err))
		return outcome
	}

	u.ledger.Record(peer.ID, msg.ID)
	u.metrics.RecordForward()
	u.publishAlert(ctx, peer, msg)
	return outcome
}

// publishAlert emits a forward alert event, best effort.
func (u *UseCase) publishAlert(ctx context.Context, peer *domain.ChannelPeer, msg domain.RawMessage) {
	alert := &domain.ForwardAlert{
		MessageID:    msg.ID,
		ChannelTitle: peer.Title,
		Text:         msg.Text,
		Destination:  u.dispatcher.Destination(),
		ForwardedAt:  time.Now().UTC(),
	}

	if err := u.alerts.PublishForwardAlert(ctx, alert); err != nil {
		u.metrics.RecordAlertError("publish_failed")
		u.logger.Warn().Err(err).Int("message_id", msg.ID).Msg("failed to publish forward alert")
		return
	}
	u.metrics.RecordAlertPublished()
}

func classifyForwardError(message string) string {
	if strings.HasPrefix(message, "invalid channel format") {
		return "invalid_destination"
	}
	return "transport"
}
