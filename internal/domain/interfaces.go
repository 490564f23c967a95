package domain

import "context"

// Session is a leased handle on the Telegram session. The session is a
// single shared, reentrant-unsafe resource; callers obtain it through
// TelegramClient.Acquire and must not retain it past release.
type Session interface {
	// ResolveChannel resolves a channel reference (@username, t.me link or
	// numeric channel ID, optionally -100 prefixed) to an addressable peer.
	// Failures wrap ErrChannelResolution.
	ResolveChannel(ctx context.Context, ref string) (*ChannelPeer, error)

	// RecentMessages fetches up to limit of the most recent messages for the
	// peer, newest first.
	RecentMessages(ctx context.Context, peer *ChannelPeer, limit int) ([]RawMessage, error)

	// ForwardMessage re-sends a single message from one peer to another.
	// Not idempotent at the transport level.
	ForwardMessage(ctx context.Context, from *ChannelPeer, messageID int, to *ChannelPeer) error

	// MarkRead acknowledges the peer's history up to maxID.
	MarkRead(ctx context.Context, peer *ChannelPeer, maxID int) error
}

// TelegramClient is the already-authenticated client capability the core
// needs. Transport, authentication handshake and session persistence live
// behind this interface.
type TelegramClient interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	IsConnected() bool

	// Status reports connection and authorization state without contending
	// with an in-flight poll lease.
	Status(ctx context.Context) ConnectionStatus

	// Acquire leases the session for one request-scoped task. The release
	// function must be called on every exit path. Concurrent acquirers are
	// serialized.
	Acquire(ctx context.Context) (Session, func(), error)
}

// ForwardLedger remembers which messages were already forwarded so that
// overlapping poll windows do not create duplicate forwarded copies.
type ForwardLedger interface {
	Seen(channelID int64, messageID int) bool
	Record(channelID int64, messageID int)
}

// AlertProducer publishes forward alerts to the event bus.
type AlertProducer interface {
	PublishForwardAlert(ctx context.Context, alert *ForwardAlert) error
	IsHealthy() bool
	Close() error
}
