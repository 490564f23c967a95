package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gotd/td/telegram"
	"github.com/gotd/td/tg"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// Client implements domain.TelegramClient using the gotd/td library
type Client struct {
	// Telegram client instance
	client *telegram.Client

	// API credentials
	apiID   int
	apiHash string

	// Session storage
	sessionStorage *FileSessionStorage
	phoneNumber    string

	// Connection state
	connected     bool
	disconnecting bool
	mu            sync.RWMutex
	cancelFunc    context.CancelFunc
	runDone       chan struct{} // Signals when client.Run() completes

	// Lease semaphore serializing poll-scoped access to the session
	sem chan struct{}

	// Logger
	logger zerolog.Logger

	// API client for making requests
	api *tg.Client

	// Rate limiter for API calls
	rateLimiter *rate.Limiter
}

// ClientConfig holds configuration for Client
type ClientConfig struct {
	APIID       int
	APIHash     string
	PhoneNumber string
	SessionDir  string
	Logger      zerolog.Logger
}

// maskPhoneNumber masks phone number for logging (keeps first 2 and last 2 digits)
func maskPhoneNumber(phone string) string {
	if len(phone) < 4 {
		return "***"
	}
	return phone[:2] + strings.Repeat("*", len(phone)-4) + phone[len(phone)-2:]
}

// NewClient creates a new MTProto client instance
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.APIID == 0 {
		return nil, fmt.Errorf("APIID is required")
	}
	if cfg.APIHash == "" {
		return nil, fmt.Errorf("APIHash is required")
	}
	if cfg.PhoneNumber == "" {
		return nil, fmt.Errorf("PhoneNumber is required")
	}
	if cfg.SessionDir == "" {
		cfg.SessionDir = "./sessions"
	}

	sessionStorage, err := NewFileSessionStorage(cfg.SessionDir, cfg.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to create session storage: %w", err)
	}

	maskedPhone := maskPhoneNumber(cfg.PhoneNumber)

	client := &Client{
		apiID:          cfg.APIID,
		apiHash:        cfg.APIHash,
		phoneNumber:    cfg.PhoneNumber,
		sessionStorage: sessionStorage,
		logger:         cfg.Logger.With().Str("component", "mtproto_client").Str("phone", maskedPhone).Logger(),
		connected:      false,
		sem:            make(chan struct{}, 1),
		rateLimiter:    rate.NewLimiter(rate.Every(time.Second), 10), // 10 requests per second
	}

	return client, nil
}

// Connect connects to Telegram using MTProto with full authentication support.
// The caller should provide a context with timeout to prevent indefinite
// hanging; when authentication is required, the user is prompted for the
// verification code and the 2FA password (if enabled).
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.connected {
		c.mu.Unlock()
		c.logger.Debug().Msg("already connected")
		return nil
	}
	if c.disconnecting {
		c.mu.Unlock()
		return fmt.Errorf("disconnect in progress, cannot connect")
	}
	// Keep the lock to prevent concurrent connection attempts
	defer c.mu.Unlock()

	c.logger.Info().Msg("connecting to Telegram")

	c.client = telegram.NewClient(c.apiID, c.apiHash, telegram.Options{
		SessionStorage: c.sessionStorage,
	})

	clientCtx, cancel := context.WithCancel(ctx)
	c.cancelFunc = cancel

	readyChan := make(chan struct{})
	errChan := make(chan error, 1)
	started := make(chan struct{})
	c.runDone = make(chan struct{})

	go func() {
		defer close(c.runDone) // Signal when Run() completes
		close(started)
		err := c.client.Run(clientCtx, func(ctx context.Context) error {
			status, err := c.client.Auth().Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to check auth status: %w", err)
			}

			if !status.Authorized {
				c.logger.Info().Msg("not authorized, starting authentication")
				if err := c.authenticateWithRetry(ctx, 3); err != nil {
					c.logger.Error().Err(err).Msg("authentication failed")
					return domain.ErrAuthenticationFailed
				}
			} else {
				c.logger.Info().Msg("session restored from storage")
			}

			close(readyChan)

			// Keep connection alive
			<-ctx.Done()
			return ctx.Err()
		})
		select {
		case errChan <- err:
		default:
		}
	}()

	<-started

	select {
	case <-readyChan:
		// State mutation stays on this side of the ready signal so
		// connected and api are only ever written under c.mu.
		c.api = c.client.API()
		c.connected = true
		c.logger.Info().Msg("successfully connected to Telegram")
		return nil
	case err := <-errChan:
		cancel()
		if err != nil {
			return fmt.Errorf("failed to connect: %w", err)
		}
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Disconnect disconnects from Telegram with graceful shutdown.
// The session is saved by the underlying gotd/td client before shutdown.
// Multiple calls are safe and return nil if already disconnected.
func (c *Client) Disconnect(ctx context.Context) error {
	c.mu.Lock()

	if c.disconnecting {
		c.mu.Unlock()
		c.logger.Debug().Msg("disconnect already in progress")
		return nil
	}

	if !c.connected {
		c.mu.Unlock()
		c.logger.Debug().Msg("already disconnected")
		return nil
	}

	c.logger.Info().Msg("disconnecting from Telegram")

	c.disconnecting = true
	cancelFunc := c.cancelFunc
	runDone := c.runDone
	c.mu.Unlock()

	if cancelFunc != nil {
		c.logger.Debug().Msg("cancelling client context")
		cancelFunc()

		// Wait for client.Run() goroutine to actually finish
		if runDone != nil {
			select {
			case <-runDone:
				c.logger.Debug().Msg("client stopped gracefully")
			case <-ctx.Done():
				c.logger.Warn().Msg("disconnect timeout reached while waiting for client shutdown")
			}
		}
	}

	c.mu.Lock()
	c.client = nil
	c.api = nil
	c.connected = false
	c.cancelFunc = nil
	c.runDone = nil
	c.disconnecting = false
	c.mu.Unlock()

	c.logger.Info().Msg("successfully disconnected from Telegram")
	return nil
}

// IsConnected checks if client is connected to Telegram
func (c *Client) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// Status reports connection and authorization state. Authorization is
// checked against the live session without taking the poll lease.
func (c *Client) Status(ctx context.Context) domain.ConnectionStatus {
	c.mu.RLock()
	connected := c.connected
	client := c.client
	c.mu.RUnlock()

	status := domain.ConnectionStatus{Connected: connected}
	if !connected || client == nil {
		return status
	}

	authStatus, err := client.Auth().Status(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to check authorization status")
		return status
	}

	status.Authorized = authStatus.Authorized
	return status
}

// Acquire leases the session for one request-scoped task. The session is
// reentrant-unsafe, so concurrent acquirers are serialized; the returned
// release function must be called on every exit path.
func (c *Client) Acquire(ctx context.Context) (domain.Session, func(), error) {
	c.mu.RLock()
	if !c.connected || c.api == nil {
		c.mu.RUnlock()
		return nil, nil, domain.ErrNotConnected
	}
	c.mu.RUnlock()

	select {
	case c.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("session lease cancelled: %w", ctx.Err())
	}

	var once sync.Once
	release := func() {
		once.Do(func() { <-c.sem })
	}

	return c, release, nil
}

// ResolveChannel resolves a channel reference to an addressable peer.
// Accepts @username, t.me links and numeric channel IDs (optionally with
// the -100 prefix). Resolution failures wrap domain.ErrChannelResolution.
func (c *Client) ResolveChannel(ctx context.Context, ref string) (*domain.ChannelPeer, error) {
	c.mu.RLock()
	if !c.connected || c.api == nil {
		c.mu.RUnlock()
		return nil, domain.ErrNotConnected
	}
	c.mu.RUnlock()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	name, id, err := parseChannelRef(ref)
	if err != nil {
		return nil, err
	}

	if name != "" {
		return c.resolveByUsername(ctx, name)
	}
	return c.resolveByID(ctx, id)
}

// parseChannelRef splits a channel reference into a username or a numeric
// channel ID. Exactly one of the two results is set.
func parseChannelRef(ref string) (username string, id int64, err error) {
	trimmed := strings.TrimSpace(ref)
	for _, prefix := range []string{"https://t.me/", "http://t.me/", "t.me/"} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}
	trimmed = strings.TrimPrefix(trimmed, "@")
	trimmed = strings.TrimSuffix(trimmed, "/")

	if trimmed == "" {
		return "", 0, fmt.Errorf("%w: empty reference", domain.ErrInvalidChannelRef)
	}

	numeric := trimmed
	if strings.HasPrefix(numeric, "-100") {
		numeric = strings.TrimPrefix(numeric, "-100")
	}
	if isNumeric(numeric) {
		id, err := strconv.ParseInt(numeric, 10, 64)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %v", domain.ErrInvalidChannelRef, err)
		}
		return "", id, nil
	}

	return trimmed, 0, nil
}

// isNumeric checks if string contains only digits
func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func (c *Client) resolveByUsername(ctx context.Context, username string) (*domain.ChannelPeer, error) {
	resolved, err := c.api.ContactsResolveUsername(ctx, username)
	if err != nil {
		c.logger.Error().Err(err).Str("username", username).Msg("failed to resolve channel")
		return nil, fmt.Errorf("%w: %v", domain.ErrChannelResolution, err)
	}

	for _, chat := range resolved.Chats {
		switch peer := chat.(type) {
		case *tg.Channel:
			return &domain.ChannelPeer{
				ID:         peer.ID,
				AccessHash: peer.AccessHash,
				Title:      peer.Title,
				Username:   peer.Username,
				Kind:       "channel",
			}, nil
		case *tg.Chat:
			return &domain.ChannelPeer{
				ID:    peer.ID,
				Title: peer.Title,
				Kind:  "chat",
			}, nil
		}
	}

	for _, user := range resolved.Users {
		if u, ok := user.(*tg.User); ok {
			title := strings.TrimSpace(u.FirstName + " " + u.LastName)
			handle, _ := u.GetUsername()
			return &domain.ChannelPeer{
				ID:         u.ID,
				AccessHash: u.AccessHash,
				Title:      title,
				Username:   handle,
				Kind:       "user",
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: resolved peer is not a channel", domain.ErrChannelResolution)
}

// resolveByID resolves a bare channel ID. Telegram requires the access hash
// for channels the session has not seen, so this works only for channels the
// account has already interacted with.
func (c *Client) resolveByID(ctx context.Context, id int64) (*domain.ChannelPeer, error) {
	result, err := c.api.ChannelsGetChannels(ctx, []tg.InputChannelClass{
		&tg.InputChannel{ChannelID: id},
	})
	if err != nil {
		c.logger.Error().Err(err).Int64("channel_id", id).Msg("failed to resolve channel by ID")
		return nil, fmt.Errorf("%w: %v", domain.ErrChannelResolution, err)
	}

	for _, chat := range result.GetChats() {
		if channel, ok := chat.(*tg.Channel); ok && channel.ID == id {
			return &domain.ChannelPeer{
				ID:         channel.ID,
				AccessHash: channel.AccessHash,
				Title:      channel.Title,
				Username:   channel.Username,
				Kind:       "channel",
			}, nil
		}
	}

	return nil, fmt.Errorf("%w: channel %d not found", domain.ErrChannelResolution, id)
}

// RecentMessages retrieves up to limit of the most recent messages for the
// peer, newest first, converted to the tagged domain shapes at ingestion.
func (c *Client) RecentMessages(ctx context.Context, peer *domain.ChannelPeer, limit int) ([]domain.RawMessage, error) {
	c.mu.RLock()
	if !c.connected || c.api == nil {
		c.mu.RUnlock()
		return nil, domain.ErrNotConnected
	}
	c.mu.RUnlock()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	c.logger.Debug().Int64("channel_id", peer.ID).Int("limit", limit).Msg("fetching channel messages")

	result, err := c.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:  inputPeer(peer),
		Limit: limit,
	})
	if err != nil {
		c.logger.Error().Err(err).Int64("channel_id", peer.ID).Msg("failed to get messages")
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}

	var raw []domain.RawMessage
	switch messages := result.(type) {
	case *tg.MessagesChannelMessages:
		raw = convertMessages(messages.Messages)
	case *tg.MessagesMessages:
		raw = convertMessages(messages.Messages)
	case *tg.MessagesMessagesSlice:
		raw = convertMessages(messages.Messages)
	}

	c.logger.Debug().Int64("channel_id", peer.ID).Int("messages_count", len(raw)).Msg("fetched messages")
	return raw, nil
}

// ForwardMessage re-sends a single message from one peer to another.
func (c *Client) ForwardMessage(ctx context.Context, from *domain.ChannelPeer, messageID int, to *domain.ChannelPeer) error {
	c.mu.RLock()
	if !c.connected || c.api == nil {
		c.mu.RUnlock()
		return domain.ErrNotConnected
	}
	c.mu.RUnlock()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	_, err := c.api.MessagesForwardMessages(ctx, &tg.MessagesForwardMessagesRequest{
		FromPeer: inputPeer(from),
		ID:       []int{messageID},
		RandomID: []int64{randomID()},
		ToPeer:   inputPeer(to),
	})
	if err != nil {
		c.logger.Error().Err(err).
			Int64("from_channel", from.ID).
			Int("message_id", messageID).
			Int64("to_channel", to.ID).
			Msg("failed to forward message")
		return fmt.Errorf("failed to forward message: %w", err)
	}

	c.logger.Info().
		Int64("from_channel", from.ID).
		Int("message_id", messageID).
		Int64("to_channel", to.ID).
		Msg("forwarded message")
	return nil
}

// MarkRead acknowledges the peer's history up to maxID.
func (c *Client) MarkRead(ctx context.Context, peer *domain.ChannelPeer, maxID int) error {
	c.mu.RLock()
	if !c.connected || c.api == nil {
		c.mu.RUnlock()
		return domain.ErrNotConnected
	}
	c.mu.RUnlock()

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	if peer.Kind == "channel" {
		_, err := c.api.ChannelsReadHistory(ctx, &tg.ChannelsReadHistoryRequest{
			Channel: &tg.InputChannel{ChannelID: peer.ID, AccessHash: peer.AccessHash},
			MaxID:   maxID,
		})
		if err != nil {
			return fmt.Errorf("failed to mark channel history read: %w", err)
		}
		return nil
	}

	_, err := c.api.MessagesReadHistory(ctx, &tg.MessagesReadHistoryRequest{
		Peer:  inputPeer(peer),
		MaxID: maxID,
	})
	if err != nil {
		return fmt.Errorf("failed to mark history read: %w", err)
	}
	return nil
}

// inputPeer converts a resolved peer to its input form
func inputPeer(peer *domain.ChannelPeer) tg.InputPeerClass {
	switch peer.Kind {
	case "user":
		return &tg.InputPeerUser{UserID: peer.ID, AccessHash: peer.AccessHash}
	case "chat":
		return &tg.InputPeerChat{ChatID: peer.ID}
	default:
		return &tg.InputPeerChannel{ChannelID: peer.ID, AccessHash: peer.AccessHash}
	}
}

// Ensure Client implements the domain interfaces
var (
	_ domain.TelegramClient = (*Client)(nil)
	_ domain.Session        = (*Client)(nil)
)
