package business

import (
	"context"
	"fmt"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// mockSession is a hand-rolled domain.Session for use case tests. Behavior
// is keyed by channel reference so one mock can serve multi-channel polls.
type mockSession struct {
	peers      map[string]*domain.ChannelPeer
	resolveErr map[string]error
	messages   map[int64][]domain.RawMessage
	fetchErr   map[int64]error
	forwardErr error

	forwardCalls []int
	markReadMax  map[int64]int
	fetchLimits  []int
}

func newMockSession() *mockSession {
	return &mockSession{
		peers:       make(map[string]*domain.ChannelPeer),
		resolveErr:  make(map[string]error),
		messages:    make(map[int64][]domain.RawMessage),
		fetchErr:    make(map[int64]error),
		markReadMax: make(map[int64]int),
	}
}

func (s *mockSession) ResolveChannel(_ context.Context, ref string) (*domain.ChannelPeer, error) {
	if err, ok := s.resolveErr[ref]; ok {
		return nil, err
	}
	if peer, ok := s.peers[ref]; ok {
		return peer, nil
	}
	return nil, fmt.Errorf("%w: unknown reference %q", domain.ErrChannelResolution, ref)
}

func (s *mockSession) RecentMessages(_ context.Context, peer *domain.ChannelPeer, limit int) ([]domain.RawMessage, error) {
	s.fetchLimits = append(s.fetchLimits, limit)
	if err, ok := s.fetchErr[peer.ID]; ok {
		return nil, err
	}
	return s.messages[peer.ID], nil
}

func (s *mockSession) ForwardMessage(_ context.Context, _ *domain.ChannelPeer, messageID int, _ *domain.ChannelPeer) error {
	if s.forwardErr != nil {
		return s.forwardErr
	}
	s.forwardCalls = append(s.forwardCalls, messageID)
	return nil
}

func (s *mockSession) MarkRead(_ context.Context, peer *domain.ChannelPeer, maxID int) error {
	s.markReadMax[peer.ID] = maxID
	return nil
}

// mockClient leases the wrapped session without contention tracking beyond
// a release counter.
type mockClient struct {
	session    *mockSession
	acquireErr error
	releases   int
}

func (c *mockClient) Connect(context.Context) error    { return nil }
func (c *mockClient) Disconnect(context.Context) error { return nil }
func (c *mockClient) IsConnected() bool                { return c.acquireErr == nil }

func (c *mockClient) Status(context.Context) domain.ConnectionStatus {
	return domain.ConnectionStatus{Connected: c.acquireErr == nil, Authorized: c.acquireErr == nil}
}

func (c *mockClient) Acquire(context.Context) (domain.Session, func(), error) {
	if c.acquireErr != nil {
		return nil, nil, c.acquireErr
	}
	return c.session, func() { c.releases++ }, nil
}

// mockLedger records forwards in memory without TTL handling.
type mockLedger struct {
	seen map[string]bool
}

func newMockLedger() *mockLedger {
	return &mockLedger{seen: make(map[string]bool)}
}

func (l *mockLedger) key(channelID int64, messageID int) string {
	return fmt.Sprintf("%d:%d", channelID, messageID)
}

func (l *mockLedger) Seen(channelID int64, messageID int) bool {
	return l.seen[l.key(channelID, messageID)]
}

func (l *mockLedger) Record(channelID int64, messageID int) {
	l.seen[l.key(channelID, messageID)] = true
}

// mockAlertProducer counts published alerts.
type mockAlertProducer struct {
	published  []*domain.ForwardAlert
	publishErr error
}

func (p *mockAlertProducer) PublishForwardAlert(_ context.Context, alert *domain.ForwardAlert) error {
	if p.publishErr != nil {
		return p.publishErr
	}
	p.published = append(p.published, alert)
	return nil
}

func (p *mockAlertProducer) IsHealthy() bool { return true }
func (p *mockAlertProducer) Close() error    { return nil }
