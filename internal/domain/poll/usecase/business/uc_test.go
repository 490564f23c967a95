package business

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
	"github.com/yourusername/telegram-triage-service/internal/infrastructure/metrics"
	pkgerrors "github.com/yourusername/telegram-triage-service/pkg/errors"
)

type ucFixture struct {
	uc      *UseCase
	client  *mockClient
	session *mockSession
	ledger  *mockLedger
	alerts  *mockAlertProducer
	tracker *Tracker
}

func newUCFixture(keywords, destination string) *ucFixture {
	session := newMockSession()
	client := &mockClient{session: session}
	ledger := newMockLedger()
	alerts := &mockAlertProducer{}
	tracker := NewTracker(time.Minute, 0)

	uc := NewUseCase(
		client,
		tracker,
		NewKeywordMatcher(keywords, 400),
		NewForwardDispatcher(destination, zerolog.Nop()),
		ledger,
		alerts,
		metrics.GetDefaultMetrics(),
		zerolog.Nop(),
		10,
	)

	return &ucFixture{uc: uc, client: client, session: session, ledger: ledger, alerts: alerts, tracker: tracker}
}

func freshMessage(id int, text string, age time.Duration) domain.RawMessage {
	return domain.RawMessage{
		ID:   id,
		Text: text,
		Date: time.Now().UTC().Add(-age),
	}
}

// TestRunPoll_EmptyChannels tests input validation before any state change
func TestRunPoll_EmptyChannels(t *testing.T) {
	f := newUCFixture("", "")
	f.client.acquireErr = errors.New("must not be reached")
	before := f.tracker.LastCheck()

	_, err := f.uc.RunPoll(context.Background(), nil)

	var validationErr *pkgerrors.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected validation error, got: %v", err)
	}
	if err.Error() != "no channels specified" {
		t.Errorf("Expected 'no channels specified', got: %s", err.Error())
	}
	if !f.tracker.LastCheck().Equal(before) {
		t.Error("Expected checkpoint untouched on validation failure")
	}
}

// TestRunPoll_SessionUnavailable tests the error when no session can be leased
func TestRunPoll_SessionUnavailable(t *testing.T) {
	f := newUCFixture("", "")
	f.client.acquireErr = domain.ErrNotConnected

	_, err := f.uc.RunPoll(context.Background(), []string{"@channel"})

	var unavailableErr *pkgerrors.ServiceUnavailableError
	if !errors.As(err, &unavailableErr) {
		t.Fatalf("Expected service unavailable error, got: %v", err)
	}
}

// TestRunPoll_ChannelFailureIsolated tests that one failing channel does not
// abort the cycle or hide the others' messages
func TestRunPoll_ChannelFailureIsolated(t *testing.T) {
	f := newUCFixture("", "")
	f.session.resolveErr["@broken"] = errors.New("resolution timeout")
	f.session.peers["@healthy"] = &domain.ChannelPeer{ID: 1, Title: "Healthy", Username: "healthy", Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(12, "second", 5*time.Second),
		freshMessage(11, "first", 10*time.Second),
	}

	before := f.tracker.LastCheck()
	time.Sleep(time.Millisecond)
	result, err := f.uc.RunPoll(context.Background(), []string{"@broken", "@healthy"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Messages) != 2 {
		t.Fatalf("Expected 2 messages from the healthy channel, got: %d", len(result.Messages))
	}
	if result.Messages[0].ChannelTitle != "Healthy" {
		t.Errorf("Expected channel title Healthy, got: %s", result.Messages[0].ChannelTitle)
	}
	if !f.tracker.LastCheck().After(before) {
		t.Error("Expected checkpoint to advance after a degraded cycle")
	}
	if f.client.releases != 1 {
		t.Errorf("Expected session released exactly once, got: %d", f.client.releases)
	}
}

// TestRunPoll_SortedAscending tests cross-channel ordering of the digest
func TestRunPoll_SortedAscending(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@b"] = &domain.ChannelPeer{ID: 2, Title: "B", Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(30, "a newest", 2*time.Second),
		freshMessage(10, "a oldest", 30*time.Second),
	}
	f.session.messages[2] = []domain.RawMessage{
		freshMessage(20, "b middle", 15*time.Second),
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a", "@b"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got: %d", len(result.Messages))
	}
	for i := 1; i < len(result.Messages); i++ {
		if result.Messages[i].Timestamp.Before(result.Messages[i-1].Timestamp) {
			t.Errorf("Expected ascending order, position %d out of order", i)
		}
	}
}

// TestRunPoll_StableSortOnTies tests that equal timestamps keep the
// per-channel arrival order across channels
func TestRunPoll_StableSortOnTies(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@b"] = &domain.ChannelPeer{ID: 2, Title: "B", Kind: "channel"}

	shared := time.Now().UTC().Add(-5 * time.Second)
	f.session.messages[1] = []domain.RawMessage{
		{ID: 21, Text: "a first arrival", Date: shared},
		{ID: 20, Text: "a second arrival", Date: shared},
	}
	f.session.messages[2] = []domain.RawMessage{
		{ID: 30, Text: "b arrival", Date: shared},
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a", "@b"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Messages) != 3 {
		t.Fatalf("Expected 3 messages, got: %d", len(result.Messages))
	}
	wantOrder := []int{21, 20, 30}
	for i, want := range wantOrder {
		if result.Messages[i].ID != want {
			t.Errorf("Position %d: expected message %d, got: %d", i, want, result.Messages[i].ID)
		}
	}
}

// TestRunPoll_WindowExclusion tests that messages older than the lookback
// are dropped and never evaluated for forwarding
func TestRunPoll_WindowExclusion(t *testing.T) {
	f := newUCFixture("alert", "@target")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@target"] = &domain.ChannelPeer{ID: 99, Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(5, "old alert", 5*time.Minute),
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Messages) != 0 {
		t.Errorf("Expected no messages inside the window, got: %d", len(result.Messages))
	}
	if len(f.session.forwardCalls) != 0 {
		t.Errorf("Expected no forward attempts for excluded messages, got: %v", f.session.forwardCalls)
	}
	if len(result.ForwardedIDs) != 0 || len(result.ForwardingErrors) != 0 {
		t.Error("Expected empty forwarding outcomes for excluded messages")
	}
}

// TestRunPoll_ForwardsMatches tests the full triage path for a matching message
func TestRunPoll_ForwardsMatches(t *testing.T) {
	f := newUCFixture("alert", "@target")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@target"] = &domain.ChannelPeer{ID: 99, Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(7, "red ALERT issued", 5*time.Second),
		freshMessage(6, "routine update", 10*time.Second),
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.ForwardedIDs) != 1 || result.ForwardedIDs[0] != 7 {
		t.Fatalf("Expected message 7 forwarded, got: %v", result.ForwardedIDs)
	}
	if len(result.ForwardingErrors) != 0 {
		t.Errorf("Unexpected forwarding errors: %v", result.ForwardingErrors)
	}
	if !f.ledger.Seen(1, 7) {
		t.Error("Expected forwarded message recorded in the ledger")
	}
	if len(f.alerts.published) != 1 {
		t.Fatalf("Expected one alert published, got: %d", len(f.alerts.published))
	}
	if f.alerts.published[0].MessageID != 7 {
		t.Errorf("Expected alert for message 7, got: %d", f.alerts.published[0].MessageID)
	}
	// The non-matching message still lands in the digest.
	if len(result.Messages) != 2 {
		t.Errorf("Expected both messages in the digest, got: %d", len(result.Messages))
	}
}

// TestRunPoll_DedupLedger tests that an already-forwarded message is an
// idempotent success without a transport call
func TestRunPoll_DedupLedger(t *testing.T) {
	f := newUCFixture("alert", "@target")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@target"] = &domain.ChannelPeer{ID: 99, Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(7, "alert again", 5*time.Second),
	}
	f.ledger.Record(1, 7)

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.ForwardedIDs) != 1 || result.ForwardedIDs[0] != 7 {
		t.Fatalf("Expected dedup reported as forwarded, got: %v", result.ForwardedIDs)
	}
	if len(f.session.forwardCalls) != 0 {
		t.Errorf("Expected no transport forward for a ledger hit, got: %v", f.session.forwardCalls)
	}
	if len(f.alerts.published) != 0 {
		t.Error("Expected no alert for a deduplicated forward")
	}
}

// TestRunPoll_ForwardErrorFormatting tests the error line format and that a
// failed forward keeps the message in the digest
func TestRunPoll_ForwardErrorFormatting(t *testing.T) {
	f := newUCFixture("alert", "@target")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.peers["@target"] = &domain.ChannelPeer{ID: 99, Kind: "channel"}
	f.session.forwardErr = errors.New("CHAT_WRITE_FORBIDDEN")
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(7, "alert now", 5*time.Second),
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.ForwardedIDs) != 0 {
		t.Errorf("Expected no forwarded ids, got: %v", result.ForwardedIDs)
	}
	if len(result.ForwardingErrors) != 1 {
		t.Fatalf("Expected one forwarding error, got: %v", result.ForwardingErrors)
	}
	want := "failed to forward message 7: CHAT_WRITE_FORBIDDEN"
	if result.ForwardingErrors[0] != want {
		t.Errorf("Expected %q, got: %q", want, result.ForwardingErrors[0])
	}
	if len(result.Messages) != 1 {
		t.Error("Expected the message to remain in the digest despite the forward failure")
	}
	if f.ledger.Seen(1, 7) {
		t.Error("Expected failed forward not recorded in the ledger")
	}
}

// TestRunPoll_MarkReadBestEffort tests read acknowledgment up to the highest
// retained message id
func TestRunPoll_MarkReadBestEffort(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(42, "newest", 2*time.Second),
		freshMessage(41, "older", 8*time.Second),
	}

	if _, err := f.uc.RunPoll(context.Background(), []string{"@a"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if f.session.markReadMax[1] != 42 {
		t.Errorf("Expected history read up to 42, got: %d", f.session.markReadMax[1])
	}
}

// TestRunPoll_ResultWindow tests CheckedSince and LastCheck in the result
func TestRunPoll_ResultWindow(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if got := result.LastCheck.Sub(result.CheckedSince); got != time.Minute {
		t.Errorf("Expected a one minute window, got: %v", got)
	}
	if !f.tracker.LastCheck().Equal(result.LastCheck) {
		t.Error("Expected tracker checkpoint to match the reported last check")
	}
}

// TestRunPoll_ForwardingDisabled tests that matching text is ignored when no
// destination is configured
func TestRunPoll_ForwardingDisabled(t *testing.T) {
	f := newUCFixture("alert", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	f.session.messages[1] = []domain.RawMessage{
		freshMessage(7, "alert text", 5*time.Second),
	}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.ForwardedIDs) != 0 || len(result.ForwardingErrors) != 0 {
		t.Error("Expected no forwarding outcomes when forwarding is disabled")
	}
	if len(result.Messages) != 1 {
		t.Errorf("Expected the message in the digest, got: %d", len(result.Messages))
	}
}

// TestRunPoll_FetchLimitPropagated tests that the configured fetch limit
// reaches the session
func TestRunPoll_FetchLimitPropagated(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}

	if _, err := f.uc.RunPoll(context.Background(), []string{"@a"}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(f.session.fetchLimits) != 1 || f.session.fetchLimits[0] != 10 {
		t.Errorf("Expected fetch limit 10, got: %v", f.session.fetchLimits)
	}
}

// TestRunPoll_DegradedMedia tests that a malformed attachment degrades to an
// error descriptor instead of dropping the message
func TestRunPoll_DegradedMedia(t *testing.T) {
	f := newUCFixture("", "")
	f.session.peers["@a"] = &domain.ChannelPeer{ID: 1, Title: "A", Kind: "channel"}
	msg := freshMessage(7, "photo post", 5*time.Second)
	msg.Attachment = &domain.Attachment{Kind: domain.MediaKindPhoto, TypeName: "messageMediaPhoto"}
	f.session.messages[1] = []domain.RawMessage{msg}

	result, err := f.uc.RunPoll(context.Background(), []string{"@a"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Messages) != 1 {
		t.Fatalf("Expected the message retained, got: %d", len(result.Messages))
	}
	entry := result.Messages[0]
	if !entry.HasMedia || len(entry.Media) != 1 {
		t.Fatalf("Expected one media descriptor, got: %+v", entry.Media)
	}
	if entry.Media[0].ExtractionError == nil {
		t.Error("Expected a degraded descriptor with an extraction error")
	}
	if !strings.Contains(*entry.Media[0].ExtractionError, "photo") {
		t.Errorf("Expected error naming the payload, got: %s", *entry.Media[0].ExtractionError)
	}
}
