package business

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// TestForward_Success tests the happy forwarding path
func TestForward_Success(t *testing.T) {
	session := newMockSession()
	session.peers["-1001234567890"] = &domain.ChannelPeer{ID: 1234567890, Kind: "channel"}
	from := &domain.ChannelPeer{ID: 42, Title: "source", Kind: "channel"}

	dispatcher := NewForwardDispatcher("-1001234567890", zerolog.Nop())
	outcome := dispatcher.Forward(context.Background(), session, from, 10)

	if !outcome.Forwarded {
		t.Fatalf("Expected forwarded outcome, got error: %s", outcome.Err)
	}
	if outcome.MessageID != 10 {
		t.Errorf("Expected message id 10, got: %d", outcome.MessageID)
	}
	if len(session.forwardCalls) != 1 || session.forwardCalls[0] != 10 {
		t.Errorf("Expected one forward call for message 10, got: %v", session.forwardCalls)
	}
}

// TestForward_InvalidDestination tests classification of destination
// resolution failures
func TestForward_InvalidDestination(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "malformed reference",
			err:  fmt.Errorf("%w: not a channel reference", domain.ErrInvalidChannelRef),
		},
		{
			name: "resolution failure",
			err:  fmt.Errorf("%w: username not found", domain.ErrChannelResolution),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newMockSession()
			session.resolveErr["@target"] = tt.err

			dispatcher := NewForwardDispatcher("@target", zerolog.Nop())
			outcome := dispatcher.Forward(context.Background(), session, &domain.ChannelPeer{ID: 1}, 5)

			if outcome.Forwarded {
				t.Fatal("Expected failed outcome")
			}
			if !strings.HasPrefix(outcome.Err, "invalid channel format") {
				t.Errorf("Expected invalid channel format error, got: %s", outcome.Err)
			}
		})
	}
}

// TestForward_TransportError tests that transport failures surface verbatim
func TestForward_TransportError(t *testing.T) {
	session := newMockSession()
	session.peers["@target"] = &domain.ChannelPeer{ID: 9, Kind: "channel"}
	session.forwardErr = errors.New("FLOOD_WAIT (420)")

	dispatcher := NewForwardDispatcher("@target", zerolog.Nop())
	outcome := dispatcher.Forward(context.Background(), session, &domain.ChannelPeer{ID: 1}, 5)

	if outcome.Forwarded {
		t.Fatal("Expected failed outcome")
	}
	if outcome.Err != "FLOOD_WAIT (420)" {
		t.Errorf("Expected transport error message, got: %s", outcome.Err)
	}
	if strings.HasPrefix(outcome.Err, "invalid channel format") {
		t.Error("Transport error must not be classified as invalid format")
	}
}

// TestEnabled tests that an empty destination disables forwarding
func TestEnabled(t *testing.T) {
	if NewForwardDispatcher("", zerolog.Nop()).Enabled() {
		t.Error("Expected forwarding disabled without a destination")
	}
	if !NewForwardDispatcher("@target", zerolog.Nop()).Enabled() {
		t.Error("Expected forwarding enabled with a destination")
	}
}
