package cache

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

type ledgerKey struct {
	channelID int64
	messageID int
}

// forwardedLedger implements an in-memory dedup ledger for forwarded
// messages. The poll window is computed from "now" rather than from the last
// checkpoint, so overlapping poll cycles can re-see the same message; the
// ledger keeps forwarding at-most-once across cycles.
type forwardedLedger struct {
	data   map[ledgerKey]time.Time
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewForwardedLedger creates a new forwarded-message ledger. Entries expire
// after ttl; expired entries are pruned opportunistically on writes.
func NewForwardedLedger(ttl time.Duration, logger zerolog.Logger) domain.ForwardLedger {
	return &forwardedLedger{
		data:   make(map[ledgerKey]time.Time),
		ttl:    ttl,
		now:    time.Now,
		logger: logger.With().Str("component", "forwarded_ledger").Logger(),
	}
}

// Seen reports whether the message was already forwarded within the TTL.
func (l *forwardedLedger) Seen(channelID int64, messageID int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	recordedAt, exists := l.data[ledgerKey{channelID, messageID}]
	if !exists {
		return false
	}
	if l.now().Sub(recordedAt) > l.ttl {
		delete(l.data, ledgerKey{channelID, messageID})
		return false
	}
	return true
}

// Record remembers a forwarded message and prunes expired entries.
func (l *forwardedLedger) Record(channelID int64, messageID int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.data[ledgerKey{channelID, messageID}] = now

	pruned := 0
	for key, recordedAt := range l.data {
		if now.Sub(recordedAt) > l.ttl {
			delete(l.data, key)
			pruned++
		}
	}

	if pruned > 0 {
		l.logger.Debug().
			Int("pruned", pruned).
			Int("remaining", len(l.data)).
			Msg("pruned expired ledger entries")
	}
}
