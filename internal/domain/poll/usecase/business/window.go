package business

import (
	"sync"
	"time"

	"github.com/yourusername/telegram-triage-service/internal/domain"
)

// Tracker owns the last successful check timestamp and computes the poll
// window. It is the only shared mutable state between poll cycles; all
// access goes through the mutex.
type Tracker struct {
	mu        sync.Mutex
	lookback  time.Duration
	offset    time.Duration
	lastCheck time.Time
}

// NewTracker creates a tracker with the given lookback window and audience
// time offset. The checkpoint is initialized to the shifted construction
// time, so status reporting always has a reference point.
func NewTracker(lookback, offset time.Duration) *Tracker {
	return &Tracker{
		lookback:  lookback,
		offset:    offset,
		lastCheck: time.Now().UTC().Add(offset),
	}
}

// Now returns the current instant shifted to the audience offset.
func (t *Tracker) Now() time.Time {
	return time.Now().UTC().Add(t.offset)
}

// Offset returns the configured audience time offset.
func (t *Tracker) Offset() time.Duration {
	return t.offset
}

// ComputeWindow returns the fixed-duration lookback window ending at now.
// The window is always relative to now, not to the last checkpoint: this
// bounds missed-message risk from clock drift at the cost of re-scanning
// already-seen messages, so forwarding idempotence is enforced by the
// dedup ledger instead.
func (t *Tracker) ComputeWindow(now time.Time) domain.CheckWindow {
	return domain.CheckWindow{
		Since: now.Add(-t.lookback),
		Until: now,
	}
}

// RecordCheckpoint overwrites the last check timestamp unconditionally.
// Called once per completed poll cycle, regardless of per-channel errors.
func (t *Tracker) RecordCheckpoint(ts time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastCheck = ts
}

// LastCheck returns the last recorded checkpoint.
func (t *Tracker) LastCheck() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastCheck
}
