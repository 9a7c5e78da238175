package auth

import (
	"sync"
	"time"
)

// MaxLoginAttempts is the number of consecutive failures allowed per client
// identifier before the identifier is banned for the rest of the process
// lifetime. Restarting the server is the only way to lift a ban.
const MaxLoginAttempts = 5

type attemptRecord struct {
	attempts      int
	lastAttemptAt time.Time
	banned        bool
}

// FailureResult reports the tracker state after a recorded failure.
type FailureResult struct {
	Banned            bool
	RemainingAttempts int
}

// AttemptTracker counts consecutive failed logins per client identifier and
// flips an identifier to banned at MaxLoginAttempts. The store lives in
// process memory only; there is no eviction and no time-based decay. It is
// constructed per instance rather than held in a package variable so tests
// can use isolated trackers.
type AttemptTracker struct {
	mu      sync.Mutex
	records map[string]*attemptRecord
}

// NewAttemptTracker creates an empty tracker.
func NewAttemptTracker() *AttemptTracker {
	return &AttemptTracker{
		records: make(map[string]*attemptRecord),
	}
}

// RecordFailure increments the failure count for id, banning it once the
// count reaches MaxLoginAttempts.
func (t *AttemptTracker) RecordFailure(id string) FailureResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		rec = &attemptRecord{}
		t.records[id] = rec
	}

	rec.attempts++
	rec.lastAttemptAt = time.Now()

	if rec.attempts >= MaxLoginAttempts {
		rec.banned = true
	}

	remaining := MaxLoginAttempts - rec.attempts
	if remaining < 0 {
		remaining = 0
	}

	return FailureResult{
		Banned:            rec.banned,
		RemainingAttempts: remaining,
	}
}

// RecordSuccess resets the failure count for id by deleting its record.
// A banned identifier is never reset: the ban is terminal even if this is
// called directly, although the login flow checks the ban before the
// credential so a banned identifier cannot normally reach here.
func (t *AttemptTracker) RecordSuccess(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if rec, ok := t.records[id]; ok && rec.banned {
		return
	}
	delete(t.records, id)
}

// IsBanned reports whether id is banned. Unknown identifiers are not banned.
func (t *AttemptTracker) IsBanned(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	return ok && rec.banned
}

// RemainingAttempts reports how many failures id has left before a ban.
func (t *AttemptTracker) RemainingAttempts(id string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, ok := t.records[id]
	if !ok {
		return MaxLoginAttempts
	}
	remaining := MaxLoginAttempts - rec.attempts
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Tracked reports whether the tracker currently holds a record for id.
func (t *AttemptTracker) Tracked(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.records[id]
	return ok
}
