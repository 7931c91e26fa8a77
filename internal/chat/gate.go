package chat

import (
	"sync"
	"time"
)

// MinVisible is the floor for how long a session's busy indicator stays
// visible, regardless of how quickly the request settles.
const MinVisible = 1500 * time.Millisecond

// Gate decouples "request in flight" from "result may be shown". Begin stamps
// a monotonic start time and raises the session's loading flag; Commit
// schedules the visible settle at max(0, floor - elapsed). Gating is per
// session: overlapping requests across sessions never serialize, and a second
// submission to the same session simply restamps the start time (the
// presentation layer is expected to disable input while loading).
type Gate struct {
	store *Store
	min   time.Duration

	// injectable for tests
	now   func() time.Time
	after func(time.Duration, func())

	mu      sync.Mutex
	started map[string]time.Time
}

// NewGate creates a gate over the given store with the standard floor.
func NewGate(store *Store) *Gate {
	return &Gate{
		store: store,
		min:   MinVisible,
		now:   time.Now,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
		started: make(map[string]time.Time),
	}
}

// Begin records the submission time and flags the session as loading.
func (g *Gate) Begin(id string) {
	g.mu.Lock()
	g.started[id] = g.now()
	g.mu.Unlock()

	g.store.beginLoading(id)
}

// Commit schedules fn to run once the minimum visible duration has elapsed
// since Begin. fn runs exactly once, even when the session was deleted in the
// interim; it is fn's mutations that become no-ops, via the store's
// missing-session contracts.
func (g *Gate) Commit(id string, fn func()) {
	g.mu.Lock()
	start, ok := g.started[id]
	delete(g.started, id)
	now := g.now()
	g.mu.Unlock()

	var remaining time.Duration
	if ok {
		if elapsed := now.Sub(start); elapsed < g.min {
			remaining = g.min - elapsed
		}
	}
	g.after(remaining, fn)
}
