package chat

import (
	"testing"
	"time"

	"github.com/mclellan/stocktalk/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives a Gate deterministically: time only moves when advanced,
// and scheduled callbacks are captured instead of fired.
type fakeClock struct {
	now       time.Time
	scheduled []scheduledCall
}

type scheduledCall struct {
	delay time.Duration
	fn    func()
}

func newGateWithClock(t *testing.T) (*Gate, *Store, *fakeClock) {
	t.Helper()
	store := NewStore(logging.Nop())
	clock := &fakeClock{now: time.Unix(1000, 0)}
	g := NewGate(store)
	g.now = func() time.Time { return clock.now }
	g.after = func(d time.Duration, fn func()) {
		clock.scheduled = append(clock.scheduled, scheduledCall{delay: d, fn: fn})
	}
	return g, store, clock
}

func TestGate_BeginSetsLoading(t *testing.T) {
	g, store, _ := newGateWithClock(t)
	id := store.Active()

	g.Begin(id)

	assert.True(t, store.Loading(id))
}

func TestGate_CommitBeforeFloorDefersRemainder(t *testing.T) {
	g, store, clock := newGateWithClock(t)
	id := store.Active()

	g.Begin(id)
	clock.now = clock.now.Add(200 * time.Millisecond)
	g.Commit(id, func() {})

	require.Len(t, clock.scheduled, 1)
	assert.Equal(t, 1300*time.Millisecond, clock.scheduled[0].delay)
}

func TestGate_CommitAfterFloorRunsImmediately(t *testing.T) {
	g, store, clock := newGateWithClock(t)
	id := store.Active()

	g.Begin(id)
	clock.now = clock.now.Add(2 * time.Second)
	g.Commit(id, func() {})

	require.Len(t, clock.scheduled, 1)
	assert.Equal(t, time.Duration(0), clock.scheduled[0].delay)
}

func TestGate_CommitExactlyAtFloor(t *testing.T) {
	g, store, clock := newGateWithClock(t)
	id := store.Active()

	g.Begin(id)
	clock.now = clock.now.Add(MinVisible)
	g.Commit(id, func() {})

	require.Len(t, clock.scheduled, 1)
	assert.Equal(t, time.Duration(0), clock.scheduled[0].delay)
}

func TestGate_CommitWithoutBegin(t *testing.T) {
	g, _, clock := newGateWithClock(t)

	ran := false
	g.Commit("never-begun", func() { ran = true })

	require.Len(t, clock.scheduled, 1)
	assert.Equal(t, time.Duration(0), clock.scheduled[0].delay)

	clock.scheduled[0].fn()
	assert.True(t, ran)
}

func TestGate_SessionsGateIndependently(t *testing.T) {
	g, store, clock := newGateWithClock(t)
	a := store.Active()
	b := store.NewSession()

	g.Begin(a)
	clock.now = clock.now.Add(500 * time.Millisecond)
	g.Begin(b)
	clock.now = clock.now.Add(500 * time.Millisecond)

	g.Commit(a, func() {})
	g.Commit(b, func() {})

	require.Len(t, clock.scheduled, 2)
	assert.Equal(t, 500*time.Millisecond, clock.scheduled[0].delay)  // a: 1000ms elapsed
	assert.Equal(t, 1000*time.Millisecond, clock.scheduled[1].delay) // b: 500ms elapsed
}

func TestGate_CallbackRunsAfterSessionDeleted(t *testing.T) {
	g, store, clock := newGateWithClock(t)
	id := store.Active()

	g.Begin(id)
	store.Delete(id)
	g.Commit(id, func() {
		// The commit itself goes through the store's missing-session
		// contract, so this must not blow up or resurrect state.
		store.endLoading(id)
	})

	require.Len(t, clock.scheduled, 1)
	clock.scheduled[0].fn()

	assert.False(t, store.Loading(id))
	for _, sess := range store.Sessions() {
		assert.NotEqual(t, id, sess.ID)
	}
}

func TestGate_RealTimerFires(t *testing.T) {
	store := NewStore(logging.Nop())
	g := NewGate(store)
	g.min = 10 * time.Millisecond // shrink the floor to keep the test fast

	id := store.Active()
	g.Begin(id)

	done := make(chan struct{})
	g.Commit(id, func() {
		store.endLoading(id)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("commit callback never fired")
	}
	assert.False(t, store.Loading(id))
}
