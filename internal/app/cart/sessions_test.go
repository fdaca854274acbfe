package cart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func newSessions(t *testing.T, storage *flakyStorage, limits SessionLimits) *Sessions {
	t.Helper()
	r, err := NewSessions(
		storage,
		DefaultKey,
		limits,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	require.NoError(t, err)
	return r
}

// fakeClock is advanced by hand
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestSessions_IsolatesCarts(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	r := newSessions(t, storage, SessionLimits{})

	a := r.Get(ctx, "alice")
	b := r.Get(ctx, "bob")
	require.NoError(t, a.AddItem(ctx, item("p1", "10"), 2))

	assert.Same(t, a, r.Get(ctx, "alice"))
	assert.Equal(t, 2, a.TotalItems())
	assert.Equal(t, 0, b.TotalItems())
	assert.Equal(t, "chaverito-cart:alice", a.Key())

	_, err := storage.Get(ctx, "chaverito-cart:alice")
	assert.NoError(t, err)
}

func TestSessions_EvictReloadsFromStorage(t *testing.T) {
	ctx := context.Background()
	r := newSessions(t, newStorage(), SessionLimits{})

	require.NoError(t, r.Get(ctx, "s1").AddItem(ctx, item("p1", "10"), 3))
	r.Evict("s1")
	r.Evict("unknown")
	assert.Equal(t, 0, r.Len())

	assert.Equal(t, 3, r.Get(ctx, "s1").TotalItems())
	assert.Equal(t, 1, r.Len())
}

func TestSessions_BoundedByMaxSessions(t *testing.T) {
	ctx := context.Background()
	r := newSessions(t, newStorage(), SessionLimits{MaxSessions: 3})

	first := r.Get(ctx, "s0")
	require.NoError(t, first.AddItem(ctx, item("p1", "10"), 2))

	for i := 1; i <= 100; i++ {
		r.Get(ctx, fmt.Sprintf("s%d", i))
	}
	assert.Equal(t, 3, r.Len())

	reloaded := r.Get(ctx, "s0")
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, 2, reloaded.TotalItems())
	assert.Equal(t, 3, r.Len())
}

func TestSessions_RecentlyUsedSurvives(t *testing.T) {
	ctx := context.Background()
	r := newSessions(t, newStorage(), SessionLimits{MaxSessions: 2})

	a := r.Get(ctx, "a")
	r.Get(ctx, "b")
	assert.Same(t, a, r.Get(ctx, "a"))

	r.Get(ctx, "c") // drops b, the least recently used
	assert.Same(t, a, r.Get(ctx, "a"))
	assert.Equal(t, 2, r.Len())
}

func TestSessions_IdleStoresAreDropped(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := newSessions(t, newStorage(), SessionLimits{IdleTTL: time.Minute})
	r.now = clock.now

	idle := r.Get(ctx, "idle")
	require.NoError(t, idle.AddItem(ctx, item("p1", "10"), 4))
	clock.advance(30 * time.Second)
	busy := r.Get(ctx, "busy")

	clock.advance(45 * time.Second)
	r.Get(ctx, "newcomer")
	assert.Equal(t, 2, r.Len(), "idle store dropped when a new session opens")
	assert.Same(t, busy, r.Get(ctx, "busy"))

	clock.advance(2 * time.Minute)
	got := r.Get(ctx, "busy")
	assert.NotSame(t, busy, got, "idle store reloaded on access")

	reloaded := r.Get(ctx, "idle")
	assert.NotSame(t, idle, reloaded)
	assert.Equal(t, 4, reloaded.TotalItems())
}

func TestSessions_ConcurrentFirstGetSharesStore(t *testing.T) {
	ctx := context.Background()
	r := newSessions(t, newStorage(), SessionLimits{})

	const n = 16
	stores := make([]*Store, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			stores[i] = r.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	for _, s := range stores {
		assert.Same(t, stores[0], s)
	}
	assert.Equal(t, 1, r.Len())
}

func TestContext(t *testing.T) {
	_, err := FromContext(context.Background())
	assert.ErrorIs(t, err, ErrStoreNotProvided)
	assert.Panics(t, func() { MustFromContext(context.Background()) })

	s := newStore(t, newStorage())
	got, err := FromContext(WithStore(context.Background(), s))
	require.NoError(t, err)
	assert.Same(t, s, got)
}
