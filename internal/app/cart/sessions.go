package cart

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-faster/errors"
	lru "github.com/hashicorp/golang-lru/v2"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// Default session limits
const (
	DefaultMaxSessions    = 10000
	DefaultSessionIdleTTL = 30 * time.Minute
)

// SessionLimits bounds the stores a Sessions registry keeps in memory
type SessionLimits struct {
	// MaxSessions is the number of stores held at once. The least recently
	// used store is dropped to make room.
	MaxSessions int
	// IdleTTL drops stores not used for this long
	IdleTTL time.Duration
}

func (l SessionLimits) withDefaults() SessionLimits {
	if l.MaxSessions < 1 {
		l.MaxSessions = DefaultMaxSessions
	}
	if l.IdleTTL <= 0 {
		l.IdleTTL = DefaultSessionIdleTTL
	}
	return l
}

type session struct {
	store    *Store
	lastUsed time.Time
}

// Sessions keeps one Store per shopper session, each persisted under its
// own key in the shared storage. Dropping a store from memory loses
// nothing that was saved: the next Get reloads it.
type Sessions struct {
	// mu guards lastUsed and the check-then-insert on stores
	mu      sync.Mutex
	stores  *lru.Cache[string, *session]
	limits  SessionLimits
	now     func() time.Time
	storage domain.KeyValueStore
	baseKey string
	tracer  trace.Tracer
	meter   metric.Meter
	logger  *slog.Logger
	active  metric.Int64UpDownCounter
}

// NewSessions creates an empty registry over storage
func NewSessions(
	storage domain.KeyValueStore,
	baseKey string,
	limits SessionLimits,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) (*Sessions, error) {
	active, _ := meter.Int64UpDownCounter(
		"cart.sessions.active",
		metric.WithDescription("Number of cart sessions held in memory"),
		metric.WithUnit("{session}"),
	)

	r := &Sessions{
		limits:  limits.withDefaults(),
		now:     time.Now,
		storage: storage,
		baseKey: baseKey,
		tracer:  tracer,
		meter:   meter,
		logger:  logger,
		active:  active,
	}

	stores, err := lru.NewWithEvict(r.limits.MaxSessions, r.dropped)
	if err != nil {
		return nil, errors.Wrap(err, "session cache")
	}
	r.stores = stores

	return r, nil
}

// dropped runs whenever a store leaves the cache
func (r *Sessions) dropped(sessionID string, _ *session) {
	ctx := context.Background()
	r.active.Add(ctx, -1)
	r.logger.DebugContext(ctx, "Cart session dropped from memory",
		slog.String("session_id", sessionID),
	)
}

// SessionKey is the storage key of a session's cart
func (r *Sessions) SessionKey(sessionID string) string {
	return fmt.Sprintf("%s:%s", r.baseKey, sessionID)
}

// Get returns the store of sessionID, loading it from storage when it is
// not held in memory. The storage read happens without holding the
// registry lock.
func (r *Sessions) Get(ctx context.Context, sessionID string) *Store {
	if s := r.lookup(sessionID); s != nil {
		return s
	}

	loaded := NewStore(ctx, r.storage, r.SessionKey(sessionID), r.tracer, r.meter, r.logger)

	r.mu.Lock()
	defer r.mu.Unlock()

	// a concurrent Get may have loaded it first
	if s, ok := r.stores.Get(sessionID); ok {
		s.lastUsed = r.now()
		return s.store
	}

	r.evictIdle()
	r.stores.Add(sessionID, &session{store: loaded, lastUsed: r.now()})
	r.active.Add(ctx, 1)

	r.logger.DebugContext(ctx, "Cart session opened",
		slog.String("session_id", sessionID),
	)
	return loaded
}

func (r *Sessions) lookup(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.stores.Get(sessionID)
	if !ok {
		return nil
	}
	if r.idle(s) {
		r.evict(sessionID)
		return nil
	}
	s.lastUsed = r.now()
	return s.store
}

func (r *Sessions) idle(s *session) bool {
	return r.now().Sub(s.lastUsed) >= r.limits.IdleTTL
}

// evictIdle drops idle stores, oldest first. Callers hold r.mu.
func (r *Sessions) evictIdle() {
	for {
		id, s, ok := r.stores.GetOldest()
		if !ok || !r.idle(s) {
			return
		}
		r.evict(id)
	}
}

// Evict drops the in-memory store of sessionID. Its contents stay in
// storage and are reloaded by the next Get.
func (r *Sessions) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evict(sessionID)
}

// evict removes sessionID from the cache; the eviction callback keeps the
// active gauge in step. Callers hold r.mu.
func (r *Sessions) evict(sessionID string) {
	r.stores.Remove(sessionID)
}

// Len returns the number of sessions held in memory
func (r *Sessions) Len() int {
	return r.stores.Len()
}
