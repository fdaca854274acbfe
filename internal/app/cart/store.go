// Package cart holds the shopping cart store: the single source of truth
// for a shopper's cart, persisted to a key-value store on every change.
package cart

import (
	"context"
	"log/slog"
	"sync"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// DefaultKey is the storage key of the cart contents
const DefaultKey = "chaverito-cart"

// ErrPersist wraps every failure to write the cart to storage
var ErrPersist = errors.New("persist cart")

// Observer receives a copy of the lines after every change
type Observer func(lines []domain.CartLine)

// Store is the cart of one shopper. It is safe for concurrent use.
type Store struct {
	mu        sync.Mutex
	key       string
	storage   domain.KeyValueStore
	cart      *domain.Cart
	observers map[int]Observer
	nextObsID int

	tracer     trace.Tracer
	logger     *slog.Logger
	operations metric.Int64Counter
}

// NewStore creates a store persisted under key and hydrates it from
// storage. Missing or unreadable data leaves the cart empty.
func NewStore(
	ctx context.Context,
	storage domain.KeyValueStore,
	key string,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *Store {
	operations, _ := meter.Int64Counter(
		"cart.operations",
		metric.WithDescription("Total number of cart operations"),
	)

	s := &Store{
		key:        key,
		storage:    storage,
		cart:       domain.NewCart(nil),
		observers:  make(map[int]Observer),
		tracer:     tracer,
		logger:     logger,
		operations: operations,
	}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	ctx, span := s.tracer.Start(ctx, "CartStore.Load")
	defer span.End()

	span.SetAttributes(attribute.String("cart.key", s.key))

	data, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			span.RecordError(err)
			s.logger.WarnContext(ctx, "Failed to read stored cart, starting empty",
				slog.String("key", s.key),
				slog.String("error", err.Error()),
			)
		}
		return
	}

	lines, err := Decode(data)
	if err != nil {
		span.RecordError(err)
		s.logger.WarnContext(ctx, "Stored cart is corrupt, starting empty",
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		return
	}

	s.cart = domain.NewCart(lines)
	span.SetAttributes(attribute.Int("cart.lines", len(s.cart.Lines)))
	s.logger.DebugContext(ctx, "Cart loaded from storage",
		slog.String("key", s.key),
		slog.Int("lines", len(s.cart.Lines)),
	)
}

// Key returns the storage key of this cart
func (s *Store) Key() string {
	return s.key
}

// AddItem adds quantity units of item, merging with an existing line for
// the same product. A non-positive quantity never creates a line and
// removes an existing one whose quantity drops below 1.
func (s *Store) AddItem(ctx context.Context, item domain.CartLineInput, quantity int) error {
	return s.mutate(ctx, "add", []attribute.KeyValue{
		attribute.String("product.id", item.ProductID),
		attribute.Int("quantity", quantity),
	}, func(c *domain.Cart) {
		c.Add(item, quantity)
	})
}

// RemoveItem deletes the line for productID; absent products are ignored
func (s *Store) RemoveItem(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove", []attribute.KeyValue{
		attribute.String("product.id", productID),
	}, func(c *domain.Cart) {
		c.Remove(productID)
	})
}

// UpdateQuantity sets the quantity of the line for productID. Zero or a
// negative quantity removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "update", []attribute.KeyValue{
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	}, func(c *domain.Cart) {
		c.SetQuantity(productID, quantity)
	})
}

// Clear empties the cart
func (s *Store) Clear(ctx context.Context) error {
	return s.mutate(ctx, "clear", nil, func(c *domain.Cart) {
		c.Clear()
	})
}

// Lines returns a copy of the current lines in cart order
func (s *Store) Lines() []domain.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Snapshot()
}

// TotalItems is the sum of quantities over all lines
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalItems()
}

// TotalPrice is the sum of unit price times quantity over all lines
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.TotalPrice()
}

// Summary computes the order totals under the shipping policy
func (s *Store) Summary(policy domain.ShippingPolicy) domain.CartSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return policy.Summarize(s.cart)
}

// Subscribe registers an observer called synchronously after every change.
// The returned func removes it.
func (s *Store) Subscribe(o Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = o

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Save writes the full line list to storage
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(ctx)
}

func (s *Store) save(ctx context.Context) error {
	data, err := Encode(s.cart.Lines)
	if err == nil {
		err = s.storage.Set(ctx, s.key, data)
	}
	if err != nil {
		return &persistError{key: s.key, err: err}
	}
	return nil
}

// mutate applies fn, persists the result and notifies observers. The
// in-memory change is kept even when the write fails.
func (s *Store) mutate(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(*domain.Cart)) error {
	ctx, span := s.tracer.Start(ctx, "CartStore."+op)
	defer span.End()

	span.SetAttributes(attrs...)
	span.SetAttributes(attribute.String("cart.key", s.key))

	s.mu.Lock()
	fn(s.cart)
	err := s.save(ctx)
	lines := s.cart.Snapshot()
	totalItems := s.cart.TotalItems()
	observers := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		observers = append(observers, o)
	}
	s.mu.Unlock()

	span.SetAttributes(
		attribute.Int("cart.lines", len(lines)),
		attribute.Int("cart.total_items", totalItems),
	)

	for _, o := range observers {
		o(lines)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to persist cart")
		s.logger.ErrorContext(ctx, "Failed to persist cart",
			slog.String("operation", op),
			slog.String("key", s.key),
			slog.String("error", err.Error()),
		)
		s.count(ctx, op, "failure")
		return err
	}

	s.logger.DebugContext(ctx, "Cart updated",
		slog.String("operation", op),
		slog.Int("lines", len(lines)),
		slog.Int("total_items", totalItems),
	)
	s.count(ctx, op, "success")
	span.SetStatus(codes.Ok, "Cart updated")
	return nil
}

func (s *Store) count(ctx context.Context, op, result string) {
	s.operations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", op),
			attribute.String("result", result),
		),
	)
}

// persistError keeps the storage error while matching ErrPersist
type persistError struct {
	key string
	err error
}

func (e *persistError) Error() string {
	return "persist cart " + e.key + ": " + e.err.Error()
}

func (e *persistError) Unwrap() []error {
	return []error{ErrPersist, e.err}
}
