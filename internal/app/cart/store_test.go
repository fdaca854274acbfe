package cart

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/go-faster/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/goleak"

	"github.com/mrops-br/chaverito-api/internal/domain"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/storage/memory"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errDiskFull = errors.New("disk full")

var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// flakyStorage wraps a memory store with switchable failures
type flakyStorage struct {
	*memory.KeyValueStore
	failGet bool
	failSet bool
	writes  int
}

func (s *flakyStorage) Get(ctx context.Context, key string) (string, error) {
	if s.failGet {
		return "", errors.New("storage unavailable")
	}
	return s.KeyValueStore.Get(ctx, key)
}

func (s *flakyStorage) Set(ctx context.Context, key, value string) error {
	if s.failSet {
		return errDiskFull
	}
	s.writes++
	return s.KeyValueStore.Set(ctx, key, value)
}

func newStorage() *flakyStorage {
	return &flakyStorage{KeyValueStore: memory.NewKeyValueStore()}
}

func newStore(t *testing.T, storage domain.KeyValueStore) *Store {
	t.Helper()
	return NewStore(
		context.Background(),
		storage,
		DefaultKey,
		tracenoop.NewTracerProvider().Tracer("test"),
		metricnoop.NewMeterProvider().Meter("test"),
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func item(productID, price string) domain.CartLineInput {
	return domain.CartLineInput{
		LineID:    productID,
		ProductID: productID,
		Name:      "Chaveiro " + productID,
		UnitPrice: decimal.RequireFromString(price),
		ImageRef:  domain.PlaceholderImage,
		Slug:      productID,
	}
}

func stored(t *testing.T, storage domain.KeyValueStore) []domain.CartLine {
	t.Helper()
	data, err := storage.Get(context.Background(), DefaultKey)
	require.NoError(t, err)
	lines, err := Decode(data)
	require.NoError(t, err)
	return lines
}

func TestStore_Scenario(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)

	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), 2))
	require.NoError(t, s.AddItem(ctx, item("p2", "34.90"), 1))

	assert.Equal(t, 3, s.TotalItems())
	assert.Equal(t, "94.70", s.TotalPrice().StringFixed(2))

	require.NoError(t, s.UpdateQuantity(ctx, "p1", 0))
	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "p2", lines[0].ProductID)
	assert.Equal(t, 1, s.TotalItems())

	require.NoError(t, s.Clear(ctx))
	assert.Equal(t, 0, s.TotalItems())

	raw, err := storage.Get(ctx, DefaultKey)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestStore_EveryMutationPersists(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)

	require.NoError(t, s.AddItem(ctx, item("p1", "10"), 1))
	require.NoError(t, s.UpdateQuantity(ctx, "p1", 4))
	require.NoError(t, s.RemoveItem(ctx, "missing"))
	require.NoError(t, s.RemoveItem(ctx, "p1"))
	require.NoError(t, s.Clear(ctx))

	assert.Equal(t, 5, storage.writes)
}

func TestStore_CumulativeAdd(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)

	for _, q := range []int{2, 5, 1} {
		require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), q))
	}

	lines := stored(t, storage)
	require.Len(t, lines, 1)
	assert.Equal(t, 8, lines[0].Quantity)
}

func TestStore_AddNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)
	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), 2))

	require.NoError(t, s.AddItem(ctx, item("p3", "10.00"), 0))
	require.NoError(t, s.AddItem(ctx, item("p4", "10.00"), -2))
	require.Len(t, s.Lines(), 1, "no line created for a non-positive quantity")

	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), -1))
	assert.Equal(t, 1, s.TotalItems())

	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), -3))
	assert.Empty(t, s.Lines())
	assert.Empty(t, stored(t, storage))
}

func TestStore_RemoveAbsentLeavesCartUnchanged(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newStorage())
	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), 2))

	before := s.Lines()
	items, price := s.TotalItems(), s.TotalPrice()

	require.NoError(t, s.RemoveItem(ctx, "nope"))

	assert.Empty(t, cmp.Diff(before, s.Lines(), decimalEqual))
	assert.Equal(t, items, s.TotalItems())
	assert.True(t, price.Equal(s.TotalPrice()))
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)

	require.NoError(t, s.AddItem(ctx, item("p3", "12.50"), 1))
	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), 2))
	require.NoError(t, s.AddItem(ctx, item("p2", "34.90"), 4))
	want := s.Lines()

	data, err := Encode(want)
	require.NoError(t, err)
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, storage.Set(ctx, DefaultKey, data))

	reloaded := newStore(t, storage)
	got := reloaded.Lines()

	assert.Empty(t, cmp.Diff(want, got, decimalEqual))
}

func TestStore_HydrateFailsOpen(t *testing.T) {
	t.Run("nothing stored", func(t *testing.T) {
		s := newStore(t, newStorage())
		assert.Empty(t, s.Lines())
	})

	t.Run("corrupt data", func(t *testing.T) {
		storage := newStorage()
		require.NoError(t, storage.Set(context.Background(), DefaultKey, "{not json"))
		s := newStore(t, storage)
		assert.Empty(t, s.Lines())
	})

	t.Run("storage error", func(t *testing.T) {
		storage := newStorage()
		storage.failGet = true
		s := newStore(t, storage)
		assert.Equal(t, 0, s.TotalItems())
	})
}

func TestStore_WriteFailurePropagates(t *testing.T) {
	ctx := context.Background()
	storage := newStorage()
	s := newStore(t, storage)
	storage.failSet = true

	err := s.AddItem(ctx, item("p1", "10"), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.ErrorIs(t, err, errDiskFull)

	// the in-memory cart keeps the change
	assert.Equal(t, 1, s.TotalItems())

	storage.failSet = false
	require.NoError(t, s.Save(ctx))
	assert.Len(t, stored(t, storage), 1)
}

func TestStore_Observers(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newStorage())

	var seen [][]domain.CartLine
	unsubscribe := s.Subscribe(func(lines []domain.CartLine) {
		seen = append(seen, lines)
	})

	require.NoError(t, s.AddItem(ctx, item("p1", "10"), 2))
	require.NoError(t, s.UpdateQuantity(ctx, "p1", 5))
	require.Len(t, seen, 2)
	assert.Equal(t, 2, seen[0][0].Quantity)
	assert.Equal(t, 5, seen[1][0].Quantity)

	unsubscribe()
	require.NoError(t, s.Clear(ctx))
	assert.Len(t, seen, 2)
}

func TestStore_ObserverMayReadStore(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newStorage())

	var total int
	s.Subscribe(func([]domain.CartLine) {
		total = s.TotalItems()
	})

	require.NoError(t, s.AddItem(ctx, item("p1", "10"), 3))
	assert.Equal(t, 3, total)
}

func TestStore_Summary(t *testing.T) {
	ctx := context.Background()
	s := newStore(t, newStorage())
	require.NoError(t, s.AddItem(ctx, item("p1", "29.90"), 2))

	summary := s.Summary(domain.DefaultShippingPolicy())
	assert.Equal(t, "59.80", summary.Subtotal.StringFixed(2))
	assert.Equal(t, "75.70", summary.Total.StringFixed(2))
}
