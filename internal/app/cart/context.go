package cart

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrStoreNotProvided is returned when a cart is looked up in a context
// that was never given one
var ErrStoreNotProvided = errors.New("cart store not provided in context")

type storeKey struct{}

// WithStore returns a copy of ctx carrying s
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store placed in ctx by WithStore
func FromContext(ctx context.Context) (*Store, error) {
	if s, ok := ctx.Value(storeKey{}).(*Store); ok && s != nil {
		return s, nil
	}
	return nil, ErrStoreNotProvided
}

// MustFromContext is like FromContext but panics when no store was provided
func MustFromContext(ctx context.Context) *Store {
	s, err := FromContext(ctx)
	if err != nil {
		panic(err)
	}
	return s
}
