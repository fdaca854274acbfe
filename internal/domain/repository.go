package domain

import (
	"context"

	"github.com/go-faster/errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrKeyNotFound      = errors.New("key not found")
)

// CatalogRepository defines the contract for reading the product catalog.
// Only active categories and products are visible through it.
type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]*Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*Category, error)
	ListProductsByCategory(ctx context.Context, categoryID string) ([]*Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*Product, error)
	FindProductByID(ctx context.Context, id string) (*Product, error)
}

// KeyValueStore is durable string storage. Get returns ErrKeyNotFound
// when nothing was stored under key.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
