package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// CatalogRepository is an in-memory implementation of domain.CatalogRepository
type CatalogRepository struct {
	mu         sync.RWMutex
	categories map[string]*domain.Category
	products   map[string]*domain.Product
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewCatalogRepository creates an empty in-memory catalog
func NewCatalogRepository(tracer trace.Tracer, logger *slog.Logger) *CatalogRepository {
	return &CatalogRepository{
		categories: make(map[string]*domain.Category),
		products:   make(map[string]*domain.Product),
		tracer:     tracer,
		logger:     logger,
	}
}

// PutCategory stores or replaces a category
func (r *CatalogRepository) PutCategory(ctx context.Context, category *domain.Category) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.categories[category.ID] = category

	r.logger.DebugContext(ctx, "Category stored in repository",
		slog.String("category_id", category.ID),
		slog.String("category_slug", category.Slug),
	)
}

// PutProduct validates and stores or replaces a product
func (r *CatalogRepository) PutProduct(ctx context.Context, product *domain.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.products[product.ID] = product

	r.logger.DebugContext(ctx, "Product stored in repository",
		slog.String("product_id", product.ID),
		slog.String("product_slug", product.Slug),
	)
	return nil
}

// ListCategories returns the active categories ordered by sort order
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.ListCategories")
	defer span.End()

	r.mu.RLock()
	defer r.mu.RUnlock()

	categories := make([]*domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.IsActive {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].SortOrder != categories[j].SortOrder {
			return categories[i].SortOrder < categories[j].SortOrder
		}
		return categories[i].Slug < categories[j].Slug
	})

	span.SetAttributes(attribute.Int("category.count", len(categories)))

	r.logger.DebugContext(ctx, "Categories retrieved from repository",
		slog.Int("count", len(categories)),
	)

	span.SetStatus(codes.Ok, "Categories retrieved successfully")
	return categories, nil
}

// FindCategoryBySlug retrieves an active category by slug
func (r *CatalogRepository) FindCategoryBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindCategoryBySlug")
	defer span.End()

	span.SetAttributes(attribute.String("category.slug", slug))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.categories {
		if c.Slug == slug && c.IsActive {
			span.SetStatus(codes.Ok, "Category found")
			return c, nil
		}
	}

	span.RecordError(domain.ErrCategoryNotFound)
	span.SetStatus(codes.Error, "Category not found")
	r.logger.WarnContext(ctx, "Category not found",
		slog.String("category_slug", slug),
	)
	return nil, domain.ErrCategoryNotFound
}

// ListProductsByCategory returns the active products of a category ordered
// by sort order
func (r *CatalogRepository) ListProductsByCategory(ctx context.Context, categoryID string) ([]*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.ListProductsByCategory")
	defer span.End()

	span.SetAttributes(attribute.String("category.id", categoryID))

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0)
	for _, p := range r.products {
		if p.CategoryID == categoryID && p.IsActive {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].SortOrder != products[j].SortOrder {
			return products[i].SortOrder < products[j].SortOrder
		}
		return products[i].Slug < products[j].Slug
	})

	span.SetAttributes(attribute.Int("product.count", len(products)))

	r.logger.DebugContext(ctx, "Products retrieved from repository",
		slog.String("category_id", categoryID),
		slog.Int("count", len(products)),
	)

	span.SetStatus(codes.Ok, "Products retrieved successfully")
	return products, nil
}

// FindProductBySlug retrieves an active product by slug
func (r *CatalogRepository) FindProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindProductBySlug")
	defer span.End()

	span.SetAttributes(attribute.String("product.slug", slug))

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug && p.IsActive {
			span.SetAttributes(attribute.String("product.id", p.ID))
			span.SetStatus(codes.Ok, "Product found")
			return p, nil
		}
	}

	span.RecordError(domain.ErrProductNotFound)
	span.SetStatus(codes.Error, "Product not found")
	r.logger.WarnContext(ctx, "Product not found",
		slog.String("product_slug", slug),
	)
	return nil, domain.ErrProductNotFound
}

// FindProductByID retrieves an active product by ID
func (r *CatalogRepository) FindProductByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "CatalogRepository.FindProductByID")
	defer span.End()

	span.SetAttributes(attribute.String("product.id", id))

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, exists := r.products[id]
	if !exists || !product.IsActive {
		span.RecordError(domain.ErrProductNotFound)
		span.SetStatus(codes.Error, "Product not found")
		r.logger.WarnContext(ctx, "Product not found",
			slog.String("product_id", id),
		)
		return nil, domain.ErrProductNotFound
	}

	span.SetStatus(codes.Ok, "Product found")
	return product, nil
}
