package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/chaverito-api/internal/app/dto"
	"github.com/mrops-br/chaverito-api/internal/domain"
)

// CatalogService handles catalog browsing use cases
type CatalogService struct {
	repo              domain.CatalogRepository
	shipping          domain.ShippingPolicy
	tracer            trace.Tracer
	logger            *slog.Logger
	catalogOperations metric.Int64Counter
}

// NewCatalogService creates a new catalog service
func NewCatalogService(
	repo domain.CatalogRepository,
	shipping domain.ShippingPolicy,
	tracer trace.Tracer,
	meter metric.Meter,
	logger *slog.Logger,
) *CatalogService {
	catalogOperations, _ := meter.Int64Counter(
		"catalog.operations",
		metric.WithDescription("Total number of catalog operations"),
	)

	return &CatalogService{
		repo:              repo,
		shipping:          shipping,
		tracer:            tracer,
		logger:            logger,
		catalogOperations: catalogOperations,
	}
}

func (s *CatalogService) record(ctx context.Context, operation, result string) {
	s.catalogOperations.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("result", result),
		),
	)
}

// ListCategories retrieves the active categories
func (s *CatalogService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve categories")
		s.logger.ErrorContext(ctx, "Failed to list categories",
			slog.String("error", err.Error()),
		)
		s.record(ctx, "list_categories", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("category.count", len(categories)))
	s.record(ctx, "list_categories", "success")

	span.SetStatus(codes.Ok, "Categories listed successfully")
	return dto.ToCategoryResponseList(categories), nil
}

// GetCategoryPage retrieves a category by slug together with its products
func (s *CatalogService) GetCategoryPage(ctx context.Context, slug string) (*dto.CategoryPageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategoryPage")
	defer span.End()

	span.SetAttributes(attribute.String("category.slug", slug))

	s.logger.InfoContext(ctx, "Getting category page",
		slog.String("category_slug", slug),
	)

	category, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Category not found")
		s.record(ctx, "category_page", "not_found")
		return nil, err
	}

	products, err := s.repo.ListProductsByCategory(ctx, category.ID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to retrieve products")
		s.logger.ErrorContext(ctx, "Failed to list category products",
			slog.String("category_id", category.ID),
			slog.String("error", err.Error()),
		)
		s.record(ctx, "category_page", "failure")
		return nil, err
	}

	span.SetAttributes(attribute.Int("product.count", len(products)))
	s.record(ctx, "category_page", "success")

	span.SetStatus(codes.Ok, "Category page retrieved successfully")
	return &dto.CategoryPageResponse{
		Category: dto.ToCategoryResponse(category),
		Products: dto.ToProductResponseList(products),
	}, nil
}

// GetProductPage retrieves a product by slug
func (s *CatalogService) GetProductPage(ctx context.Context, slug string) (*dto.ProductPageResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProductPage")
	defer span.End()

	span.SetAttributes(attribute.String("product.slug", slug))

	s.logger.InfoContext(ctx, "Getting product by slug",
		slog.String("product_slug", slug),
	)

	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		s.logger.WarnContext(ctx, "Product not found",
			slog.String("product_slug", slug),
		)
		s.record(ctx, "product_page", "not_found")
		return nil, err
	}

	span.SetAttributes(attribute.String("product.id", product.ID))

	page := &dto.ProductPageResponse{Product: dto.ToProductResponse(product)}
	if categories, err := s.repo.ListCategories(ctx); err == nil {
		for _, c := range categories {
			if c.ID == product.CategoryID {
				page.Category = dto.ToCategoryResponse(c)
				break
			}
		}
	}

	s.record(ctx, "product_page", "success")

	span.SetStatus(codes.Ok, "Product retrieved successfully")
	return page, nil
}

// ListOffers returns the current storewide promotions
func (s *CatalogService) ListOffers(ctx context.Context) []*dto.OfferResponse {
	_, span := s.tracer.Start(ctx, "CatalogService.ListOffers")
	defer span.End()

	s.record(ctx, "list_offers", "success")
	return dto.ToOfferResponseList(domain.DefaultOffers(s.shipping))
}
