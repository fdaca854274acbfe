package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrops-br/chaverito-api/internal/app/cart"
	"github.com/mrops-br/chaverito-api/internal/app/dto"
	"github.com/mrops-br/chaverito-api/internal/domain"
)

// CartService connects a shopper's cart store with the catalog: it
// captures product data at add-time and enforces stock limits, which the
// store itself does not know about
type CartService struct {
	catalog  domain.CatalogRepository
	shipping domain.ShippingPolicy
	tracer   trace.Tracer
	logger   *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(
	catalog domain.CatalogRepository,
	shipping domain.ShippingPolicy,
	tracer trace.Tracer,
	logger *slog.Logger,
) *CartService {
	return &CartService{
		catalog:  catalog,
		shipping: shipping,
		tracer:   tracer,
		logger:   logger,
	}
}

// View returns the cart with its totals
func (s *CartService) View(store *cart.Store) *dto.CartResponse {
	return dto.ToCartResponse(store.Lines(), store.Summary(s.shipping))
}

// AddProduct adds quantity units of a catalog product at its current
// effective price. The resulting line may not exceed the product stock.
// The stock check and the add are separate steps, so concurrent adds on
// one session can overshoot the stock; stock is not reserved.
func (s *CartService) AddProduct(ctx context.Context, store *cart.Store, req *dto.AddCartItemRequest) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddProduct")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", req.ProductID),
		attribute.Int("quantity", req.Quantity),
	)

	product, err := s.catalog.FindProductByID(ctx, req.ProductID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Product not found")
		return nil, err
	}

	inCart := 0
	for _, l := range store.Lines() {
		if l.ProductID == product.ID {
			inCart = l.Quantity
			break
		}
	}

	if err := product.CheckPurchasable(req.Quantity); err != nil {
		return nil, s.reject(ctx, span, product, err)
	}
	if inCart+req.Quantity > product.StockQuantity {
		return nil, s.reject(ctx, span, product, domain.ErrInsufficientStock)
	}

	if err := store.AddItem(ctx, product.CartLineInput(), req.Quantity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to add product")
		return nil, err
	}

	s.logger.InfoContext(ctx, "Product added to cart",
		slog.String("product_id", product.ID),
		slog.String("product_slug", product.Slug),
		slog.Int("quantity", req.Quantity),
	)

	span.SetStatus(codes.Ok, "Product added to cart")
	return s.View(store), nil
}

func (s *CartService) reject(ctx context.Context, span trace.Span, product *domain.Product, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, "Product not purchasable")
	s.logger.WarnContext(ctx, "Product not purchasable",
		slog.String("product_id", product.ID),
		slog.Int("stock_quantity", product.StockQuantity),
		slog.String("reason", err.Error()),
	)
	return err
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
// Increases are bounded by the product stock when the product is still in
// the catalog.
func (s *CartService) UpdateQuantity(ctx context.Context, store *cart.Store, productID string, quantity int) (*dto.CartResponse, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.UpdateQuantity")
	defer span.End()

	span.SetAttributes(
		attribute.String("product.id", productID),
		attribute.Int("quantity", quantity),
	)

	if quantity > 0 {
		if product, err := s.catalog.FindProductByID(ctx, productID); err == nil && quantity > product.StockQuantity {
			return nil, s.reject(ctx, span, product, domain.ErrInsufficientStock)
		}
	}

	if err := store.UpdateQuantity(ctx, productID, quantity); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to update quantity")
		return nil, err
	}

	span.SetStatus(codes.Ok, "Quantity updated")
	return s.View(store), nil
}

// Remove deletes a line from the cart
func (s *CartService) Remove(ctx context.Context, store *cart.Store, productID string) (*dto.CartResponse, error) {
	if err := store.RemoveItem(ctx, productID); err != nil {
		return nil, err
	}
	return s.View(store), nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, store *cart.Store) (*dto.CartResponse, error) {
	if err := store.Clear(ctx); err != nil {
		return nil, err
	}
	return s.View(store), nil
}
