package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// Money renders an amount with two decimal places
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// AddCartItemRequest represents the request to add a product to the cart
type AddCartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents the request to change a line quantity
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse represents one line of the cart
type CartLineResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
	Image     string `json:"image"`
	Slug      string `json:"slug"`
}

// CartResponse represents the cart with its totals
type CartResponse struct {
	Items                    []*CartLineResponse `json:"items"`
	TotalItems               int                 `json:"total_items"`
	Subtotal                 string              `json:"subtotal"`
	Shipping                 string              `json:"shipping"`
	FreeShipping             bool                `json:"free_shipping"`
	RemainingForFreeShipping string              `json:"remaining_for_free_shipping"`
	Total                    string              `json:"total"`
}

// ToCartResponse converts the cart lines and summary to CartResponse
func ToCartResponse(lines []domain.CartLine, summary domain.CartSummary) *CartResponse {
	items := make([]*CartLineResponse, len(lines))
	for i, l := range lines {
		items[i] = &CartLineResponse{
			ID:        l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     Money(l.UnitPrice),
			Quantity:  l.Quantity,
			Subtotal:  Money(l.Subtotal()),
			Image:     l.ImageRef,
			Slug:      l.Slug,
		}
	}

	return &CartResponse{
		Items:                    items,
		TotalItems:               summary.TotalItems,
		Subtotal:                 Money(summary.Subtotal),
		Shipping:                 Money(summary.Shipping),
		FreeShipping:             summary.FreeShipping,
		RemainingForFreeShipping: Money(summary.RemainingForFreeShipping),
		Total:                    Money(summary.Total),
	}
}
