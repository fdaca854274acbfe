package dto

import (
	"github.com/mrops-br/chaverito-api/internal/domain"
)

// CategoryResponse represents a category in the catalog
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ColorTheme  string `json:"color_theme"`
}

// ProductResponse represents a product card or detail page
type ProductResponse struct {
	ID               string `json:"id"`
	CategoryID       string `json:"category_id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	Price            string `json:"price"`
	SalePrice        string `json:"sale_price,omitempty"`
	EffectivePrice   string `json:"effective_price"`
	DiscountPercent  int    `json:"discount_percent,omitempty"`
	StockQuantity    int    `json:"stock_quantity"`
	LowStock         bool   `json:"low_stock"`
	SoldOut          bool   `json:"sold_out"`
	Dimensions       string `json:"dimensions,omitempty"`
	WeightGrams      int    `json:"weight_grams,omitempty"`
	Image            string `json:"image"`
}

// CategoryPageResponse is a category with its products
type CategoryPageResponse struct {
	Category *CategoryResponse  `json:"category"`
	Products []*ProductResponse `json:"products"`
}

// ProductPageResponse is a product with the category it belongs to
type ProductPageResponse struct {
	Product  *ProductResponse  `json:"product"`
	Category *CategoryResponse `json:"category,omitempty"`
}

// OfferResponse represents a storewide promotion
type OfferResponse struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Badge         string `json:"discount"`
	OriginalPrice string `json:"original_price,omitempty"`
	SalePrice     string `json:"sale_price,omitempty"`
	Category      string `json:"category"`
	Color         string `json:"color"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *domain.Category) *CategoryResponse {
	if c == nil {
		return nil
	}
	return &CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ColorTheme:  c.ColorTheme,
	}
}

// ToCategoryResponseList converts a list of domain Categories
func ToCategoryResponseList(categories []*domain.Category) []*CategoryResponse {
	responses := make([]*CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = ToCategoryResponse(c)
	}
	return responses
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	resp := &ProductResponse{
		ID:               p.ID,
		CategoryID:       p.CategoryID,
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Price:            Money(p.Price),
		EffectivePrice:   Money(p.EffectivePrice()),
		DiscountPercent:  p.DiscountPercent(),
		StockQuantity:    p.StockQuantity,
		LowStock:         p.LowStock(),
		SoldOut:          p.SoldOut(),
		Dimensions:       p.Dimensions,
		WeightGrams:      p.WeightGrams,
		Image:            p.ImageRef,
	}
	if p.OnSale() {
		resp.SalePrice = Money(p.SalePrice.Decimal)
	}
	if resp.Image == "" {
		resp.Image = domain.PlaceholderImage
	}
	return resp
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []*domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i, p := range products {
		responses[i] = ToProductResponse(p)
	}
	return responses
}

// ToOfferResponseList converts the promotions
func ToOfferResponseList(offers []domain.Offer) []*OfferResponse {
	responses := make([]*OfferResponse, len(offers))
	for i, o := range offers {
		r := &OfferResponse{
			ID:          o.ID,
			Title:       o.Title,
			Description: o.Description,
			Badge:       o.Badge,
			Category:    o.Category,
			Color:       o.Color,
		}
		if o.OriginalPrice.IsPositive() {
			r.OriginalPrice = Money(o.OriginalPrice)
			r.SalePrice = Money(o.SalePrice)
		}
		responses[i] = r
	}
	return responses
}
