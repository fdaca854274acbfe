package domain

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrProductSoldOut      = errors.New("product is sold out")
	ErrInsufficientStock   = errors.New("requested quantity exceeds stock")
	ErrInvalidQuantity     = errors.New("quantity must be at least 1")
	ErrInvalidProductPrice = errors.New("product price must be positive")
)

// LowStockThreshold is the stock level under which a product shows a
// "only N left" warning
const LowStockThreshold = 10

// Category groups products by character theme
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	ColorTheme  string
	IsActive    bool
	SortOrder   int
}

// Product represents a keychain in the catalog
type Product struct {
	ID               string
	CategoryID       string
	Name             string
	Slug             string
	Description      string
	ShortDescription string
	Price            decimal.Decimal
	SalePrice        decimal.NullDecimal
	StockQuantity    int
	Dimensions       string
	WeightGrams      int
	IsActive         bool
	SortOrder        int
	ImageRef         string
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if !p.Price.IsPositive() {
		return ErrInvalidProductPrice
	}
	return nil
}

// OnSale reports whether a positive sale price is set
func (p *Product) OnSale() bool {
	return p.SalePrice.Valid && p.SalePrice.Decimal.IsPositive()
}

// EffectivePrice is the sale price when the product is on sale, the list
// price otherwise
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OnSale() {
		return p.SalePrice.Decimal
	}
	return p.Price
}

// DiscountPercent returns the rounded percentage off the list price, or 0
// when the product is not on sale
func (p *Product) DiscountPercent() int {
	if !p.OnSale() || !p.Price.IsPositive() {
		return 0
	}
	off := p.Price.Sub(p.SalePrice.Decimal).Div(p.Price).Mul(decimal.NewFromInt(100))
	return int(off.Round(0).IntPart())
}

// SoldOut reports whether there is no stock left
func (p *Product) SoldOut() bool {
	return p.StockQuantity <= 0
}

// LowStock reports whether the stock is below LowStockThreshold
func (p *Product) LowStock() bool {
	return p.StockQuantity < LowStockThreshold
}

// CheckPurchasable validates that quantity units can be added to a cart
func (p *Product) CheckPurchasable(quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	if p.SoldOut() {
		return ErrProductSoldOut
	}
	if quantity > p.StockQuantity {
		return ErrInsufficientStock
	}
	return nil
}

// CartLineInput captures the product as a cart line at its current
// effective price
func (p *Product) CartLineInput() CartLineInput {
	image := p.ImageRef
	if image == "" {
		image = PlaceholderImage
	}
	return CartLineInput{
		LineID:    p.ID,
		ProductID: p.ID,
		Name:      p.Name,
		UnitPrice: p.EffectivePrice(),
		ImageRef:  image,
		Slug:      p.Slug,
	}
}

// Offer is a storewide promotion
type Offer struct {
	ID            int
	Title         string
	Description   string
	Badge         string
	OriginalPrice decimal.Decimal
	SalePrice     decimal.Decimal
	Category      string
	Color         string
}

// DefaultOffers returns the current promotions
func DefaultOffers(shipping ShippingPolicy) []Offer {
	return []Offer{
		{
			ID:            1,
			Title:         "Combo 3 Chaveiros",
			Description:   "Leve 3 chaveiros e pague apenas 2! Escolha entre qualquer categoria.",
			Badge:         "33% OFF",
			OriginalPrice: decimal.RequireFromString("89.70"),
			SalePrice:     decimal.RequireFromString("59.80"),
			Category:      "Combo",
			Color:         "hsl(var(--themes-stitch))",
		},
		{
			ID:          2,
			Title:       "Frete Grátis",
			Description: "Frete grátis para compras acima de R$ " + FormatBRL(shipping.FreeThreshold) + " em todo o Brasil.",
			Badge:       "FRETE GRÁTIS",
			Category:    "Promoção",
			Color:       "hsl(var(--success))",
		},
		{
			ID:          3,
			Title:       "Primeira Compra",
			Description: "15% de desconto na sua primeira compra. Use o cupom: PRIMEIRA15",
			Badge:       "15% OFF",
			Category:    "Cupom",
			Color:       "hsl(var(--themes-pokemon))",
		},
	}
}
