package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func product(price, sale string, stock int) *Product {
	p := &Product{
		ID:            "prod-1",
		Name:          "Chaveiro Stitch",
		Slug:          "stitch-classic",
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
	if sale != "" {
		p.SalePrice = decimal.NewNullDecimal(decimal.RequireFromString(sale))
	}
	return p
}

func TestProduct_EffectivePrice(t *testing.T) {
	assert.Equal(t, "24.90", product("29.90", "24.90", 5).EffectivePrice().StringFixed(2))
	assert.Equal(t, "29.90", product("29.90", "", 5).EffectivePrice().StringFixed(2))
	// a zero sale price does not count as a sale
	assert.Equal(t, "29.90", product("29.90", "0", 5).EffectivePrice().StringFixed(2))
}

func TestProduct_DiscountPercent(t *testing.T) {
	tests := []struct {
		price, sale string
		want        int
	}{
		{"29.90", "24.90", 17},
		{"100", "50", 50},
		{"89.70", "59.80", 33},
		{"29.90", "", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, product(tt.price, tt.sale, 1).DiscountPercent(), "%s -> %s", tt.price, tt.sale)
	}
}

func TestProduct_Stock(t *testing.T) {
	p := product("10", "", 3)
	assert.True(t, p.LowStock())
	assert.False(t, p.SoldOut())

	assert.ErrorIs(t, p.CheckPurchasable(4), ErrInsufficientStock)
	assert.ErrorIs(t, p.CheckPurchasable(0), ErrInvalidQuantity)
	assert.NoError(t, p.CheckPurchasable(3))

	assert.ErrorIs(t, product("10", "", 0).CheckPurchasable(1), ErrProductSoldOut)
	assert.False(t, product("10", "", 25).LowStock())
}

func TestProduct_CartLineInput(t *testing.T) {
	in := product("29.90", "24.90", 5).CartLineInput()
	assert.Equal(t, "prod-1", in.ProductID)
	assert.Equal(t, "prod-1", in.LineID)
	assert.Equal(t, "24.90", in.UnitPrice.StringFixed(2))
	assert.Equal(t, PlaceholderImage, in.ImageRef)
	assert.Equal(t, "stitch-classic", in.Slug)
}

func TestProduct_Validate(t *testing.T) {
	assert.ErrorIs(t, product("0", "", 1).Validate(), ErrInvalidProductPrice)
	assert.NoError(t, product("1", "", 1).Validate())
}

func TestShippingPolicy_Summarize(t *testing.T) {
	policy := DefaultShippingPolicy()

	t.Run("empty cart", func(t *testing.T) {
		s := policy.Summarize(NewCart(nil))
		assert.Equal(t, "0.00", s.Total.StringFixed(2))
		assert.Equal(t, "0.00", s.Shipping.StringFixed(2))
		assert.False(t, s.FreeShipping)
	})

	t.Run("below threshold", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(line("p1", "29.90"), 2)
		c.Add(line("p2", "34.90"), 1)
		s := policy.Summarize(c)
		assert.Equal(t, 3, s.TotalItems)
		assert.Equal(t, "94.70", s.Subtotal.StringFixed(2))
		assert.Equal(t, "15.90", s.Shipping.StringFixed(2))
		assert.Equal(t, "110.60", s.Total.StringFixed(2))
		assert.Equal(t, "55.20", s.RemainingForFreeShipping.StringFixed(2))
	})

	t.Run("at threshold", func(t *testing.T) {
		c := NewCart(nil)
		c.Add(line("p1", "149.90"), 1)
		s := policy.Summarize(c)
		assert.True(t, s.FreeShipping)
		assert.Equal(t, "149.90", s.Total.StringFixed(2))
		assert.True(t, s.RemainingForFreeShipping.IsZero())
	})
}

func TestFormatBRL(t *testing.T) {
	assert.Equal(t, "149,90", FormatBRL(decimal.RequireFromString("149.9")))
	assert.Equal(t, "1.234,56", FormatBRL(decimal.RequireFromString("1234.56")))
	assert.Equal(t, "0,00", FormatBRL(decimal.Zero))
	assert.Equal(t, "-12,30", FormatBRL(decimal.RequireFromString("-12.3")))
}

func TestDefaultOffers(t *testing.T) {
	offers := DefaultOffers(DefaultShippingPolicy())
	assert.Len(t, offers, 3)
	assert.Contains(t, offers[1].Description, "R$ 149,90")
}
