package domain

import "github.com/shopspring/decimal"

// ShippingPolicy describes the flat shipping fee and the subtotal above
// which shipping is free
type ShippingPolicy struct {
	FreeThreshold decimal.Decimal
	Fee           decimal.Decimal
}

// DefaultShippingPolicy is free shipping from R$ 149,90, R$ 15,90 otherwise
func DefaultShippingPolicy() ShippingPolicy {
	return ShippingPolicy{
		FreeThreshold: decimal.RequireFromString("149.90"),
		Fee:           decimal.RequireFromString("15.90"),
	}
}

// CartSummary holds the order totals shown next to a cart
type CartSummary struct {
	TotalItems               int
	Subtotal                 decimal.Decimal
	Shipping                 decimal.Decimal
	Total                    decimal.Decimal
	RemainingForFreeShipping decimal.Decimal
	FreeShipping             bool
}

// Summarize computes the totals of c under the policy. An empty cart has
// nothing to ship and costs nothing.
func (p ShippingPolicy) Summarize(c *Cart) CartSummary {
	subtotal := c.TotalPrice()
	summary := CartSummary{
		TotalItems:               c.TotalItems(),
		Subtotal:                 subtotal,
		Shipping:                 decimal.Zero,
		RemainingForFreeShipping: decimal.Zero,
	}

	switch {
	case len(c.Lines) == 0:
	case subtotal.GreaterThanOrEqual(p.FreeThreshold):
		summary.FreeShipping = true
	default:
		summary.Shipping = p.Fee
		summary.RemainingForFreeShipping = p.FreeThreshold.Sub(subtotal)
	}

	summary.Total = subtotal.Add(summary.Shipping)
	return summary
}
