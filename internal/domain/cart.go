package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceholderImage is used when a product has no image of its own.
const PlaceholderImage = "🔑"

// CartLineInput is the product data captured when something is added to a cart
type CartLineInput struct {
	LineID    string
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	ImageRef  string
	Slug      string
}

// CartLine represents one product entry in a cart
type CartLine struct {
	LineID    string
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageRef  string
	Slug      string
}

// Subtotal returns unit price times quantity
func (l CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is an ordered list of lines, unique by product ID.
// Every line has Quantity >= 1.
type Cart struct {
	Lines []CartLine
}

// NewCart builds a cart from previously stored lines. Lines with a
// non-positive quantity are dropped and repeated product IDs are merged
// into their first occurrence.
func NewCart(lines []CartLine) *Cart {
	c := &Cart{Lines: make([]CartLine, 0, len(lines))}
	for _, l := range lines {
		if l.Quantity < 1 {
			continue
		}
		if i := c.index(l.ProductID); i >= 0 {
			c.Lines[i].Quantity += l.Quantity
			continue
		}
		c.Lines = append(c.Lines, l)
	}
	return c
}

func (c *Cart) index(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Find returns the line for productID
func (c *Cart) Find(productID string) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c.Lines[i], true
	}
	return CartLine{}, false
}

// Add merges quantity into the line for item.ProductID, or appends a new
// line. Quantities are cumulative and may be negative; a line whose
// quantity drops below 1 is removed, and a new line is only created for a
// positive quantity.
func (c *Cart) Add(item CartLineInput, quantity int) {
	if i := c.index(item.ProductID); i >= 0 {
		c.Lines[i].Quantity += quantity
		if c.Lines[i].Quantity < 1 {
			c.removeAt(i)
		}
		return
	}
	if quantity < 1 {
		return
	}

	lineID := item.LineID
	if lineID == "" {
		lineID = uuid.NewString()
	}
	image := item.ImageRef
	if image == "" {
		image = PlaceholderImage
	}

	c.Lines = append(c.Lines, CartLine{
		LineID:    lineID,
		ProductID: item.ProductID,
		Name:      item.Name,
		UnitPrice: item.UnitPrice,
		Quantity:  quantity,
		ImageRef:  image,
		Slug:      item.Slug,
	})
}

// Remove drops the line for productID and reports whether it existed
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// SetQuantity sets the quantity of the line for productID. A quantity of
// zero or less removes the line. It reports whether the cart changed.
func (c *Cart) SetQuantity(productID string, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.Lines[i].Quantity = quantity
	return true
}

// Clear removes all lines
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
}

// TotalItems is the sum of all quantities
func (c *Cart) TotalItems() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice is the sum of unit price times quantity over all lines
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Snapshot returns a copy of the lines that shares no memory with the cart
func (c *Cart) Snapshot() []CartLine {
	out := make([]CartLine, len(c.Lines))
	copy(out, c.Lines)
	return out
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
}
