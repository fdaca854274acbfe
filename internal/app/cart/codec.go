package cart

import (
	"encoding/json"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

// storedLine is the persisted shape of a cart line
type storedLine struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     json.RawMessage `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image"`
	Slug      string          `json:"slug"`
}

// Encode serializes lines to the stored JSON array. An empty cart is
// encoded as "[]".
func Encode(lines []domain.CartLine) (string, error) {
	out := make([]storedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, storedLine{
			ID:        l.LineID,
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     json.RawMessage(l.UnitPrice.String()),
			Quantity:  l.Quantity,
			Image:     l.ImageRef,
			Slug:      l.Slug,
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return "", errors.Wrap(err, "encode cart")
	}
	return string(data), nil
}

// Decode parses a stored JSON array back into lines
func Decode(data string) ([]domain.CartLine, error) {
	var in []storedLine
	if err := json.Unmarshal([]byte(data), &in); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	lines := make([]domain.CartLine, 0, len(in))
	for i, s := range in {
		price, err := decodePrice(s.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "decode cart line %d", i)
		}
		lines = append(lines, domain.CartLine{
			LineID:    s.ID,
			ProductID: s.ProductID,
			Name:      s.Name,
			UnitPrice: price,
			Quantity:  s.Quantity,
			ImageRef:  s.Image,
			Slug:      s.Slug,
		})
	}
	return lines, nil
}

// decodePrice accepts a JSON number or a quoted decimal string
func decodePrice(raw json.RawMessage) (decimal.Decimal, error) {
	if len(raw) == 0 {
		return decimal.Decimal{}, errors.New("missing price")
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		return decimal.Decimal{}, errors.Wrap(err, "price")
	}
	return d, nil
}
