package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrops-br/chaverito-api/internal/domain"
)

func TestEncode_Layout(t *testing.T) {
	c := domain.NewCart(nil)
	c.Add(item("p1", "29.90"), 2)

	data, err := Encode(c.Lines)
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":"p1","productId":"p1","name":"Chaveiro p1","price":29.9,"quantity":2,"image":"🔑","slug":"p1"}]`,
		data,
	)
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", data)
}

func TestDecode_BrowserFormat(t *testing.T) {
	// shape written by the web storefront into local storage
	raw := `[
		{"id":"a1","productId":"a1","name":"Chaveiro Stitch Fofo","price":29.9,"quantity":2,"image":"🔑","slug":"stitch-classic"},
		{"id":"b2","productId":"b2","name":"Chaveiro Toothless","price":"34.90","quantity":1,"image":"/assets/toothless.jpg","slug":"toothless-night-fury"}
	]`

	lines, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "29.90", lines[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "34.90", lines[1].UnitPrice.StringFixed(2))
	assert.Equal(t, "toothless-night-fury", lines[1].Slug)
	assert.Equal(t, 1, lines[1].Quantity)
}

func TestDecode_Invalid(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`not json`,
		`[{"productId":"p1","quantity":1}]`,
		`[{"productId":"p1","price":"abc","quantity":1}]`,
	} {
		_, err := Decode(raw)
		assert.Error(t, err, raw)
	}
}
