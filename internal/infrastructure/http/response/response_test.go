package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode(t *testing.T) {
	assert.Equal(t, "not_found", Code(http.StatusNotFound))
	assert.Equal(t, "bad_request", Code(http.StatusBadRequest))
	assert.Equal(t, "conflict", Code(http.StatusConflict))
	assert.Equal(t, "internal_server_error", Code(http.StatusInternalServerError))
	assert.Equal(t, "error", Code(599))
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusConflict, errors.Wrap(errors.New("sold out"), "add to cart"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, ErrorResponse{Error: "conflict", Message: "add to cart: sold out", Status: 409}, body)
}

func TestDecode(t *testing.T) {
	var dst struct {
		Quantity int `json:"quantity"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":3}`))
	require.NoError(t, Decode(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, 3, dst.Quantity)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"quantity":`))
	assert.ErrorContains(t, Decode(httptest.NewRecorder(), r, &dst), "decode request body")

	big := `{"quantity":1,"pad":"` + strings.Repeat("x", MaxBodyBytes) + `"}`
	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.Error(t, Decode(httptest.NewRecorder(), r, &dst))
}
