package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/chaverito-api/internal/app/cart"
	"github.com/mrops-br/chaverito-api/internal/app/dto"
	"github.com/mrops-br/chaverito-api/internal/app/service"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/http/response"
)

// CartHandler handles HTTP requests for the shopper's cart. The cart store
// is taken from the request context.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger,
	}
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	store, err := cart.FromContext(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Cart route mounted without session middleware",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusInternalServerError, err)
		return nil, false
	}
	return store, true
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	response.JSON(w, http.StatusOK, h.service.View(store))
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req dto.AddCartItemRequest
	if err := response.Decode(w, r, &req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	resp, err := h.service.AddProduct(r.Context(), store, &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, resp)
}

// UpdateItem handles PATCH /cart/items/{productId}
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	var req dto.UpdateCartItemRequest
	if err := response.Decode(w, r, &req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	resp, err := h.service.UpdateQuantity(r.Context(), store, chi.URLParam(r, "productId"), req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// RemoveItem handles DELETE /cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Remove(r.Context(), store, chi.URLParam(r, "productId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Clear(r.Context(), store)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, resp)
}
