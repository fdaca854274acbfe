package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mrops-br/chaverito-api/internal/app/service"
	"github.com/mrops-br/chaverito-api/internal/infrastructure/http/response"
)

// CatalogHandler handles HTTP requests for categories, products and offers
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListCategories handles GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, categories)
}

// GetCategory handles GET /categories/{slug}
func (h *CatalogHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetCategoryPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, page)
}

// GetProduct handles GET /products/{slug}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.GetProductPage(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, page)
}

// ListOffers handles GET /offers
func (h *CatalogHandler) ListOffers(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.service.ListOffers(r.Context()))
}
