package transport

import (
	"errors"
	"net/http"

	"dealspot/internal/domain"
	"dealspot/internal/middleware"
	"dealspot/internal/notify"
	"dealspot/internal/repository"
	"dealspot/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CatalogHandler handles the public storefront item endpoints
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers the public item routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/featured", h.Featured)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/view", h.RecordView)
		r.Get("/{id}/offer", h.RevealOffer)
	})
}

// List returns the catalog newest-first, optionally filtered by category
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	category := domain.Category(r.URL.Query().Get("category"))
	if category != "" && !category.Valid() {
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown category")
		return
	}

	items, err := h.catalogService.List(r.Context(), category)
	if err != nil {
		h.logger.Error("Failed to list items", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Featured returns the hero-slot item
func (h *CatalogHandler) Featured(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalogService.Featured(r.Context())
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "no featured item")
			return
		}
		h.logger.Error("Failed to load featured item", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Get returns a single item
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalogService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to get item", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// RecordView bumps the item's view counter
func (h *CatalogHandler) RecordView(w http.ResponseWriter, r *http.Request) {
	count, err := h.catalogService.RecordView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to record view", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int64{"view_count": count})
}

// RevealOffer returns the item's outbound affiliate redirect and coupon
func (h *CatalogHandler) RevealOffer(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalogService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "item not found")
			return
		}
		h.logger.Error("Failed to get item for offer", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	redirect, err := notify.RevealOffer(item)
	if err != nil {
		middleware.RespondWithError(w, http.StatusNotFound, "item has no outbound offer")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, redirect)
}
