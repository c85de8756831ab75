package transport

import (
	"errors"
	"net/http"

	"dealspot/internal/middleware"
	"dealspot/internal/repository"
	"dealspot/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionHeader carries the visitor's cart session id. The handler
// issues a fresh id when the client has none and echoes it back.
const SessionHeader = "X-Cart-Session"

// AddLineRequest is the add-to-cart payload
type AddLineRequest struct {
	ItemID   string `json:"item_id" validate:"required"`
	Quantity int    `json:"quantity"`
}

// SetQuantityRequest is the quantity-change payload. No validation tag:
// zero and negative values are meaningful input the service clamps to 1.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CheckoutRequest is the checkout form payload. Field presence is the
// cart service's business rule so it can enumerate every missing field.
type CheckoutRequest struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	Phone string `json:"phone"`
}

// CartHandler handles the visitor cart and checkout endpoints
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers the cart routes. checkoutLimiter throttles
// the checkout endpoint.
func (h *CartHandler) RegisterRoutes(r chi.Router, checkoutLimiter func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Get("/", h.View)
		r.Post("/items", h.AddLine)
		r.Put("/items/{id}", h.SetQuantity)
		r.Delete("/items/{id}", h.RemoveLine)

		r.Group(func(r chi.Router) {
			r.Use(checkoutLimiter)
			r.Post("/checkout", h.Checkout)
		})
	})
}

// session resolves the cart session id, issuing one when absent, and
// echoes it on the response
func (h *CartHandler) session(w http.ResponseWriter, r *http.Request) string {
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	w.Header().Set(SessionHeader, sessionID)
	return sessionID
}

// View returns the cart resolved against the catalog
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	sessionID := h.session(w, r)

	view, err := h.cartService.View(r.Context(), sessionID)
	if err != nil {
		h.logger.Error("Failed to load cart", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, view)
}

// AddLine adds an item to the cart, merging into an existing line
func (h *CartHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	sessionID := h.session(w, r)

	var req AddLineRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
			middleware.RespondWithValidationErrors(w, fields)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.Add(r.Context(), sessionID, req.ItemID, req.Quantity)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "referenced item not found")
			return
		}
		h.logger.Error("Failed to add cart line", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// SetQuantity changes a line's quantity, clamped to a minimum of 1
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	sessionID := h.session(w, r)

	var req SetQuantityRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cart, err := h.cartService.SetQuantity(r.Context(), sessionID, chi.URLParam(r, "id"), req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrLineNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "cart line not found")
			return
		}
		h.logger.Error("Failed to set cart quantity", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// RemoveLine deletes a line; removing an absent line succeeds
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	sessionID := h.session(w, r)

	cart, err := h.cartService.Remove(r.Context(), sessionID, chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to remove cart line", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, cart)
}

// Checkout validates the customer info and finalizes the order,
// returning the order payload and the outbound redirect
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := h.session(w, r)

	var req CheckoutRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.cartService.Checkout(r.Context(), sessionID, service.CustomerInfo{
		Name:  req.Name,
		City:  req.City,
		Phone: req.Phone,
	})
	if err != nil {
		if errors.Is(err, service.ErrCheckoutInProgress) {
			middleware.RespondWithError(w, http.StatusConflict, "checkout already in progress")
			return
		}
		if _, ok := service.AsValidationError(err); ok {
			middleware.RespondWithServiceError(w, err)
			return
		}
		h.logger.Error("Checkout failed", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Info("Order submitted",
		zap.String("session_id", sessionID),
		zap.Float64("total", result.Order.Total),
		zap.Int("lines", len(result.Order.Lines)),
	)
	middleware.RespondWithJSON(w, http.StatusOK, result)
}
