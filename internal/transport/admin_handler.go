package transport

import (
	"errors"
	"net/http"

	"dealspot/internal/domain"
	"dealspot/internal/middleware"
	"dealspot/internal/repository"
	"dealspot/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest is the admin login payload
type LoginRequest struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued admin token
type LoginResponse struct {
	Token string `json:"token"`
}

// OfferRequest is the purchasable payload of an item request
type OfferRequest struct {
	SellPrice float64 `json:"sell_price" validate:"gte=0"`
	ListPrice float64 `json:"list_price" validate:"gte=0"`
}

// ItemRequest is the authoring payload for create and update
type ItemRequest struct {
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	LongDescription string        `json:"long_description"`
	ImageRef        string        `json:"image_ref"`
	Category        string        `json:"category"`
	Featured        bool          `json:"featured"`
	AffiliateURL    string        `json:"affiliate_url" validate:"omitempty,url"`
	CouponCode      string        `json:"coupon_code"`
	Offer           *OfferRequest `json:"offer"`
}

// SettingsRequest is the admin settings payload
type SettingsRequest struct {
	SiteName string              `json:"site_name"`
	Contact  domain.ContactLinks `json:"contact"`
	AdCodes  domain.AdCodes      `json:"ad_codes"`
}

// PasswordRequest is the admin password-change payload
type PasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// AdminHandler handles the authoring surface: login, item CRUD,
// settings and the dashboard counters
type AdminHandler struct {
	adminService   service.AdminService
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService service.AdminService, catalogService service.CatalogService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		adminService:   adminService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// RegisterRoutes registers all admin routes. authMiddleware gates the
// mutation endpoints; loginLimiter throttles the login endpoint.
func (h *AdminHandler) RegisterRoutes(r chi.Router, authMiddleware, loginLimiter func(http.Handler) http.Handler) {
	r.Route("/api/admin", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(loginLimiter)
			r.Post("/login", h.Login)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/items", h.CreateItem)
			r.Put("/items/{id}", h.UpdateItem)
			r.Delete("/items/{id}", h.DeleteItem)
			r.Get("/settings", h.GetSettings)
			r.Put("/settings", h.UpdateSettings)
			r.Put("/password", h.ChangePassword)
			r.Get("/stats", h.GetStats)
		})
	})
}

// Login exchanges the shared admin secret for a signed token
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := h.adminService.Login(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.logger.Warn("Admin login rejected", zap.String("remote_addr", r.RemoteAddr))
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid password")
			return
		}
		h.logger.Error("Admin login failed", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Info("Admin logged in")
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// CreateItem adds a catalog item
func (h *AdminHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.catalogService.Create(r.Context(), *input)
	if err != nil {
		h.respondItemError(w, err, "Failed to create item")
		return
	}

	h.logger.Info("Catalog item created", zap.String("item_id", item.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, item)
}

// UpdateItem replaces a catalog item's editable fields
func (h *AdminHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	input, ok := h.decodeItem(w, r)
	if !ok {
		return
	}

	item, err := h.catalogService.Update(r.Context(), chi.URLParam(r, "id"), *input)
	if err != nil {
		h.respondItemError(w, err, "Failed to update item")
		return
	}

	h.logger.Info("Catalog item updated", zap.String("item_id", item.ID))
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// DeleteItem removes a catalog item; deleting an absent id succeeds
func (h *AdminHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalogService.Delete(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete item", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Info("Catalog item deleted", zap.String("item_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GetSettings returns the full settings record
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.adminService.Settings(r.Context())
	if err != nil {
		h.logger.Error("Failed to load settings", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, settings)
}

// UpdateSettings amends the settings record
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	settings, err := h.adminService.UpdateSettings(r.Context(), service.SettingsInput{
		SiteName: req.SiteName,
		Contact:  req.Contact,
		AdCodes:  req.AdCodes,
	})
	if err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Info("Site settings updated")
	middleware.RespondWithJSON(w, http.StatusOK, settings)
}

// ChangePassword rotates the shared admin secret
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req PasswordRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
			middleware.RespondWithValidationErrors(w, fields)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.adminService.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid password")
			return
		}
		h.logger.Error("Failed to change admin password", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Info("Admin password changed")
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "password changed"})
}

// GetStats returns the dashboard counters
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		h.logger.Error("Failed to load stats", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, stats)
}

// decodeItem decodes and shape-validates an item payload; business
// rules are the catalog service's
func (h *AdminHandler) decodeItem(w http.ResponseWriter, r *http.Request) (*service.ItemInput, bool) {
	var req ItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if fields := middleware.FormatValidationErrors(err); len(fields) > 0 {
			middleware.RespondWithValidationErrors(w, fields)
			return nil, false
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return nil, false
	}

	input := &service.ItemInput{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		ImageRef:        req.ImageRef,
		Category:        domain.Category(req.Category),
		Featured:        req.Featured,
		AffiliateURL:    req.AffiliateURL,
		CouponCode:      req.CouponCode,
	}
	if req.Offer != nil {
		input.Offer = &domain.Offer{
			SellPrice: req.Offer.SellPrice,
			ListPrice: req.Offer.ListPrice,
		}
	}

	return input, true
}

// respondItemError maps catalog authoring errors onto HTTP statuses
func (h *AdminHandler) respondItemError(w http.ResponseWriter, err error, logMsg string) {
	if errors.Is(err, repository.ErrItemNotFound) {
		middleware.RespondWithError(w, http.StatusNotFound, "item not found")
		return
	}
	if _, ok := service.AsValidationError(err); ok {
		middleware.RespondWithServiceError(w, err)
		return
	}

	h.logger.Error(logMsg, zap.Error(err))
	middleware.RespondWithServiceError(w, err)
}
