package transport

import (
	"net/http"

	"dealspot/internal/middleware"
	"dealspot/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SiteHandler exposes the public site settings and the visit counter
type SiteHandler struct {
	adminService service.AdminService
	logger       *zap.Logger
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(adminService service.AdminService, logger *zap.Logger) *SiteHandler {
	return &SiteHandler{
		adminService: adminService,
		logger:       logger,
	}
}

// RegisterRoutes registers the public site routes
func (h *SiteHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/site", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/visit", h.RecordVisit)
	})
}

// Get returns branding, contact links and ad codes for the storefront
func (h *SiteHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.adminService.Settings(r.Context())
	if err != nil {
		h.logger.Error("Failed to load site settings", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, settings.Public())
}

// RecordVisit bumps the site visit counter
func (h *SiteHandler) RecordVisit(w http.ResponseWriter, r *http.Request) {
	count, err := h.adminService.RecordVisit(r.Context())
	if err != nil {
		h.logger.Error("Failed to record visit", zap.Error(err))
		middleware.RespondWithServiceError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]int64{"visit_count": count})
}
