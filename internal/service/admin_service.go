package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dealspot/internal/domain"
	"dealspot/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid admin password")
)

// SettingsInput carries the admin-editable settings fields. The
// password is changed through ChangePassword, never here.
type SettingsInput struct {
	SiteName string
	Contact  domain.ContactLinks
	AdCodes  domain.AdCodes
}

// Stats summarizes the counters the admin dashboard shows
type Stats struct {
	VisitCount    int64   `json:"visit_count"`
	EarningsTotal float64 `json:"earnings_total"`
	ItemCount     int     `json:"item_count"`
}

// AdminService gates the authoring surface behind the shared admin
// secret and owns the site settings record
type AdminService interface {
	Login(ctx context.Context, password string) (string, error)
	Settings(ctx context.Context) (*domain.SiteSettings, error)
	UpdateSettings(ctx context.Context, input SettingsInput) (*domain.SiteSettings, error)
	ChangePassword(ctx context.Context, current, updated string) error
	RecordVisit(ctx context.Context) (int64, error)
	Stats(ctx context.Context) (*Stats, error)
}

type adminService struct {
	settingsRepo repository.SettingsRepository
	catalogRepo  repository.CatalogRepository
	jwtSecret    string
	tokenExpiry  time.Duration
}

// NewAdminService creates a new instance of AdminService
func NewAdminService(
	settingsRepo repository.SettingsRepository,
	catalogRepo repository.CatalogRepository,
	jwtSecret string,
	tokenExpiryMinutes int,
) AdminService {
	return &adminService{
		settingsRepo: settingsRepo,
		catalogRepo:  catalogRepo,
		jwtSecret:    jwtSecret,
		tokenExpiry:  time.Duration(tokenExpiryMinutes) * time.Minute,
	}
}

// NewDefaultSettings builds the first-run settings record, hashing the
// configured default admin password
func NewDefaultSettings(defaultPassword string) (*domain.SiteSettings, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash default admin password: %w", err)
	}

	return &domain.SiteSettings{
		SiteName:          "DealSpot",
		AdminPasswordHash: string(hash),
	}, nil
}

// Login checks the shared admin secret and issues a short-lived signed
// token for the authoring surface
func (s *adminService) Login(ctx context.Context, password string) (string, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load settings: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(settings.AdminPasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(s.tokenExpiry)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign admin token: %w", err)
	}

	return signed, nil
}

// Settings returns the full settings record, including admin-only fields
func (s *adminService) Settings(ctx context.Context) (*domain.SiteSettings, error) {
	return s.settingsRepo.Get(ctx)
}

// UpdateSettings amends the editable settings fields in place
func (s *adminService) UpdateSettings(ctx context.Context, input SettingsInput) (*domain.SiteSettings, error) {
	if strings.TrimSpace(input.SiteName) == "" {
		ve := &ValidationError{}
		ve.add("site_name", "site name is required")
		return nil, ve
	}

	return s.settingsRepo.Update(ctx, func(settings *domain.SiteSettings) {
		settings.SiteName = strings.TrimSpace(input.SiteName)
		settings.Contact = input.Contact
		settings.AdCodes = input.AdCodes
	})
}

// ChangePassword verifies the current password before storing the hash
// of the new one
func (s *adminService) ChangePassword(ctx context.Context, current, updated string) error {
	if strings.TrimSpace(updated) == "" {
		ve := &ValidationError{}
		ve.add("new_password", "new password is required")
		return ve
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(settings.AdminPasswordHash), []byte(current)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(updated), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	if _, err := s.settingsRepo.Update(ctx, func(settings *domain.SiteSettings) {
		settings.AdminPasswordHash = string(hash)
	}); err != nil {
		return err
	}

	return nil
}

// RecordVisit bumps the site visit counter
func (s *adminService) RecordVisit(ctx context.Context) (int64, error) {
	settings, err := s.settingsRepo.Update(ctx, func(settings *domain.SiteSettings) {
		settings.VisitCount++
	})
	if err != nil {
		return 0, err
	}

	return settings.VisitCount, nil
}

// Stats reports the dashboard counters
func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		VisitCount:    settings.VisitCount,
		EarningsTotal: settings.EarningsTotal,
		ItemCount:     len(s.catalogRepo.List(ctx)),
	}, nil
}
