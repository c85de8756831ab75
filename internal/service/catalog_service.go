package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dealspot/internal/domain"
	"dealspot/internal/repository"

	"github.com/google/uuid"
)

// ItemInput carries the author-editable fields of a catalog item
type ItemInput struct {
	Title           string
	Description     string
	LongDescription string
	ImageRef        string
	Category        domain.Category
	Featured        bool
	AffiliateURL    string
	CouponCode      string
	Offer           *domain.Offer
}

// CatalogService defines the business operations over the catalog
type CatalogService interface {
	List(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error)
	Get(ctx context.Context, id string) (*domain.CatalogItem, error)
	Featured(ctx context.Context) (*domain.CatalogItem, error)
	Create(ctx context.Context, input ItemInput) (*domain.CatalogItem, error)
	Update(ctx context.Context, id string, input ItemInput) (*domain.CatalogItem, error)
	Delete(ctx context.Context, id string) error
	RecordView(ctx context.Context, id string) (int64, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

// List returns all items newest-first, optionally filtered by category
func (s *catalogService) List(ctx context.Context, category domain.Category) ([]domain.CatalogItem, error) {
	items := s.catalogRepo.List(ctx)

	if category == "" {
		return items, nil
	}

	filtered := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

// Get retrieves a single item
func (s *catalogService) Get(ctx context.Context, id string) (*domain.CatalogItem, error) {
	return s.catalogRepo.FindByID(ctx, id)
}

// Featured returns the item shown in the hero slot. The store does not
// enforce single-item featuring; the first flagged item wins.
func (s *catalogService) Featured(ctx context.Context) (*domain.CatalogItem, error) {
	for _, item := range s.catalogRepo.List(ctx) {
		if item.Featured {
			found := item
			return &found, nil
		}
	}
	return nil, repository.ErrItemNotFound
}

// Create validates the input, assigns a fresh id and stores the item
func (s *catalogService) Create(ctx context.Context, input ItemInput) (*domain.CatalogItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	item := &domain.CatalogItem{
		ID:              uuid.New().String(),
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		LongDescription: input.LongDescription,
		ImageRef:        input.ImageRef,
		Category:        input.Category,
		CreatedAt:       time.Now(),
		Featured:        input.Featured,
		AffiliateURL:    input.AffiliateURL,
		CouponCode:      input.CouponCode,
		Offer:           input.Offer,
	}

	if err := s.catalogRepo.Add(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create catalog item: %w", err)
	}

	return item, nil
}

// Update validates the input and replaces the item's editable fields,
// preserving its identity, creation date and view counter
func (s *catalogService) Update(ctx context.Context, id string, input ItemInput) (*domain.CatalogItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}

	existing, err := s.catalogRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := &domain.CatalogItem{
		ID:              existing.ID,
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		LongDescription: input.LongDescription,
		ImageRef:        input.ImageRef,
		Category:        input.Category,
		CreatedAt:       existing.CreatedAt,
		ViewCount:       existing.ViewCount,
		Featured:        input.Featured,
		AffiliateURL:    input.AffiliateURL,
		CouponCode:      input.CouponCode,
		Offer:           input.Offer,
	}

	if err := s.catalogRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the item; deleting an absent id is a no-op
func (s *catalogService) Delete(ctx context.Context, id string) error {
	return s.catalogRepo.Remove(ctx, id)
}

// RecordView bumps the item's view counter
func (s *catalogService) RecordView(ctx context.Context, id string) (int64, error) {
	return s.catalogRepo.IncrementViews(ctx, id)
}

// validateItemInput enforces the authoring rules: title and long-form
// content must be present, and the category must be a known tag
func validateItemInput(input ItemInput) error {
	var ve ValidationError

	if strings.TrimSpace(input.Title) == "" {
		ve.add("title", "title is required")
	}
	if strings.TrimSpace(input.LongDescription) == "" {
		ve.add("long_description", "content is required")
	}
	if input.Category != "" && !input.Category.Valid() {
		ve.add("category", "unknown category")
	}

	return ve.orNil()
}
