package repository

import (
	"context"
	"fmt"
	"sync"

	"dealspot/internal/domain"
	"dealspot/internal/storage"
)

// SettingsRepository defines the interface for the single site-wide
// settings record
type SettingsRepository interface {
	Get(ctx context.Context) (*domain.SiteSettings, error)
	Save(ctx context.Context, settings *domain.SiteSettings) error

	// Update applies mutate under the write lock, serializing
	// read-modify-write cycles such as counter bumps, then snapshots
	Update(ctx context.Context, mutate func(*domain.SiteSettings)) (*domain.SiteSettings, error)
}

type settingsRepository struct {
	store storage.Store

	mu       sync.RWMutex
	settings *domain.SiteSettings
}

// NewSettingsRepository creates a SettingsRepository, restoring the
// stored record or seeding defaults when none exists
func NewSettingsRepository(ctx context.Context, store storage.Store, defaults *domain.SiteSettings) (SettingsRepository, error) {
	r := &settingsRepository{store: store}

	var stored domain.SiteSettings
	found, err := store.Load(ctx, storage.KeySettings, &stored)
	if err != nil {
		return nil, fmt.Errorf("failed to restore site settings: %w", err)
	}

	if found {
		r.settings = &stored
		return r, nil
	}

	r.settings = defaults
	if err := store.Save(ctx, storage.KeySettings, defaults); err != nil {
		return nil, fmt.Errorf("failed to seed default site settings: %w", err)
	}

	return r, nil
}

// Get returns a copy of the current settings
func (r *settingsRepository) Get(ctx context.Context) (*domain.SiteSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings := *r.settings
	return &settings, nil
}

// Save replaces the settings record and snapshots it
func (r *settingsRepository) Save(ctx context.Context, settings *domain.SiteSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.store.Save(ctx, storage.KeySettings, settings); err != nil {
		return fmt.Errorf("failed to snapshot site settings: %w", err)
	}

	updated := *settings
	r.settings = &updated
	return nil
}

// Update applies mutate to the current record and snapshots the result
func (r *settingsRepository) Update(ctx context.Context, mutate func(*domain.SiteSettings)) (*domain.SiteSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := *r.settings
	mutate(&updated)

	if err := r.store.Save(ctx, storage.KeySettings, &updated); err != nil {
		return nil, fmt.Errorf("failed to snapshot site settings: %w", err)
	}

	r.settings = &updated
	result := updated
	return &result, nil
}
