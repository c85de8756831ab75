package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dealspot/internal/domain"
	"dealspot/internal/storage"
)

var (
	ErrItemNotFound  = errors.New("catalog item not found")
	ErrDuplicateItem = errors.New("catalog item id already exists")
)

// CatalogRepository defines the interface for catalog item access.
// The item list is held in memory and snapshotted through the
// persistence gateway on every mutation.
type CatalogRepository interface {
	List(ctx context.Context) []domain.CatalogItem
	FindByID(ctx context.Context, id string) (*domain.CatalogItem, error)
	Add(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, item *domain.CatalogItem) error
	Remove(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) (int64, error)
}

type catalogRepository struct {
	store storage.Store

	mu    sync.RWMutex
	items []domain.CatalogItem
}

// NewCatalogRepository creates a CatalogRepository, restoring any prior
// snapshot. An absent snapshot means an empty catalog; a corrupt one is
// surfaced, not discarded.
func NewCatalogRepository(ctx context.Context, store storage.Store) (CatalogRepository, error) {
	r := &catalogRepository{store: store}

	if _, err := store.Load(ctx, storage.KeyCatalog, &r.items); err != nil {
		return nil, fmt.Errorf("failed to restore catalog: %w", err)
	}

	return r, nil
}

// List returns all items, newest first
func (r *catalogRepository) List(ctx context.Context) []domain.CatalogItem {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.CatalogItem, len(r.items))
	copy(out, r.items)
	return out
}

// FindByID retrieves an item by id
func (r *catalogRepository) FindByID(ctx context.Context, id string) (*domain.CatalogItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.items {
		if r.items[i].ID == id {
			item := r.items[i]
			return &item, nil
		}
	}

	return nil, ErrItemNotFound
}

// Add prepends a new item so the listing stays newest-first
func (r *catalogRepository) Add(ctx context.Context, item *domain.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == item.ID {
			return ErrDuplicateItem
		}
	}

	r.items = append([]domain.CatalogItem{*item}, r.items...)
	return r.persist(ctx)
}

// Update replaces the stored item with the same id
func (r *catalogRepository) Update(ctx context.Context, item *domain.CatalogItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == item.ID {
			r.items[i] = *item
			return r.persist(ctx)
		}
	}

	return ErrItemNotFound
}

// Remove deletes the item with the given id. Removing an absent id is a
// no-op, not an error.
func (r *catalogRepository) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return r.persist(ctx)
		}
	}

	return nil
}

// IncrementViews bumps the item's view counter and returns the new count
func (r *catalogRepository) IncrementViews(ctx context.Context, id string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].ViewCount++
			if err := r.persist(ctx); err != nil {
				return 0, err
			}
			return r.items[i].ViewCount, nil
		}
	}

	return 0, ErrItemNotFound
}

// persist snapshots the full item list. Callers must hold the write lock.
func (r *catalogRepository) persist(ctx context.Context) error {
	if err := r.store.Save(ctx, storage.KeyCatalog, r.items); err != nil {
		return fmt.Errorf("failed to snapshot catalog: %w", err)
	}
	return nil
}
