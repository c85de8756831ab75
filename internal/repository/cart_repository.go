package repository

import (
	"context"
	"fmt"
	"time"

	"dealspot/internal/domain"
	"dealspot/internal/storage"
)

// CartRepository defines the interface for per-session cart snapshots
type CartRepository interface {
	Find(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Clear(ctx context.Context, sessionID string) error
}

type cartRepository struct {
	store storage.Store
}

// NewCartRepository creates a CartRepository backed by the persistence
// gateway. Carts are stored one record per visitor session.
func NewCartRepository(store storage.Store) CartRepository {
	return &cartRepository{store: store}
}

// Find loads the session's cart. An absent record is an empty cart, not
// an error.
func (r *cartRepository) Find(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart := &domain.Cart{SessionID: sessionID}

	found, err := r.store.Load(ctx, storage.CartKey(sessionID), cart)
	if err != nil {
		return nil, fmt.Errorf("failed to restore cart: %w", err)
	}
	if !found {
		return &domain.Cart{SessionID: sessionID}, nil
	}

	// The stored session id wins only if present; older snapshots may
	// predate the field.
	if cart.SessionID == "" {
		cart.SessionID = sessionID
	}

	return cart, nil
}

// Save snapshots the cart under its session key
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	cart.UpdatedAt = time.Now()

	if err := r.store.Save(ctx, storage.CartKey(cart.SessionID), cart); err != nil {
		return fmt.Errorf("failed to snapshot cart: %w", err)
	}

	return nil
}

// Clear deletes the session's cart record; idempotent
func (r *cartRepository) Clear(ctx context.Context, sessionID string) error {
	if err := r.store.Delete(ctx, storage.CartKey(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
