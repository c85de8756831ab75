package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Storage key layout. Carts are namespaced per visitor session under
// CartKeyPrefix; everything else is a single record.
const (
	KeyCatalog       = "catalog:items"
	KeySettings      = "site:settings"
	KeySchemaVersion = "schema:version"
	CartKeyPrefix    = "cart:"
)

var (
	// ErrCorruptState marks a stored value that exists but cannot be
	// deserialized. Callers must fail closed rather than apply defaults.
	ErrCorruptState = errors.New("corrupt stored state")

	// ErrStoreUnavailable marks a failure of the backing store itself,
	// distinct from any input mistake by the user.
	ErrStoreUnavailable = errors.New("storage unavailable")
)

// Store is the key-value durability gateway. Absent keys load as
// (false, nil) so callers can apply defaults.
type Store interface {
	Save(ctx context.Context, key string, value any) error
	Load(ctx context.Context, key string, dst any) (bool, error)
	Delete(ctx context.Context, key string) error
}

type redisStore struct {
	client *redis.Client
}

// NewStore creates a Store backed by the given redis client
func NewStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

// Save serializes value to JSON and writes it under key
func (s *redisStore) Save(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to serialize %s: %w", key, err)
	}

	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: failed to write %s: %v", ErrStoreUnavailable, key, err)
	}

	return nil
}

// Load reads key into dst. Returns (false, nil) when the key is absent
// and ErrCorruptState when the stored value cannot be deserialized.
func (s *redisStore) Load(ctx context.Context, key string, dst any) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: failed to read %s: %v", ErrStoreUnavailable, key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("%w: %s: %v", ErrCorruptState, key, err)
	}

	return true, nil
}

// Delete removes key. Deleting an absent key is a no-op.
func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: failed to delete %s: %v", ErrStoreUnavailable, key, err)
	}
	return nil
}

// CartKey returns the storage key for one visitor session's cart
func CartKey(sessionID string) string {
	return CartKeyPrefix + sessionID
}
