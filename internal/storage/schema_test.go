package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestMigrate_FreshStoreWritesMarker(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, store, zap.NewNop()))

	var version int
	found, err := store.Load(ctx, KeySchemaVersion, &version)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, SchemaVersion, version)
}

func TestMigrate_Idempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, Migrate(ctx, store, zap.NewNop()))
	require.NoError(t, Migrate(ctx, store, zap.NewNop()))
}

func TestMigrate_HashesLegacyAdminPassword(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Version 1 stored the admin password in plaintext
	legacy := map[string]any{
		"site_name":      "DealSpot",
		"admin_password": "hunter2",
		"visit_count":    42,
	}
	require.NoError(t, store.Save(ctx, KeySettings, legacy))
	require.NoError(t, store.Save(ctx, KeySchemaVersion, 1))

	require.NoError(t, Migrate(ctx, store, zap.NewNop()))

	var migrated map[string]any
	found, err := store.Load(ctx, KeySettings, &migrated)
	require.NoError(t, err)
	require.True(t, found)

	assert.NotContains(t, migrated, "admin_password")

	hash, ok := migrated["admin_password_hash"].(string)
	require.True(t, ok, "expected admin_password_hash to be written")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("hunter2")))

	// Untouched fields survive
	assert.Equal(t, "DealSpot", migrated["site_name"])
}

func TestMigrate_NewerStoredVersionFailsClosed(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, KeySchemaVersion, SchemaVersion+1))

	err := Migrate(ctx, store, zap.NewNop())
	require.Error(t, err)
}

func TestMigrate_CorruptMarkerFailsClosed(t *testing.T) {
	store, mr := newTestStore(t)
	mr.Set(KeySchemaVersion, "not-a-number")

	err := Migrate(context.Background(), store, zap.NewNop())
	require.ErrorIs(t, err, ErrCorruptState)
}
