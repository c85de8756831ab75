package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// SchemaVersion is the layout version the current code expects
const SchemaVersion = 2

// migration upgrades the stored layout by exactly one version
type migration func(ctx context.Context, s Store) error

// migrations is keyed by the version being upgraded FROM
var migrations = map[int]migration{
	0: migrateInitial,
	1: migrateHashAdminPassword,
}

// Migrate brings the stored layout up to SchemaVersion, running each
// pending step in order and then updating the version marker. A corrupt
// marker fails closed; an absent marker means a fresh store.
func Migrate(ctx context.Context, s Store, logger *zap.Logger) error {
	var stored int
	if _, err := s.Load(ctx, KeySchemaVersion, &stored); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if stored > SchemaVersion {
		return fmt.Errorf("stored schema version %d is newer than supported version %d", stored, SchemaVersion)
	}

	for v := stored; v < SchemaVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return fmt.Errorf("no migration from schema version %d", v)
		}

		logger.Info("Running schema migration",
			zap.Int("from", v),
			zap.Int("to", v+1),
		)

		if err := step(ctx, s); err != nil {
			return fmt.Errorf("migration from version %d failed: %w", v, err)
		}
	}

	if err := s.Save(ctx, KeySchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("failed to write schema version: %w", err)
	}

	logger.Info("Schema up to date", zap.Int("version", SchemaVersion))
	return nil
}

// migrateInitial establishes the initial layout. Nothing to rewrite: a
// fresh store has no records and absent keys load as defaults.
func migrateInitial(ctx context.Context, s Store) error {
	return nil
}

// migrateHashAdminPassword rewrites version-1 settings, which stored the
// admin password in plaintext under "admin_password", into the hashed form
func migrateHashAdminPassword(ctx context.Context, s Store) error {
	var raw map[string]any
	found, err := s.Load(ctx, KeySettings, &raw)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}

	plain, ok := raw["admin_password"].(string)
	if !ok || plain == "" {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash legacy admin password: %w", err)
	}

	delete(raw, "admin_password")
	raw["admin_password_hash"] = string(hash)

	return s.Save(ctx, KeySettings, raw)
}
