package migrations

import (
	"context"
	"fmt"

	"ai-news-intel/internal/core"
)

// Manager handles news feature migrations.
type Manager struct {
	migrationService *core.MigrationService
	logger           *core.Logger
}

// NewManager creates a new news migration manager.
func NewManager(db *core.Database, logger *core.Logger) *Manager {
	return &Manager{
		migrationService: core.NewMigrationService(db, logger),
		logger:           logger,
	}
}

// Migrations returns all news migrations in order.
func (m *Manager) Migrations() []core.Migration {
	return []core.Migration{
		Migration001CreateNewsTables,
	}
}

// Migrate applies all pending news migrations.
func (m *Manager) Migrate(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	migrations := m.Migrations()
	m.logger.Info("Starting news migrations", "count", len(migrations))

	for _, migration := range migrations {
		if err := m.migrationService.ApplyMigration(ctx, migration); err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}
	}

	m.logger.Info("News migrations completed successfully")
	return nil
}

// Rollback rolls back the last applied news migration.
func (m *Manager) Rollback(ctx context.Context) error {
	if err := m.migrationService.InitMigrations(ctx); err != nil {
		return fmt.Errorf("failed to initialize migrations: %w", err)
	}

	applied, err := m.migrationService.GetAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	var lastApplied *core.Migration
	for _, migration := range applied {
		for _, newsMigration := range m.Migrations() {
			if migration.Version == newsMigration.Version {
				last := newsMigration
				lastApplied = &last
				break
			}
		}
	}
	if lastApplied == nil {
		return fmt.Errorf("no news migrations have been applied")
	}

	if err := m.migrationService.RollbackMigration(ctx, *lastApplied); err != nil {
		return fmt.Errorf("failed to rollback migration %d (%s): %w", lastApplied.Version, lastApplied.Name, err)
	}

	m.logger.Info("Rolled back news migration", "version", lastApplied.Version, "name", lastApplied.Name)
	return nil
}

// Status returns the current migration status.
func (m *Manager) Status(ctx context.Context) (*core.MigrationStatus, error) {
	return m.migrationService.GetMigrationStatus(ctx)
}
