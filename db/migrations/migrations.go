// Package migrations orders the per-module bun migrations and the River
// schema so the CLI and the integration suite apply them the same way.
package migrations

import (
	"context"
	"fmt"

	clanmigrations "github.com/Black-And-White-Club/clan-service/app/modules/clan/infrastructure/repositories/migrations"
	usermigrations "github.com/Black-And-White-Club/clan-service/app/modules/user/infrastructure/repositories/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// ModuleMigrator is a named migrator with its own bookkeeping tables.
type ModuleMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators returns the module migrators in dependency order: clan_member
// references users, so the user module goes first.
func Migrators(db *bun.DB) []ModuleMigrator {
	return []ModuleMigrator{
		newModuleMigrator(db, "user", usermigrations.Migrations),
		newModuleMigrator(db, "clan", clanmigrations.Migrations),
	}
}

func newModuleMigrator(db *bun.DB, name string, migrations *migrate.Migrations) ModuleMigrator {
	return ModuleMigrator{
		Name: name,
		Migrator: migrate.NewMigrator(db, migrations,
			migrate.WithTableName("bun_migrations_"+name),
			migrate.WithLocksTableName("bun_migration_locks_"+name),
		),
	}
}

// Up initializes the bookkeeping tables and applies every pending migration.
func Up(ctx context.Context, db *bun.DB) error {
	for _, m := range Migrators(db) {
		if err := m.Migrator.Init(ctx); err != nil {
			return fmt.Errorf("init %s migrations: %w", m.Name, err)
		}
		if _, err := m.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", m.Name, err)
		}
	}
	return nil
}

// RiverUp applies the River job tables.
func RiverUp(ctx context.Context, dsn string) (*rivermigrate.MigrateResult, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create river migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, nil)
	if err != nil {
		return nil, fmt.Errorf("river migrate: %w", err)
	}
	return res, nil
}
