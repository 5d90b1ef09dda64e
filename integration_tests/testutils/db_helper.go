package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Black-And-White-Club/clan-service/db/migrations"
	"github.com/uptrace/bun"
)

// runMigrations applies the River schema and every module migration.
func runMigrations(ctx context.Context, db *bun.DB, pgConnStr string) error {
	if _, err := migrations.RiverUp(ctx, pgConnStr); err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	if err := migrations.Up(ctx, db); err != nil {
		return err
	}
	log.Println("All migrations ran successfully")
	return nil
}

// appTables lists the application tables, dependents first.
var appTables = []string{"clan_member", "clan", "user_stats", "users"}

// CleanupRiverJobs deletes all jobs from the River queue.
func CleanupRiverJobs(ctx context.Context, db bun.IDB) error {
	_, err := db.ExecContext(ctx, "DELETE FROM river_job")
	return err
}

// CleanupDatabase truncates the application tables and resets their sequences.
func CleanupDatabase(ctx context.Context, db bun.IDB) error {
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(appTables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	if err := CleanupRiverJobs(ctx, db); err != nil {
		if !strings.Contains(err.Error(), "does not exist") {
			return fmt.Errorf("failed to cleanup river jobs: %w", err)
		}
	}
	return nil
}
