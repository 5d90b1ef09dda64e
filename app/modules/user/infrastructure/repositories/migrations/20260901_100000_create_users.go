package usermigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating users and user_stats tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(32) NOT NULL,
					privilege INTEGER NOT NULL DEFAULT 1,
					account_status VARCHAR(16) NOT NULL DEFAULT 'active',
					default_mode SMALLINT NOT NULL DEFAULT 0,
					clan_id BIGINT,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT users_username_key UNIQUE (username)
				);
				CREATE INDEX IF NOT EXISTS idx_users_clan_id ON users(clan_id);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS user_stats (
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					game_mode SMALLINT NOT NULL,
					performance_points DOUBLE PRECISION NOT NULL DEFAULT 0,
					PRIMARY KEY (user_id, game_mode)
				);
			`); err != nil {
				return fmt.Errorf("failed to create user_stats table: %w", err)
			}

			fmt.Println("Users tables created successfully!")
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping user_stats and users tables...")

		if _, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS user_stats; DROP TABLE IF EXISTS users;`); err != nil {
			return fmt.Errorf("failed to drop users tables: %w", err)
		}
		return nil
	})
}
