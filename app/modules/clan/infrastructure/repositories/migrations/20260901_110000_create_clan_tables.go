package clanmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating clan and clan_member tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			// 1. Clans
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clan (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(32) NOT NULL,
					tag VARCHAR(3),
					avatar_url VARCHAR(8192),
					description VARCHAR(2048),
					name_changed_at TIMESTAMPTZ,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT clan_name_key UNIQUE (name),
					CONSTRAINT clan_name_changed_after_created CHECK (name_changed_at IS NULL OR name_changed_at >= created_at)
				);
			`); err != nil {
				return fmt.Errorf("failed to create clan table: %w", err)
			}

			// 2. Memberships
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS clan_member (
					id BIGSERIAL PRIMARY KEY,
					clan_id BIGINT NOT NULL REFERENCES clan(id) ON DELETE CASCADE,
					user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
					role VARCHAR(16) NOT NULL,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT clan_member_user_id_key UNIQUE (user_id),
					CONSTRAINT clan_member_clan_id_user_id_key UNIQUE (clan_id, user_id),
					CONSTRAINT clan_member_role_check CHECK (role IN ('creator', 'member'))
				);
				CREATE UNIQUE INDEX IF NOT EXISTS idx_clan_member_single_creator
					ON clan_member(clan_id) WHERE role = 'creator';
			`); err != nil {
				return fmt.Errorf("failed to create clan_member table: %w", err)
			}

			// 3. users.clan_id follows the clan lifecycle
			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE users
				DROP CONSTRAINT IF EXISTS fk_users_clan;
				ALTER TABLE users
				ADD CONSTRAINT fk_users_clan
				FOREIGN KEY (clan_id) REFERENCES clan(id) ON DELETE SET NULL;
			`); err != nil {
				return fmt.Errorf("failed to add users.clan_id FK: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Rolling back clan tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				ALTER TABLE users DROP CONSTRAINT IF EXISTS fk_users_clan;
				DROP TABLE IF EXISTS clan_member;
				DROP TABLE IF EXISTS clan;
			`); err != nil {
				return fmt.Errorf("failed to drop clan tables: %w", err)
			}
			return nil
		})
	})
}
