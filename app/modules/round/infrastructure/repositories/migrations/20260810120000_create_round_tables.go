package roundmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating round tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS users (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(50) NOT NULL UNIQUE
				);
			`); err != nil {
				return fmt.Errorf("failed to create users table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS courses (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					name VARCHAR(100) NOT NULL,
					hole_count INTEGER NOT NULL CHECK (hole_count >= 1)
				);
			`); err != nil {
				return fmt.Errorf("failed to create courses table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS rounds (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					course_id UUID NOT NULL REFERENCES courses(id),
					created_by_id BIGINT NOT NULL REFERENCES users(id),
					starting_hole INTEGER NOT NULL DEFAULT 1 CHECK (starting_hole >= 1),
					skins_enabled BOOLEAN NOT NULL DEFAULT false,
					skins_value NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (skins_value >= 0),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create rounds table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS round_players (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					user_id BIGINT REFERENCES users(id),
					guest_name VARCHAR(100),
					is_guest BOOLEAN NOT NULL DEFAULT false,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT round_players_identity CHECK (
						(is_guest AND guest_name IS NOT NULL AND user_id IS NULL)
						OR (NOT is_guest AND user_id IS NOT NULL AND guest_name IS NULL)
					)
				);
				CREATE INDEX IF NOT EXISTS idx_round_players_round_id ON round_players(round_id);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_round_players_round_user
					ON round_players(round_id, user_id) WHERE user_id IS NOT NULL;
			`); err != nil {
				return fmt.Errorf("failed to create round_players table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS scores (
					id BIGSERIAL PRIMARY KEY,
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					player_id UUID NOT NULL REFERENCES round_players(id) ON DELETE CASCADE,
					hole_number INTEGER NOT NULL CHECK (hole_number >= 1),
					strokes INTEGER NOT NULL CHECK (strokes >= 1),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (round_id, player_id, hole_number)
				);
				CREATE INDEX IF NOT EXISTS idx_scores_round_id ON scores(round_id);
			`); err != nil {
				return fmt.Errorf("failed to create scores table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS round_hole_pars (
					id BIGSERIAL PRIMARY KEY,
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					hole_number INTEGER NOT NULL CHECK (hole_number >= 1),
					par INTEGER NOT NULL CHECK (par BETWEEN 1 AND 10),
					set_by_player_id UUID NOT NULL REFERENCES round_players(id),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					UNIQUE (round_id, hole_number)
				);
			`); err != nil {
				return fmt.Errorf("failed to create round_hole_pars table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping round tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS round_hole_pars;
				DROP TABLE IF EXISTS scores;
				DROP TABLE IF EXISTS round_players;
				DROP TABLE IF EXISTS rounds;
				DROP TABLE IF EXISTS courses;
				DROP TABLE IF EXISTS users;
			`)
			if err != nil {
				return fmt.Errorf("failed to drop round tables: %w", err)
			}
			return nil
		})
	})
}
