package sidebetmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating side bet tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS side_bets (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					round_id UUID NOT NULL REFERENCES rounds(id) ON DELETE CASCADE,
					name VARCHAR(200) NOT NULL,
					description TEXT,
					amount NUMERIC(10,2) NOT NULL CHECK (amount > 0),
					bet_type VARCHAR(10) NOT NULL CHECK (bet_type IN ('hole', 'round')),
					hole_number INTEGER,
					created_by_id UUID NOT NULL REFERENCES round_players(id),
					cancelled_at TIMESTAMPTZ,
					cancelled_by_id UUID REFERENCES round_players(id),
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT side_bets_hole_scope CHECK (
						(bet_type = 'hole' AND hole_number IS NOT NULL)
						OR (bet_type = 'round' AND hole_number IS NULL)
					)
				);
				CREATE INDEX IF NOT EXISTS idx_side_bets_round_id ON side_bets(round_id);
			`); err != nil {
				return fmt.Errorf("failed to create side_bets table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS side_bet_participants (
					id BIGSERIAL PRIMARY KEY,
					side_bet_id UUID NOT NULL REFERENCES side_bets(id) ON DELETE CASCADE,
					player_id UUID NOT NULL REFERENCES round_players(id) ON DELETE CASCADE,
					is_winner BOOLEAN NOT NULL DEFAULT false,
					won_at TIMESTAMPTZ,
					declared_by_id UUID REFERENCES round_players(id),
					UNIQUE (side_bet_id, player_id)
				);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_side_bet_single_winner
					ON side_bet_participants(side_bet_id) WHERE is_winner;
			`); err != nil {
				return fmt.Errorf("failed to create side_bet_participants table: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping side bet tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			_, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS side_bet_participants;
				DROP TABLE IF EXISTS side_bets;
			`)
			if err != nil {
				return fmt.Errorf("failed to drop side bet tables: %w", err)
			}
			return nil
		})
	})
}
