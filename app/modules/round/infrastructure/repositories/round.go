package rounddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new round repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the
// repository's default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// GetRound retrieves a round with its course.
func (r *Impl) GetRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*Round, error) {
	db = r.resolveDB(db)
	round := new(Round)
	err := db.NewSelect().
		Model(round).
		Relation("Course").
		Where("r.id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// GetPlayers retrieves a round's players with usernames, in join order.
func (r *Impl) GetPlayers(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]RoundPlayer, error) {
	db = r.resolveDB(db)
	var players []RoundPlayer
	err := db.NewSelect().
		Model(&players).
		Relation("User").
		Where("rp.round_id = ?", roundID).
		Order("rp.joined_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get round players: %w", err)
	}
	return players, nil
}

// GetPlayerByUser retrieves the player row for a user in a round.
func (r *Impl) GetPlayerByUser(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*RoundPlayer, error) {
	db = r.resolveDB(db)
	player := new(RoundPlayer)
	err := db.NewSelect().
		Model(player).
		Where("rp.round_id = ?", roundID).
		Where("rp.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get round player: %w", err)
	}
	return player, nil
}

// GetScores retrieves all committed scores for a round.
func (r *Impl) GetScores(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]Score, error) {
	db = r.resolveDB(db)
	var scores []Score
	err := db.NewSelect().
		Model(&scores).
		Where("s.round_id = ?", roundID).
		Order("s.hole_number ASC", "s.player_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	return scores, nil
}

// GetPars retrieves all par overrides for a round.
func (r *Impl) GetPars(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]HolePar, error) {
	db = r.resolveDB(db)
	var pars []HolePar
	err := db.NewSelect().
		Model(&pars).
		Where("rhp.round_id = ?", roundID).
		Order("rhp.hole_number ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pars: %w", err)
	}
	return pars, nil
}

// UpsertPar creates or replaces the par for (round, hole).
func (r *Impl) UpsertPar(ctx context.Context, db bun.IDB, par *HolePar) error {
	db = r.resolveDB(db)
	par.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(par).
		On("CONFLICT (round_id, hole_number) DO UPDATE").
		Set("par = EXCLUDED.par").
		Set("set_by_player_id = EXCLUDED.set_by_player_id").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert par: %w", err)
	}
	return nil
}

// UpsertScore creates or replaces the score for (round, player, hole).
func (r *Impl) UpsertScore(ctx context.Context, db bun.IDB, score *Score) error {
	db = r.resolveDB(db)
	score.UpdatedAt = time.Now()
	_, err := db.NewInsert().
		Model(score).
		On("CONFLICT (round_id, player_id, hole_number) DO UPDATE").
		Set("strokes = EXCLUDED.strokes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert score: %w", err)
	}
	return nil
}
