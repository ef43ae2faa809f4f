package sidebetdb

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

// NewRepository creates a new side-bet repository.
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

// ListByRound retrieves all of a round's bets in creation order.
func (r *Impl) ListByRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]SideBet, error) {
	db = r.resolveDB(db)
	var bets []SideBet
	err := db.NewSelect().
		Model(&bets).
		Where("sb.round_id = ?", roundID).
		Order("sb.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list side bets: %w", err)
	}
	return bets, nil
}

// GetByID retrieves one bet scoped to its round.
func (r *Impl) GetByID(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, roundID sharedtypes.RoundID) (*SideBet, error) {
	db = r.resolveDB(db)
	bet := new(SideBet)
	err := db.NewSelect().
		Model(bet).
		Where("sb.id = ?", betID).
		Where("sb.round_id = ?", roundID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get side bet: %w", err)
	}
	return bet, nil
}

// participantQuery joins participants against round players and users so
// every row carries a resolved display name.
func participantQuery(db bun.IDB) *bun.SelectQuery {
	return db.NewSelect().
		ColumnExpr("sbp.side_bet_id").
		ColumnExpr("sbp.player_id").
		ColumnExpr("sbp.is_winner").
		ColumnExpr("sbp.won_at").
		ColumnExpr("sbp.declared_by_id").
		ColumnExpr("rp.user_id").
		ColumnExpr("rp.is_guest").
		ColumnExpr("CASE WHEN rp.is_guest THEN rp.guest_name ELSE u.username END AS display_name").
		TableExpr("side_bet_participants AS sbp").
		Join("JOIN round_players AS rp ON rp.id = sbp.player_id").
		Join("LEFT JOIN users AS u ON u.id = rp.user_id")
}

// GetParticipants retrieves a bet's participants with display names.
func (r *Impl) GetParticipants(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) ([]ParticipantDetail, error) {
	db = r.resolveDB(db)
	var participants []ParticipantDetail
	err := participantQuery(db).
		Where("sbp.side_bet_id = ?", betID).
		OrderExpr("sbp.id ASC").
		Scan(ctx, &participants)
	if err != nil {
		return nil, fmt.Errorf("failed to get side bet participants: %w", err)
	}
	return participants, nil
}

// ListParticipants retrieves participants for many bets at once.
func (r *Impl) ListParticipants(ctx context.Context, db bun.IDB, betIDs []sharedtypes.BetID) ([]ParticipantDetail, error) {
	if len(betIDs) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var participants []ParticipantDetail
	err := participantQuery(db).
		Where("sbp.side_bet_id IN (?)", bun.In(betIDs)).
		OrderExpr("sbp.side_bet_id ASC, sbp.id ASC").
		Scan(ctx, &participants)
	if err != nil {
		return nil, fmt.Errorf("failed to list side bet participants: %w", err)
	}
	return participants, nil
}

// Create inserts a bet and its participants.
func (r *Impl) Create(ctx context.Context, db bun.IDB, bet *SideBet, participants []SideBetParticipant) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(bet).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert side bet: %w", err)
	}
	if _, err := db.NewInsert().Model(&participants).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert side bet participants: %w", err)
	}
	return nil
}

// UpdateFields updates a bet's name and/or description.
func (r *Impl) UpdateFields(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, name, description *string) error {
	db = r.resolveDB(db)
	q := db.NewUpdate().
		Model((*SideBet)(nil)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", betID)
	if name != nil {
		q = q.Set("name = ?", *name)
	}
	if description != nil {
		q = q.Set("description = ?", *description)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("failed to update side bet: %w", err)
	}
	return nil
}

// ClearWinners clears every winner flag on a bet.
func (r *Impl) ClearWinners(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*SideBetParticipant)(nil)).
		Set("is_winner = false").
		Set("won_at = NULL").
		Set("declared_by_id = NULL").
		Where("side_bet_id = ?", betID).
		Where("is_winner = true").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear side bet winners: %w", err)
	}
	return nil
}

// SetWinner declares one participant the winner. Returns ErrNoRowsAffected
// when the player is not on the bet.
func (r *Impl) SetWinner(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, winnerID, declaredByID sharedtypes.PlayerID) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*SideBetParticipant)(nil)).
		Set("is_winner = true").
		Set("won_at = ?", time.Now()).
		Set("declared_by_id = ?", declaredByID).
		Where("side_bet_id = ?", betID).
		Where("player_id = ?", winnerID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set side bet winner: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

// Cancel marks a bet cancelled.
func (r *Impl) Cancel(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, cancelledByID sharedtypes.PlayerID) error {
	db = r.resolveDB(db)
	_, err := db.NewUpdate().
		Model((*SideBet)(nil)).
		Set("cancelled_at = ?", time.Now()).
		Set("cancelled_by_id = ?", cancelledByID).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", betID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to cancel side bet: %w", err)
	}
	return nil
}
