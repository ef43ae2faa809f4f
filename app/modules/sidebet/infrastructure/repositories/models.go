package sidebetdb

import (
	"time"

	"github.com/uptrace/bun"

	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// SideBet is a side-bet row. Cancellation is terminal.
type SideBet struct {
	bun.BaseModel `bun:"table:side_bets,alias:sb"`

	ID            sharedtypes.BetID     `bun:"id,pk,type:uuid"`
	RoundID       sharedtypes.RoundID   `bun:"round_id,notnull,type:uuid"`
	Name          string                `bun:"name,notnull"`
	Description   *string               `bun:"description"`
	Amount        float64               `bun:"amount,notnull"`
	BetType       string                `bun:"bet_type,notnull"`
	HoleNumber    *int                  `bun:"hole_number"`
	CreatedByID   sharedtypes.PlayerID  `bun:"created_by_id,notnull,type:uuid"`
	CancelledAt   *time.Time            `bun:"cancelled_at"`
	CancelledByID *sharedtypes.PlayerID `bun:"cancelled_by_id,type:uuid"`
	CreatedAt     time.Time             `bun:"created_at,notnull,default:now()"`
	UpdatedAt     time.Time             `bun:"updated_at,notnull,default:now()"`
}

// SideBetParticipant is one player's entry on a bet. At most one
// participant per bet carries is_winner, enforced by a partial unique
// index so concurrent declarations can never leave two winners behind.
type SideBetParticipant struct {
	bun.BaseModel `bun:"table:side_bet_participants,alias:sbp"`

	ID           int64                 `bun:"id,pk,autoincrement"`
	SideBetID    sharedtypes.BetID     `bun:"side_bet_id,notnull,type:uuid"`
	PlayerID     sharedtypes.PlayerID  `bun:"player_id,notnull,type:uuid"`
	IsWinner     bool                  `bun:"is_winner,notnull"`
	WonAt        *time.Time            `bun:"won_at"`
	DeclaredByID *sharedtypes.PlayerID `bun:"declared_by_id,type:uuid"`
}

// ParticipantDetail is the participant read shape, joined with the player
// and user rows for display names.
type ParticipantDetail struct {
	bun.BaseModel `bun:"table:side_bet_participants,alias:sbp"`

	SideBetID    sharedtypes.BetID     `bun:"side_bet_id"`
	PlayerID     sharedtypes.PlayerID  `bun:"player_id"`
	IsWinner     bool                  `bun:"is_winner"`
	WonAt        *time.Time            `bun:"won_at"`
	DeclaredByID *sharedtypes.PlayerID `bun:"declared_by_id"`
	UserID       *sharedtypes.UserID   `bun:"user_id"`
	IsGuest      bool                  `bun:"is_guest"`
	DisplayName  string                `bun:"display_name"`
}

// BetInfo converts a bet row into the flat shape the engine consumes.
func (sb *SideBet) BetInfo() sidebetengine.BetInfo {
	return sidebetengine.BetInfo{
		BetID:       sb.ID,
		RoundID:     sb.RoundID,
		Name:        sb.Name,
		Description: sb.Description,
		Amount:      sb.Amount,
		BetType:     sidebetengine.BetType(sb.BetType),
		HoleNumber:  sb.HoleNumber,
		CancelledAt: sb.CancelledAt,
	}
}

// ParticipantInfo converts a participant read row into the flat shape the
// engine consumes.
func (pd *ParticipantDetail) ParticipantInfo() sidebetengine.ParticipantInfo {
	return sidebetengine.ParticipantInfo{
		PlayerID:     pd.PlayerID,
		UserID:       pd.UserID,
		DisplayName:  pd.DisplayName,
		IsWinner:     pd.IsWinner,
		WonAt:        pd.WonAt,
		DeclaredByID: pd.DeclaredByID,
	}
}
