package sidebetservice

import (
	"context"

	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Service is the side-bet application surface.
type Service interface {
	// List returns every bet for a round, settled, with the per-player
	// money summary.
	List(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*RoundSideBets, error)

	// Get returns one settled bet.
	Get(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) (*sidebetengine.SettledBet, error)

	// Create records a new bet among round players. The creator is always
	// a participant.
	Create(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, input CreateSideBetInput) (*sidebetengine.SettledBet, error)

	// Update edits a bet's fields and/or declares or clears its winner.
	Update(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID, input UpdateSideBetInput) (*sidebetengine.SettledBet, error)

	// Cancel cancels a bet. Terminal.
	Cancel(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) error
}

// RoundSideBets is the full side-bet view of a round.
type RoundSideBets struct {
	RoundID       sharedtypes.RoundID                `json:"roundId"`
	SideBets      []*sidebetengine.SettledBet        `json:"sideBets"`
	PlayerSummary []sidebetengine.PlayerMoneySummary `json:"playerSummary"`
}

// CreateSideBetInput carries a new bet's fields.
type CreateSideBetInput struct {
	Name         string                 `json:"name"`
	Description  *string                `json:"description,omitempty"`
	Amount       float64                `json:"amount"`
	BetType      string                 `json:"betType"`
	HoleNumber   *int                   `json:"holeNumber,omitempty"`
	Participants []sharedtypes.PlayerID `json:"participants"`
}

// UpdateSideBetInput carries a bet edit. WinnerID declares a new winner,
// replacing any previous one; ClearWinner returns the bet to active. The
// two are mutually exclusive.
type UpdateSideBetInput struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	WinnerID    *sharedtypes.PlayerID `json:"winnerId,omitempty"`
	ClearWinner bool                  `json:"clearWinner,omitempty"`
}
