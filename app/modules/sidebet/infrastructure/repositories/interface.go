package sidebetdb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Repository defines the contract for side-bet persistence.
type Repository interface {
	// ListByRound retrieves all of a round's bets in creation order.
	ListByRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]SideBet, error)

	// GetByID retrieves one bet scoped to its round.
	GetByID(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, roundID sharedtypes.RoundID) (*SideBet, error)

	// GetParticipants retrieves a bet's participants with display names.
	GetParticipants(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) ([]ParticipantDetail, error)

	// ListParticipants retrieves participants for many bets at once.
	ListParticipants(ctx context.Context, db bun.IDB, betIDs []sharedtypes.BetID) ([]ParticipantDetail, error)

	// Create inserts a bet and its participants.
	Create(ctx context.Context, db bun.IDB, bet *SideBet, participants []SideBetParticipant) error

	// UpdateFields updates a bet's name and/or description.
	UpdateFields(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, name, description *string) error

	// ClearWinners clears every winner flag on a bet.
	ClearWinners(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) error

	// SetWinner declares one participant the winner. Returns
	// ErrNoRowsAffected when the player is not on the bet. Callers run
	// ClearWinners and SetWinner inside one transaction.
	SetWinner(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, winnerID, declaredByID sharedtypes.PlayerID) error

	// Cancel marks a bet cancelled. Cancellation is terminal.
	Cancel(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, cancelledByID sharedtypes.PlayerID) error
}
