package rounddb

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Repository defines the contract for round persistence.
type Repository interface {
	// GetRound retrieves a round with its course.
	GetRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*Round, error)

	// GetPlayers retrieves a round's players with usernames, in join order.
	GetPlayers(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]RoundPlayer, error)

	// GetPlayerByUser retrieves the player row for a user in a round.
	GetPlayerByUser(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*RoundPlayer, error)

	// GetScores retrieves all committed scores for a round.
	GetScores(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]Score, error)

	// GetPars retrieves all par overrides for a round.
	GetPars(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]HolePar, error)

	// UpsertPar creates or replaces the par for (round, hole).
	UpsertPar(ctx context.Context, db bun.IDB, par *HolePar) error

	// UpsertScore creates or replaces the score for (round, player, hole).
	UpsertScore(ctx context.Context, db bun.IDB, score *Score) error
}
