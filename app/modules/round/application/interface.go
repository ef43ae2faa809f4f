package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	roundengine "github.com/discbaboons/rounds-service/app/modules/round/engine"
	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Service is the round settlement application surface.
type Service interface {
	// GetLeaderboard returns the ranked, money-annotated standings for a
	// round.
	GetLeaderboard(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*roundengine.Leaderboard, error)

	// CalculateSkins returns the per-hole skins settlement for a round.
	CalculateSkins(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*roundengine.SkinsResult, error)

	// GetScorecard returns every player's per-hole strokes and totals.
	GetScorecard(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*Scorecard, error)

	// SetPar sets or replaces the par for one hole of a round.
	SetPar(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, holeNumber, par int) error

	// SubmitScores commits a batch of scores, replacing any existing score
	// for the same (player, hole).
	SubmitScores(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, scores []ScoreSubmission) error
}

// SideBetStandings supplies per-player side-bet positions for the
// leaderboard. Implemented by the side-bet module.
type SideBetStandings interface {
	StandingsForRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error)
}

// ScoreSubmission is one score in a batch submit.
type ScoreSubmission struct {
	PlayerID   sharedtypes.PlayerID `json:"playerId"`
	HoleNumber int                  `json:"holeNumber"`
	Strokes    int                  `json:"strokes"`
}

// ScorecardHole is one hole on a player's scorecard.
type ScorecardHole struct {
	Strokes  int `json:"strokes"`
	Par      int `json:"par"`
	Relative int `json:"relative"`
}

// PlayerScorecard is one player's full card.
type PlayerScorecard struct {
	PlayerID       sharedtypes.PlayerID  `json:"playerId"`
	Username       *string               `json:"username,omitempty"`
	GuestName      *string               `json:"guestName,omitempty"`
	IsGuest        bool                  `json:"isGuest"`
	Holes          map[int]ScorecardHole `json:"holes"`
	TotalStrokes   int                   `json:"totalStrokes"`
	RelativeScore  int                   `json:"relativeScore"`
	HolesCompleted int                   `json:"holesCompleted"`
	CurrentHole    int                   `json:"currentHole"`
}

// Scorecard is the per-hole score view for a whole round.
type Scorecard struct {
	RoundID   sharedtypes.RoundID `json:"roundId"`
	HoleCount int                 `json:"holeCount"`
	Players   []PlayerScorecard   `json:"players"`
}
