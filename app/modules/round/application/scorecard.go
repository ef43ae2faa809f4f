package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	roundengine "github.com/discbaboons/rounds-service/app/modules/round/engine"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// GetScorecard returns every player's per-hole strokes and totals.
func (s *RoundService) GetScorecard(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*Scorecard, error) {
	scorecardTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*Scorecard, error], error) {
		return s.getScorecardLogic(ctx, db, roundID, userID)
	}

	result, err := withTelemetry(s, ctx, "GetScorecard", roundID.String(), func(ctx context.Context) (results.OperationResult[*Scorecard, error], error) {
		return runInTx(s, ctx, scorecardTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// getScorecardLogic contains the core logic.
func (s *RoundService) getScorecardLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (results.OperationResult[*Scorecard, error], error) {
	snap, err := s.loadSnapshot(ctx, db, roundID, userID)
	if err != nil {
		return failIfDomain[*Scorecard](err)
	}

	stats := roundengine.Aggregate(snap.players, snap.scores, snap.pars, snap.info.HoleCount)

	holesByPlayer := make(map[sharedtypes.PlayerID]map[int]ScorecardHole, len(snap.players))
	for _, p := range snap.players {
		holesByPlayer[p.PlayerID] = make(map[int]ScorecardHole)
	}
	for _, score := range snap.scores {
		holes, ok := holesByPlayer[score.PlayerID]
		if !ok {
			continue
		}
		par := snap.pars.Resolve(score.HoleNumber)
		holes[score.HoleNumber] = ScorecardHole{
			Strokes:  score.Strokes,
			Par:      par,
			Relative: score.Strokes - par,
		}
	}

	card := &Scorecard{
		RoundID:   roundID,
		HoleCount: snap.info.HoleCount,
		Players:   make([]PlayerScorecard, 0, len(snap.players)),
	}
	for _, p := range snap.players {
		stat := stats[p.PlayerID]
		card.Players = append(card.Players, PlayerScorecard{
			PlayerID:       p.PlayerID,
			Username:       p.Username,
			GuestName:      p.GuestName,
			IsGuest:        p.IsGuest,
			Holes:          holesByPlayer[p.PlayerID],
			TotalStrokes:   stat.TotalStrokes,
			RelativeScore:  stat.RelativeScore,
			HolesCompleted: stat.HolesCompleted,
			CurrentHole:    stat.CurrentHole,
		})
	}
	return results.SuccessResult[*Scorecard, error](card), nil
}
