package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	roundengine "github.com/discbaboons/rounds-service/app/modules/round/engine"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// GetLeaderboard returns the ranked, money-annotated standings for a round.
func (s *RoundService) GetLeaderboard(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*roundengine.Leaderboard, error) {
	leaderboardTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*roundengine.Leaderboard, error], error) {
		return s.getLeaderboardLogic(ctx, db, roundID, userID)
	}

	result, err := withTelemetry(s, ctx, "GetLeaderboard", roundID.String(), func(ctx context.Context) (results.OperationResult[*roundengine.Leaderboard, error], error) {
		return runInTx(s, ctx, leaderboardTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// getLeaderboardLogic contains the core logic. The skins and side-bet
// merges are failure-isolated: if either breaks, the standings still come
// back with those columns zeroed.
func (s *RoundService) getLeaderboardLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (results.OperationResult[*roundengine.Leaderboard, error], error) {
	snap, err := s.loadSnapshot(ctx, db, roundID, userID)
	if err != nil {
		return failIfDomain[*roundengine.Leaderboard](err)
	}

	var skins *roundengine.SkinsResult
	if snap.info.SkinsEnabled {
		skins, err = roundengine.CalculateSkins(snap.info, snap.players, snap.scores)
		if err != nil {
			s.logger.WarnContext(ctx, "Skins settlement failed, leaderboard continues without it",
				attr.ExtractCorrelationID(ctx),
				attr.RoundID("round_id", roundID),
				attr.Error(err),
			)
			skins = nil
		}
	}

	var sideBets map[sharedtypes.PlayerID]roundengine.SideBetStanding
	if s.standings != nil {
		standings, err := s.standings.StandingsForRound(ctx, db, roundID, snap.players)
		if err != nil {
			s.logger.WarnContext(ctx, "Side-bet standings failed, leaderboard continues without them",
				attr.ExtractCorrelationID(ctx),
				attr.RoundID("round_id", roundID),
				attr.Error(err),
			)
		} else {
			sideBets = make(map[sharedtypes.PlayerID]roundengine.SideBetStanding, len(standings))
			for id, st := range standings {
				sideBets[id] = roundengine.SideBetStanding{
					SideBetsWon: st.SideBetsWon,
					NetGain:     st.NetGain,
				}
			}
		}
	}

	leaderboard := roundengine.ComposeLeaderboard(snap.info, snap.players, snap.scores, snap.pars, skins, sideBets)
	return results.SuccessResult[*roundengine.Leaderboard, error](&leaderboard), nil
}

// CalculateSkins returns the per-hole skins settlement for a round.
func (s *RoundService) CalculateSkins(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*roundengine.SkinsResult, error) {
	skinsTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*roundengine.SkinsResult, error], error) {
		return s.calculateSkinsLogic(ctx, db, roundID, userID)
	}

	result, err := withTelemetry(s, ctx, "CalculateSkins", roundID.String(), func(ctx context.Context) (results.OperationResult[*roundengine.SkinsResult, error], error) {
		return runInTx(s, ctx, skinsTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// calculateSkinsLogic contains the core logic.
func (s *RoundService) calculateSkinsLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (results.OperationResult[*roundengine.SkinsResult, error], error) {
	snap, err := s.loadSnapshot(ctx, db, roundID, userID)
	if err != nil {
		return failIfDomain[*roundengine.SkinsResult](err)
	}
	if !snap.info.SkinsEnabled {
		return results.FailureResult[*roundengine.SkinsResult, error](
			apperrors.New(apperrors.KindValidation, "skins are not enabled for this round")), nil
	}

	skins, err := roundengine.CalculateSkins(snap.info, snap.players, snap.scores)
	if err != nil {
		return failIfDomain[*roundengine.SkinsResult](err)
	}
	return results.SuccessResult[*roundengine.SkinsResult, error](skins), nil
}
