package sidebetservice

import (
	"context"

	"github.com/uptrace/bun"

	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// List returns every bet for a round, settled, with the per-player money
// summary.
func (s *SideBetService) List(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*RoundSideBets, error) {
	listTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*RoundSideBets, error], error) {
		return s.listLogic(ctx, db, roundID, userID)
	}

	result, err := withTelemetry(s, ctx, "ListSideBets", roundID.String(), func(ctx context.Context) (results.OperationResult[*RoundSideBets, error], error) {
		return runInTx(s, ctx, listTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// listLogic contains the core logic.
func (s *SideBetService) listLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (results.OperationResult[*RoundSideBets, error], error) {
	round, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[*RoundSideBets](err)
	}
	if _, err := s.authorize(ctx, db, round, userID); err != nil {
		return failIfDomain[*RoundSideBets](err)
	}

	settled, err := s.settleRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[*RoundSideBets](err)
	}
	players, err := s.roundPlayers(ctx, db, roundID)
	if err != nil {
		return results.OperationResult[*RoundSideBets, error]{}, err
	}

	return results.SuccessResult[*RoundSideBets, error](&RoundSideBets{
		RoundID:       roundID,
		SideBets:      settled,
		PlayerSummary: sidebetengine.SummarizeRound(players, settled),
	}), nil
}

// Get returns one settled bet.
func (s *SideBetService) Get(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) (*sidebetengine.SettledBet, error) {
	getTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return s.getLogic(ctx, db, roundID, betID, userID)
	}

	result, err := withTelemetry(s, ctx, "GetSideBet", betID.String(), func(ctx context.Context) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return runInTx(s, ctx, getTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// getLogic contains the core logic.
func (s *SideBetService) getLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
	round, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	if _, err := s.authorize(ctx, db, round, userID); err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}

	bet, err := s.getBet(ctx, db, betID, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	settled, err := s.settleBet(ctx, db, bet)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	return results.SuccessResult[*sidebetengine.SettledBet, error](settled), nil
}

// StandingsForRound computes per-player side-bet standings. No
// authorization: the round module calls this with an already-authorized
// request. Satisfies the round module's SideBetStandings contract.
func (s *SideBetService) StandingsForRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error) {
	settled, err := s.settleRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	return sidebetengine.Standings(players, settled), nil
}
