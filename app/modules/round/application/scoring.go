package roundservice

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Bounds accepted on score and par writes.
const (
	maxHoleNumber = 50
	minPar        = 1
	maxPar        = 10
	minStrokes    = 1
	maxStrokes    = 20
)

type empty struct{}

// SetPar sets or replaces the par for one hole of a round.
func (s *RoundService) SetPar(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, holeNumber, par int) error {
	setParTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[empty, error], error) {
		return s.setParLogic(ctx, db, roundID, userID, holeNumber, par)
	}

	result, err := withTelemetry(s, ctx, "SetPar", roundID.String(), func(ctx context.Context) (results.OperationResult[empty, error], error) {
		return runInTx(s, ctx, setParTx)
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

// setParLogic contains the core logic.
func (s *RoundService) setParLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID, holeNumber, par int) (results.OperationResult[empty, error], error) {
	round, info, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	player, err := s.authorize(ctx, db, round, userID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	if player == nil {
		return results.FailureResult[empty, error](
			apperrors.New(apperrors.KindAuthorization, "only round players can set pars")), nil
	}

	if holeNumber < 1 || holeNumber > maxHoleNumber {
		return results.FailureResult[empty, error](
			apperrors.Newf(apperrors.KindValidation, "hole number must be between 1 and %d", maxHoleNumber)), nil
	}
	if holeNumber > info.HoleCount {
		return results.FailureResult[empty, error](
			apperrors.Newf(apperrors.KindValidation, "hole number %d exceeds course hole count %d", holeNumber, info.HoleCount)), nil
	}
	if par < minPar || par > maxPar {
		return results.FailureResult[empty, error](
			apperrors.Newf(apperrors.KindValidation, "par must be between %d and %d", minPar, maxPar)), nil
	}

	err = s.repo.UpsertPar(ctx, db, &rounddb.HolePar{
		RoundID:       roundID,
		HoleNumber:    holeNumber,
		Par:           par,
		SetByPlayerID: player.ID,
	})
	if err != nil {
		return results.OperationResult[empty, error]{}, fmt.Errorf("failed to upsert par: %w", err)
	}
	return results.SuccessResult[empty, error](empty{}), nil
}

// SubmitScores commits a batch of scores in one transaction, replacing
// any existing score for the same (player, hole).
func (s *RoundService) SubmitScores(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, scores []ScoreSubmission) error {
	submitTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[empty, error], error) {
		return s.submitScoresLogic(ctx, db, roundID, userID, scores)
	}

	result, err := withTelemetry(s, ctx, "SubmitScores", roundID.String(), func(ctx context.Context) (results.OperationResult[empty, error], error) {
		return runInTx(s, ctx, submitTx)
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

// submitScoresLogic contains the core logic.
func (s *RoundService) submitScoresLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID, scores []ScoreSubmission) (results.OperationResult[empty, error], error) {
	round, info, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	player, err := s.authorize(ctx, db, round, userID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	if player == nil {
		return results.FailureResult[empty, error](
			apperrors.New(apperrors.KindAuthorization, "only round players can submit scores")), nil
	}
	if len(scores) == 0 {
		return results.FailureResult[empty, error](
			apperrors.New(apperrors.KindValidation, "no scores submitted")), nil
	}

	playerRows, err := s.repo.GetPlayers(ctx, db, roundID)
	if err != nil {
		return results.OperationResult[empty, error]{}, fmt.Errorf("failed to get players: %w", err)
	}
	known := make(map[sharedtypes.PlayerID]bool, len(playerRows))
	for _, row := range playerRows {
		known[row.ID] = true
	}

	for _, sub := range scores {
		if !known[sub.PlayerID] {
			return results.FailureResult[empty, error](
				apperrors.Newf(apperrors.KindValidation, "player %s is not in this round", sub.PlayerID)), nil
		}
		if sub.HoleNumber < 1 || sub.HoleNumber > info.HoleCount {
			return results.FailureResult[empty, error](
				apperrors.Newf(apperrors.KindValidation, "hole number %d outside 1..%d", sub.HoleNumber, info.HoleCount)), nil
		}
		if sub.Strokes < minStrokes || sub.Strokes > maxStrokes {
			return results.FailureResult[empty, error](
				apperrors.Newf(apperrors.KindValidation, "strokes must be between %d and %d", minStrokes, maxStrokes)), nil
		}
	}

	for _, sub := range scores {
		err := s.repo.UpsertScore(ctx, db, &rounddb.Score{
			RoundID:    roundID,
			PlayerID:   sub.PlayerID,
			HoleNumber: sub.HoleNumber,
			Strokes:    sub.Strokes,
		})
		if err != nil {
			return results.OperationResult[empty, error]{}, fmt.Errorf("failed to upsert score: %w", err)
		}
	}
	return results.SuccessResult[empty, error](empty{}), nil
}
