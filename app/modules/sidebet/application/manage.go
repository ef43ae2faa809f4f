package sidebetservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	sidebetdb "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Create records a new bet among round players.
func (s *SideBetService) Create(ctx context.Context, roundID sharedtypes.RoundID, userID sharedtypes.UserID, input CreateSideBetInput) (*sidebetengine.SettledBet, error) {
	createTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return s.createLogic(ctx, db, roundID, userID, input)
	}

	result, err := withTelemetry(s, ctx, "CreateSideBet", roundID.String(), func(ctx context.Context) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return runInTx(s, ctx, createTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// createLogic contains the core logic. The creator always participates;
// hole-scoped bets must name a hole on the course, round-scoped bets must
// not name one.
func (s *SideBetService) createLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID, input CreateSideBetInput) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
	round, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	creator, err := s.authorize(ctx, db, round, userID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	if creator == nil {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindAuthorization, "only round players can create side bets")), nil
	}

	if strings.TrimSpace(input.Name) == "" {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindValidation, "side bet name is required")), nil
	}
	if input.Amount <= 0 {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindValidation, "side bet amount must be positive")), nil
	}

	betType := sidebetengine.BetType(input.BetType)
	switch betType {
	case sidebetengine.BetTypeHole:
		if input.HoleNumber == nil {
			return results.FailureResult[*sidebetengine.SettledBet, error](
				apperrors.New(apperrors.KindValidation, "hole bets require a hole number")), nil
		}
		holeCount := 0
		if round.Course != nil {
			holeCount = round.Course.HoleCount
		}
		if *input.HoleNumber < 1 || *input.HoleNumber > holeCount {
			return results.FailureResult[*sidebetengine.SettledBet, error](
				apperrors.Newf(apperrors.KindValidation, "hole number %d outside 1..%d", *input.HoleNumber, holeCount)), nil
		}
	case sidebetengine.BetTypeRound:
		if input.HoleNumber != nil {
			return results.FailureResult[*sidebetengine.SettledBet, error](
				apperrors.New(apperrors.KindValidation, "round bets cannot name a hole number")), nil
		}
	default:
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.Newf(apperrors.KindValidation, "bet type must be %q or %q", sidebetengine.BetTypeHole, sidebetengine.BetTypeRound)), nil
	}

	playerRows, err := s.rounds.GetPlayers(ctx, db, roundID)
	if err != nil {
		return results.OperationResult[*sidebetengine.SettledBet, error]{}, fmt.Errorf("failed to get players: %w", err)
	}
	known := make(map[sharedtypes.PlayerID]bool, len(playerRows))
	for _, row := range playerRows {
		known[row.ID] = true
	}

	seen := map[sharedtypes.PlayerID]bool{creator.ID: true}
	participantIDs := []sharedtypes.PlayerID{creator.ID}
	for _, id := range input.Participants {
		if !known[id] {
			return results.FailureResult[*sidebetengine.SettledBet, error](
				apperrors.Newf(apperrors.KindValidation, "player %s is not in this round", id)), nil
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		participantIDs = append(participantIDs, id)
	}
	if len(participantIDs) < 2 {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindValidation, "side bets need at least two participants")), nil
	}

	bet := &sidebetdb.SideBet{
		ID:          sharedtypes.NewBetID(),
		RoundID:     roundID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Amount:      input.Amount,
		BetType:     string(betType),
		HoleNumber:  input.HoleNumber,
		CreatedByID: creator.ID,
	}
	participants := make([]sidebetdb.SideBetParticipant, 0, len(participantIDs))
	for _, id := range participantIDs {
		participants = append(participants, sidebetdb.SideBetParticipant{
			SideBetID: bet.ID,
			PlayerID:  id,
		})
	}
	if err := s.repo.Create(ctx, db, bet, participants); err != nil {
		return results.OperationResult[*sidebetengine.SettledBet, error]{}, err
	}

	settled, err := s.settleBet(ctx, db, bet)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	return results.SuccessResult[*sidebetengine.SettledBet, error](settled), nil
}

// Update edits a bet's fields and/or declares or clears its winner.
func (s *SideBetService) Update(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID, input UpdateSideBetInput) (*sidebetengine.SettledBet, error) {
	updateTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return s.updateLogic(ctx, db, roundID, betID, userID, input)
	}

	result, err := withTelemetry(s, ctx, "UpdateSideBet", betID.String(), func(ctx context.Context) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
		return runInTx(s, ctx, updateTx)
	})
	if err != nil {
		return nil, err
	}
	if result.IsFailure() {
		return nil, *result.Failure
	}
	return *result.Success, nil
}

// updateLogic contains the core logic. Declaring a winner clears any
// previous winner inside the same transaction, so the single-winner
// invariant holds at every commit point.
func (s *SideBetService) updateLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID, input UpdateSideBetInput) (results.OperationResult[*sidebetengine.SettledBet, error], error) {
	round, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	player, err := s.authorize(ctx, db, round, userID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	if player == nil {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindAuthorization, "only round players can update side bets")), nil
	}

	bet, err := s.getBet(ctx, db, betID, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	if bet.CancelledAt != nil {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindConflict, "cannot update a cancelled side bet")), nil
	}
	if input.WinnerID != nil && input.ClearWinner {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindValidation, "cannot declare and clear a winner in the same request")), nil
	}

	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return results.FailureResult[*sidebetengine.SettledBet, error](
			apperrors.New(apperrors.KindValidation, "side bet name cannot be empty")), nil
	}
	if input.Name != nil || input.Description != nil {
		if err := s.repo.UpdateFields(ctx, db, betID, input.Name, input.Description); err != nil {
			return results.OperationResult[*sidebetengine.SettledBet, error]{}, err
		}
	}

	switch {
	case input.ClearWinner:
		if err := s.repo.ClearWinners(ctx, db, betID); err != nil {
			return results.OperationResult[*sidebetengine.SettledBet, error]{}, err
		}
	case input.WinnerID != nil:
		if err := s.repo.ClearWinners(ctx, db, betID); err != nil {
			return results.OperationResult[*sidebetengine.SettledBet, error]{}, err
		}
		if err := s.repo.SetWinner(ctx, db, betID, *input.WinnerID, player.ID); err != nil {
			if errors.Is(err, sidebetdb.ErrNoRowsAffected) {
				return results.FailureResult[*sidebetengine.SettledBet, error](
					apperrors.New(apperrors.KindValidation, "player is not a participant in this bet")), nil
			}
			return results.OperationResult[*sidebetengine.SettledBet, error]{}, err
		}
	}

	fresh, err := s.getBet(ctx, db, betID, roundID)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	settled, err := s.settleBet(ctx, db, fresh)
	if err != nil {
		return failIfDomain[*sidebetengine.SettledBet](err)
	}
	return results.SuccessResult[*sidebetengine.SettledBet, error](settled), nil
}

// Cancel cancels a bet. Terminal.
func (s *SideBetService) Cancel(ctx context.Context, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) error {
	cancelTx := func(ctx context.Context, db bun.IDB) (results.OperationResult[empty, error], error) {
		return s.cancelLogic(ctx, db, roundID, betID, userID)
	}

	result, err := withTelemetry(s, ctx, "CancelSideBet", betID.String(), func(ctx context.Context) (results.OperationResult[empty, error], error) {
		return runInTx(s, ctx, cancelTx)
	})
	if err != nil {
		return err
	}
	if result.IsFailure() {
		return *result.Failure
	}
	return nil
}

type empty struct{}

// cancelLogic contains the core logic.
func (s *SideBetService) cancelLogic(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, betID sharedtypes.BetID, userID sharedtypes.UserID) (results.OperationResult[empty, error], error) {
	round, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	player, err := s.authorize(ctx, db, round, userID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	if player == nil {
		return results.FailureResult[empty, error](
			apperrors.New(apperrors.KindAuthorization, "only round players can cancel side bets")), nil
	}

	bet, err := s.getBet(ctx, db, betID, roundID)
	if err != nil {
		return failIfDomain[empty](err)
	}
	if bet.CancelledAt != nil {
		return results.FailureResult[empty, error](
			apperrors.New(apperrors.KindConflict, "side bet is already cancelled")), nil
	}

	if err := s.repo.Cancel(ctx, db, betID, player.ID); err != nil {
		return results.OperationResult[empty, error]{}, err
	}
	return results.SuccessResult[empty, error](empty{}), nil
}
