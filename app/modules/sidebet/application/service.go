package sidebetservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	sidebetdb "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	settlementmetrics "github.com/discbaboons/rounds-service/internal/observability/metrics/settlement"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// SideBetService implements the Service interface.
type SideBetService struct {
	repo    sidebetdb.Repository
	rounds  rounddb.Repository
	logger  *slog.Logger
	metrics settlementmetrics.SettlementMetrics
	tracer  trace.Tracer
	db      *bun.DB
}

// NewSideBetService creates a new SideBetService.
func NewSideBetService(
	repo sidebetdb.Repository,
	rounds rounddb.Repository,
	logger *slog.Logger,
	metrics settlementmetrics.SettlementMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *SideBetService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = settlementmetrics.NewNoop()
	}
	return &SideBetService{
		repo:    repo,
		rounds:  rounds,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
		db:      db,
	}
}

// loadRound fetches the round a bet belongs to.
func (s *SideBetService) loadRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error) {
	round, err := s.rounds.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "round not found")
		}
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return round, nil
}

// authorize checks that the caller is the round creator or one of its
// players. Returns the caller's player row when they have one, nil for a
// creator who is not playing.
func (s *SideBetService) authorize(ctx context.Context, db bun.IDB, round *rounddb.Round, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error) {
	player, err := s.rounds.GetPlayerByUser(ctx, db, round.ID, userID)
	if err != nil {
		if !errors.Is(err, rounddb.ErrNotFound) {
			return nil, fmt.Errorf("failed to check round membership: %w", err)
		}
		if round.CreatedByID != userID {
			return nil, apperrors.New(apperrors.KindAuthorization, "user is not a participant in this round")
		}
		return nil, nil
	}
	return player, nil
}

// getBet fetches a bet scoped to its round, mapping absence to NotFound.
func (s *SideBetService) getBet(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, roundID sharedtypes.RoundID) (*sidebetdb.SideBet, error) {
	bet, err := s.repo.GetByID(ctx, db, betID, roundID)
	if err != nil {
		if errors.Is(err, sidebetdb.ErrNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "side bet not found")
		}
		return nil, fmt.Errorf("failed to get side bet: %w", err)
	}
	return bet, nil
}

// settleBet loads a bet's participants and settles it.
func (s *SideBetService) settleBet(ctx context.Context, db bun.IDB, bet *sidebetdb.SideBet) (*sidebetengine.SettledBet, error) {
	rows, err := s.repo.GetParticipants(ctx, db, bet.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	participants := make([]sidebetengine.ParticipantInfo, 0, len(rows))
	for i := range rows {
		participants = append(participants, rows[i].ParticipantInfo())
	}
	return sidebetengine.Settle(bet.BetInfo(), participants)
}

// settleRound loads and settles every bet of a round.
func (s *SideBetService) settleRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]*sidebetengine.SettledBet, error) {
	bets, err := s.repo.ListByRound(ctx, db, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list side bets: %w", err)
	}
	if len(bets) == 0 {
		return nil, nil
	}

	betIDs := make([]sharedtypes.BetID, 0, len(bets))
	for _, bet := range bets {
		betIDs = append(betIDs, bet.ID)
	}
	rows, err := s.repo.ListParticipants(ctx, db, betIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants: %w", err)
	}
	byBet := make(map[sharedtypes.BetID][]sidebetengine.ParticipantInfo, len(bets))
	for i := range rows {
		byBet[rows[i].SideBetID] = append(byBet[rows[i].SideBetID], rows[i].ParticipantInfo())
	}

	settled := make([]*sidebetengine.SettledBet, 0, len(bets))
	for i := range bets {
		sb, err := sidebetengine.Settle(bets[i].BetInfo(), byBet[bets[i].ID])
		if err != nil {
			return nil, err
		}
		settled = append(settled, sb)
	}
	return settled, nil
}

// roundPlayers loads a round's players as the flat engine shape.
func (s *SideBetService) roundPlayers(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]sharedtypes.PlayerInfo, error) {
	rows, err := s.rounds.GetPlayers(ctx, db, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	players := make([]sharedtypes.PlayerInfo, 0, len(rows))
	for i := range rows {
		players = append(players, rows[i].PlayerInfo())
	}
	return players, nil
}

// failIfDomain routes kinded errors into the failure slot and everything
// else into the infrastructure error return.
func failIfDomain[S any](err error) (results.OperationResult[S, error], error) {
	if _, ok := apperrors.KindOf(err); ok {
		return results.FailureResult[S, error](err), nil
	}
	return results.OperationResult[S, error]{}, err
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *SideBetService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {

	// Start span
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "SideBetService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "SideBetService", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "SideBetService")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "SideBetService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "SideBetService")

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *SideBetService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {

	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]

	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
