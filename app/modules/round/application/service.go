package roundservice

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

	roundengine "github.com/discbaboons/rounds-service/app/modules/round/engine"
	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/observability/attr"
	settlementmetrics "github.com/discbaboons/rounds-service/internal/observability/metrics/settlement"
	"github.com/discbaboons/rounds-service/internal/results"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// RoundService implements the Service interface.
type RoundService struct {
	repo      rounddb.Repository
	standings SideBetStandings
	logger    *slog.Logger
	metrics   settlementmetrics.SettlementMetrics
	tracer    trace.Tracer
	db        *bun.DB
}

// NewRoundService creates a new RoundService. standings may be nil when
// the side-bet module is not wired; the leaderboard then reports zero
// side-bet columns.
func NewRoundService(
	repo rounddb.Repository,
	standings SideBetStandings,
	logger *slog.Logger,
	metrics settlementmetrics.SettlementMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *RoundService {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = settlementmetrics.NewNoop()
	}
	return &RoundService{
		repo:      repo,
		standings: standings,
		logger:    logger,
		metrics:   metrics,
		tracer:    tracer,
		db:        db,
	}
}

// roundSnapshot is the loaded state every settlement read works from.
type roundSnapshot struct {
	round   *rounddb.Round
	info    roundengine.RoundInfo
	players []sharedtypes.PlayerInfo
	scores  []sharedtypes.ScoreInfo
	pars    roundengine.ParLookup
}

// loadRound fetches the round and validates its settlement scalars.
func (s *RoundService) loadRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, roundengine.RoundInfo, error) {
	round, err := s.repo.GetRound(ctx, db, roundID)
	if err != nil {
		if errors.Is(err, rounddb.ErrNotFound) {
			return nil, roundengine.RoundInfo{}, apperrors.New(apperrors.KindNotFound, "round not found")
		}
		return nil, roundengine.RoundInfo{}, fmt.Errorf("failed to get round: %w", err)
	}
	if round.Course == nil || round.Course.HoleCount < 1 {
		return nil, roundengine.RoundInfo{}, apperrors.New(apperrors.KindMissingInput, "round has no course hole count")
	}
	info := roundengine.RoundInfo{
		RoundID:      round.ID,
		StartingHole: round.StartingHole,
		HoleCount:    round.Course.HoleCount,
		SkinsEnabled: round.SkinsEnabled,
		SkinsValue:   round.SkinsValue,
	}
	return round, info, nil
}

// authorize checks that the caller is the round creator or one of its
// players. Returns the caller's player row when they have one, nil for a
// creator who is not playing.
func (s *RoundService) authorize(ctx context.Context, db bun.IDB, round *rounddb.Round, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error) {
	player, err := s.repo.GetPlayerByUser(ctx, db, round.ID, userID)
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

// loadSnapshot gathers the round, players, scores, and pars after
// authorizing the caller.
func (s *RoundService) loadSnapshot(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*roundSnapshot, error) {
	round, info, err := s.loadRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	if _, err := s.authorize(ctx, db, round, userID); err != nil {
		return nil, err
	}

	playerRows, err := s.repo.GetPlayers(ctx, db, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}
	players := make([]sharedtypes.PlayerInfo, 0, len(playerRows))
	for i := range playerRows {
		players = append(players, playerRows[i].PlayerInfo())
	}

	scoreRows, err := s.repo.GetScores(ctx, db, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores: %w", err)
	}
	scores := make([]sharedtypes.ScoreInfo, 0, len(scoreRows))
	for _, row := range scoreRows {
		scores = append(scores, sharedtypes.ScoreInfo{
			PlayerID:   row.PlayerID,
			HoleNumber: row.HoleNumber,
			Strokes:    row.Strokes,
		})
	}

	parRows, err := s.repo.GetPars(ctx, db, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to get pars: %w", err)
	}
	pars := make([]sharedtypes.ParInfo, 0, len(parRows))
	for _, row := range parRows {
		pars = append(pars, sharedtypes.ParInfo{HoleNumber: row.HoleNumber, Par: row.Par})
	}

	return &roundSnapshot{
		round:   round,
		info:    info,
		players: players,
		scores:  scores,
		pars:    roundengine.NewParLookup(pars),
	}, nil
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
	s *RoundService,
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "RoundService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "RoundService", time.Since(startTime))
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
			s.metrics.RecordOperationFailure(ctx, operationName, "RoundService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "RoundService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "RoundService")

	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *RoundService,
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
