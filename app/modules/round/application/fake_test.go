package roundservice

import (
	"context"

	"github.com/uptrace/bun"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// ------------------------
// Fake Round Repo
// ------------------------

type FakeRoundRepo struct {
	trace []string

	GetRoundFunc        func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error)
	GetPlayersFunc      func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.RoundPlayer, error)
	GetPlayerByUserFunc func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error)
	GetScoresFunc       func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.Score, error)
	GetParsFunc         func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.HolePar, error)
	UpsertParFunc       func(ctx context.Context, db bun.IDB, par *rounddb.HolePar) error
	UpsertScoreFunc     func(ctx context.Context, db bun.IDB, score *rounddb.Score) error
}

func NewFakeRoundRepo() *FakeRoundRepo {
	return &FakeRoundRepo{
		trace: []string{},
	}
}

func (f *FakeRoundRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeRoundRepo) GetRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error) {
	f.record("GetRound")
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetPlayers(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.RoundPlayer, error) {
	f.record("GetPlayers")
	if f.GetPlayersFunc != nil {
		return f.GetPlayersFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) GetPlayerByUser(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error) {
	f.record("GetPlayerByUser")
	if f.GetPlayerByUserFunc != nil {
		return f.GetPlayerByUserFunc(ctx, db, roundID, userID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundRepo) GetScores(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.Score, error) {
	f.record("GetScores")
	if f.GetScoresFunc != nil {
		return f.GetScoresFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) GetPars(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.HolePar, error) {
	f.record("GetPars")
	if f.GetParsFunc != nil {
		return f.GetParsFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundRepo) UpsertPar(ctx context.Context, db bun.IDB, par *rounddb.HolePar) error {
	f.record("UpsertPar")
	if f.UpsertParFunc != nil {
		return f.UpsertParFunc(ctx, db, par)
	}
	return nil
}

func (f *FakeRoundRepo) UpsertScore(ctx context.Context, db bun.IDB, score *rounddb.Score) error {
	f.record("UpsertScore")
	if f.UpsertScoreFunc != nil {
		return f.UpsertScoreFunc(ctx, db, score)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeRoundRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ rounddb.Repository = (*FakeRoundRepo)(nil)

// ------------------------
// Fake Standings Provider
// ------------------------

type FakeStandings struct {
	StandingsForRoundFunc func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error)
}

func (f *FakeStandings) StandingsForRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error) {
	if f.StandingsForRoundFunc != nil {
		return f.StandingsForRoundFunc(ctx, db, roundID, players)
	}
	return nil, nil
}

var _ SideBetStandings = (*FakeStandings)(nil)
