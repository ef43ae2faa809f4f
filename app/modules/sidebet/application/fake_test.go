package sidebetservice

import (
	"context"

	"github.com/uptrace/bun"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	sidebetdb "github.com/discbaboons/rounds-service/app/modules/sidebet/infrastructure/repositories"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// ------------------------
// Fake Side Bet Repo
// ------------------------

type FakeSideBetRepo struct {
	trace []string

	ListByRoundFunc      func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]sidebetdb.SideBet, error)
	GetByIDFunc          func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, roundID sharedtypes.RoundID) (*sidebetdb.SideBet, error)
	GetParticipantsFunc  func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) ([]sidebetdb.ParticipantDetail, error)
	ListParticipantsFunc func(ctx context.Context, db bun.IDB, betIDs []sharedtypes.BetID) ([]sidebetdb.ParticipantDetail, error)
	CreateFunc           func(ctx context.Context, db bun.IDB, bet *sidebetdb.SideBet, participants []sidebetdb.SideBetParticipant) error
	UpdateFieldsFunc     func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, name, description *string) error
	ClearWinnersFunc     func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) error
	SetWinnerFunc        func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, winnerID, declaredByID sharedtypes.PlayerID) error
	CancelFunc           func(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, cancelledByID sharedtypes.PlayerID) error
}

func NewFakeSideBetRepo() *FakeSideBetRepo {
	return &FakeSideBetRepo{
		trace: []string{},
	}
}

func (f *FakeSideBetRepo) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Repository Interface Implementation ---

func (f *FakeSideBetRepo) ListByRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]sidebetdb.SideBet, error) {
	f.record("ListByRound")
	if f.ListByRoundFunc != nil {
		return f.ListByRoundFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeSideBetRepo) GetByID(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, roundID sharedtypes.RoundID) (*sidebetdb.SideBet, error) {
	f.record("GetByID")
	if f.GetByIDFunc != nil {
		return f.GetByIDFunc(ctx, db, betID, roundID)
	}
	return nil, sidebetdb.ErrNotFound
}

func (f *FakeSideBetRepo) GetParticipants(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) ([]sidebetdb.ParticipantDetail, error) {
	f.record("GetParticipants")
	if f.GetParticipantsFunc != nil {
		return f.GetParticipantsFunc(ctx, db, betID)
	}
	return nil, nil
}

func (f *FakeSideBetRepo) ListParticipants(ctx context.Context, db bun.IDB, betIDs []sharedtypes.BetID) ([]sidebetdb.ParticipantDetail, error) {
	f.record("ListParticipants")
	if f.ListParticipantsFunc != nil {
		return f.ListParticipantsFunc(ctx, db, betIDs)
	}
	return nil, nil
}

func (f *FakeSideBetRepo) Create(ctx context.Context, db bun.IDB, bet *sidebetdb.SideBet, participants []sidebetdb.SideBetParticipant) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, bet, participants)
	}
	return nil
}

func (f *FakeSideBetRepo) UpdateFields(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, name, description *string) error {
	f.record("UpdateFields")
	if f.UpdateFieldsFunc != nil {
		return f.UpdateFieldsFunc(ctx, db, betID, name, description)
	}
	return nil
}

func (f *FakeSideBetRepo) ClearWinners(ctx context.Context, db bun.IDB, betID sharedtypes.BetID) error {
	f.record("ClearWinners")
	if f.ClearWinnersFunc != nil {
		return f.ClearWinnersFunc(ctx, db, betID)
	}
	return nil
}

func (f *FakeSideBetRepo) SetWinner(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, winnerID, declaredByID sharedtypes.PlayerID) error {
	f.record("SetWinner")
	if f.SetWinnerFunc != nil {
		return f.SetWinnerFunc(ctx, db, betID, winnerID, declaredByID)
	}
	return nil
}

func (f *FakeSideBetRepo) Cancel(ctx context.Context, db bun.IDB, betID sharedtypes.BetID, cancelledByID sharedtypes.PlayerID) error {
	f.record("Cancel")
	if f.CancelFunc != nil {
		return f.CancelFunc(ctx, db, betID, cancelledByID)
	}
	return nil
}

// --- Accessors for assertions ---

func (f *FakeSideBetRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ sidebetdb.Repository = (*FakeSideBetRepo)(nil)

// ------------------------
// Fake Rounds Repo
// ------------------------

type FakeRoundsRepo struct {
	GetRoundFunc        func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error)
	GetPlayersFunc      func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.RoundPlayer, error)
	GetPlayerByUserFunc func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error)
}

func (f *FakeRoundsRepo) GetRound(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error) {
	if f.GetRoundFunc != nil {
		return f.GetRoundFunc(ctx, db, roundID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundsRepo) GetPlayers(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.RoundPlayer, error) {
	if f.GetPlayersFunc != nil {
		return f.GetPlayersFunc(ctx, db, roundID)
	}
	return nil, nil
}

func (f *FakeRoundsRepo) GetPlayerByUser(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error) {
	if f.GetPlayerByUserFunc != nil {
		return f.GetPlayerByUserFunc(ctx, db, roundID, userID)
	}
	return nil, rounddb.ErrNotFound
}

func (f *FakeRoundsRepo) GetScores(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.Score, error) {
	return nil, nil
}

func (f *FakeRoundsRepo) GetPars(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.HolePar, error) {
	return nil, nil
}

func (f *FakeRoundsRepo) UpsertPar(ctx context.Context, db bun.IDB, par *rounddb.HolePar) error {
	return nil
}

func (f *FakeRoundsRepo) UpsertScore(ctx context.Context, db bun.IDB, score *rounddb.Score) error {
	return nil
}

var _ rounddb.Repository = (*FakeRoundsRepo)(nil)
