package roundservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	rounddb "github.com/discbaboons/rounds-service/app/modules/round/infrastructure/repositories"
	sidebetengine "github.com/discbaboons/rounds-service/app/modules/sidebet/engine"
	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

type roundFixture struct {
	round   *rounddb.Round
	creator sharedtypes.UserID
	players []rounddb.RoundPlayer
}

// newRoundFixture builds a 4-hole round with two registered players; the
// first player is the round creator.
func newRoundFixture(skinsEnabled bool) *roundFixture {
	creator := sharedtypes.UserID(101)
	other := sharedtypes.UserID(102)
	roundID := sharedtypes.NewRoundID()

	round := &rounddb.Round{
		ID:           roundID,
		CreatedByID:  creator,
		StartingHole: 3,
		SkinsEnabled: skinsEnabled,
		SkinsValue:   5,
		Course:       &rounddb.Course{ID: uuid.New(), Name: "Morley Field", HoleCount: 4},
	}

	aliceName := "alice"
	bobName := "bob"
	players := []rounddb.RoundPlayer{
		{
			ID:      sharedtypes.NewPlayerID(),
			RoundID: roundID,
			UserID:  &creator,
			User:    &rounddb.User{ID: creator, Username: aliceName},
		},
		{
			ID:      sharedtypes.NewPlayerID(),
			RoundID: roundID,
			UserID:  &other,
			User:    &rounddb.User{ID: other, Username: bobName},
		},
	}

	return &roundFixture{round: round, creator: creator, players: players}
}

func (fx *roundFixture) install(f *FakeRoundRepo) {
	f.GetRoundFunc = func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) (*rounddb.Round, error) {
		if roundID != fx.round.ID {
			return nil, rounddb.ErrNotFound
		}
		return fx.round, nil
	}
	f.GetPlayersFunc = func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.RoundPlayer, error) {
		return fx.players, nil
	}
	f.GetPlayerByUserFunc = func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, userID sharedtypes.UserID) (*rounddb.RoundPlayer, error) {
		for i := range fx.players {
			if fx.players[i].UserID != nil && *fx.players[i].UserID == userID {
				return &fx.players[i], nil
			}
		}
		return nil, rounddb.ErrNotFound
	}
}

// scoresFor spreads a full round of committed scores over the fixture:
// player 0 wins hole 3, holes 4 and 1 tie, player 1 wins hole 2.
func (fx *roundFixture) scoresFor(f *FakeRoundRepo) {
	scores := []rounddb.Score{
		{RoundID: fx.round.ID, PlayerID: fx.players[0].ID, HoleNumber: 3, Strokes: 2},
		{RoundID: fx.round.ID, PlayerID: fx.players[1].ID, HoleNumber: 3, Strokes: 4},
		{RoundID: fx.round.ID, PlayerID: fx.players[0].ID, HoleNumber: 4, Strokes: 3},
		{RoundID: fx.round.ID, PlayerID: fx.players[1].ID, HoleNumber: 4, Strokes: 3},
		{RoundID: fx.round.ID, PlayerID: fx.players[0].ID, HoleNumber: 1, Strokes: 3},
		{RoundID: fx.round.ID, PlayerID: fx.players[1].ID, HoleNumber: 1, Strokes: 3},
		{RoundID: fx.round.ID, PlayerID: fx.players[0].ID, HoleNumber: 2, Strokes: 4},
		{RoundID: fx.round.ID, PlayerID: fx.players[1].ID, HoleNumber: 2, Strokes: 2},
	}
	f.GetScoresFunc = func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.Score, error) {
		return scores, nil
	}
}

func newTestService(repo *FakeRoundRepo, standings SideBetStandings) *RoundService {
	return NewRoundService(repo, standings, slog.Default(), nil, nil, nil)
}

func TestGetLeaderboard(t *testing.T) {
	fx := newRoundFixture(true)

	t.Run("happy path merges skins and side bets", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		fx.scoresFor(fakeRepo)
		standings := &FakeStandings{
			StandingsForRoundFunc: func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error) {
				return map[sharedtypes.PlayerID]sidebetengine.Standing{
					fx.players[0].ID: {SideBetsWon: 2, NetGain: -3},
				}, nil
			},
		}
		svc := newTestService(fakeRepo, standings)

		lb, err := svc.GetLeaderboard(context.Background(), fx.round.ID, fx.creator)
		require.NoError(t, err)
		require.Len(t, lb.Players, 2)

		// Player 0 has 12 strokes, player 1 has 12: stable order keeps
		// join order on a full tie of strokes and holes.
		assert.Equal(t, 1, lb.Players[0].Position)
		assert.Equal(t, fx.players[0].ID, lb.Players[0].PlayerID)
		assert.Equal(t, 1, lb.Players[0].SkinsWon)
		assert.Equal(t, 2, lb.Players[0].SideBetsWon)
		assert.Equal(t, "-3.00", lb.Players[0].SideBetsNetGain)
		assert.Equal(t, 3, lb.Players[1].SkinsWon)
		assert.True(t, lb.RoundSettings.SkinsEnabled)
		assert.Equal(t, 0, lb.RoundSettings.CurrentCarryOver)
	})

	t.Run("standings failure is isolated", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		fx.scoresFor(fakeRepo)
		standings := &FakeStandings{
			StandingsForRoundFunc: func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID, players []sharedtypes.PlayerInfo) (map[sharedtypes.PlayerID]sidebetengine.Standing, error) {
				return nil, errors.New("side bets exploded")
			},
		}
		svc := newTestService(fakeRepo, standings)

		lb, err := svc.GetLeaderboard(context.Background(), fx.round.ID, fx.creator)
		require.NoError(t, err)
		require.Len(t, lb.Players, 2)
		assert.Equal(t, 0, lb.Players[0].SideBetsWon)
		assert.Equal(t, "0.00", lb.Players[0].SideBetsNetGain)
		assert.Equal(t, 1, lb.Players[0].SkinsWon, "skins still merged")
	})

	t.Run("round not found", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		svc := newTestService(fakeRepo, nil)

		_, err := svc.GetLeaderboard(context.Background(), sharedtypes.NewRoundID(), fx.creator)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("outsider is rejected", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		svc := newTestService(fakeRepo, nil)

		_, err := svc.GetLeaderboard(context.Background(), fx.round.ID, sharedtypes.UserID(999))
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
	})

	t.Run("missing course hole count", func(t *testing.T) {
		broken := newRoundFixture(false)
		broken.round.Course = nil
		fakeRepo := NewFakeRoundRepo()
		broken.install(fakeRepo)
		svc := newTestService(fakeRepo, nil)

		_, err := svc.GetLeaderboard(context.Background(), broken.round.ID, broken.creator)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindMissingInput))
	})
}

func TestCalculateSkins(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		fx := newRoundFixture(true)
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		fx.scoresFor(fakeRepo)
		svc := newTestService(fakeRepo, nil)

		skins, err := svc.CalculateSkins(context.Background(), fx.round.ID, fx.creator)
		require.NoError(t, err)
		assert.Equal(t, "15.00", skins.Holes[2].SkinsValue)
		assert.Equal(t, 0, skins.TotalCarryOver)
	})

	t.Run("skins disabled", func(t *testing.T) {
		fx := newRoundFixture(false)
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		svc := newTestService(fakeRepo, nil)

		_, err := svc.CalculateSkins(context.Background(), fx.round.ID, fx.creator)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestGetScorecard(t *testing.T) {
	fx := newRoundFixture(true)
	fakeRepo := NewFakeRoundRepo()
	fx.install(fakeRepo)
	fx.scoresFor(fakeRepo)
	fakeRepo.GetParsFunc = func(ctx context.Context, db bun.IDB, roundID sharedtypes.RoundID) ([]rounddb.HolePar, error) {
		return []rounddb.HolePar{{RoundID: fx.round.ID, HoleNumber: 3, Par: 4}}, nil
	}
	svc := newTestService(fakeRepo, nil)

	card, err := svc.GetScorecard(context.Background(), fx.round.ID, fx.creator)
	require.NoError(t, err)

	assert.Equal(t, 4, card.HoleCount)
	require.Len(t, card.Players, 2)

	alice := card.Players[0]
	assert.Equal(t, fx.players[0].ID, alice.PlayerID)
	assert.Equal(t, 4, alice.HolesCompleted)
	assert.Equal(t, 12, alice.TotalStrokes)
	assert.Equal(t, 4, alice.CurrentHole, "clamped to course length")
	assert.Equal(t, ScorecardHole{Strokes: 2, Par: 4, Relative: -2}, alice.Holes[3])
	assert.Equal(t, ScorecardHole{Strokes: 3, Par: 3, Relative: 0}, alice.Holes[1])
}

func TestSetPar(t *testing.T) {
	fx := newRoundFixture(true)

	tests := []struct {
		name       string
		userID     sharedtypes.UserID
		holeNumber int
		par        int
		wantKind   apperrors.Kind
		wantErr    bool
		wantUpsert bool
	}{
		{name: "happy path", userID: fx.creator, holeNumber: 2, par: 4, wantUpsert: true},
		{name: "hole past course length", userID: fx.creator, holeNumber: 5, par: 4, wantErr: true, wantKind: apperrors.KindValidation},
		{name: "hole zero", userID: fx.creator, holeNumber: 0, par: 4, wantErr: true, wantKind: apperrors.KindValidation},
		{name: "par out of range", userID: fx.creator, holeNumber: 2, par: 11, wantErr: true, wantKind: apperrors.KindValidation},
		{name: "outsider", userID: 999, holeNumber: 2, par: 4, wantErr: true, wantKind: apperrors.KindAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := NewFakeRoundRepo()
			fx.install(fakeRepo)
			var upserted *rounddb.HolePar
			fakeRepo.UpsertParFunc = func(ctx context.Context, db bun.IDB, par *rounddb.HolePar) error {
				upserted = par
				return nil
			}
			svc := newTestService(fakeRepo, nil)

			err := svc.SetPar(context.Background(), fx.round.ID, tt.userID, tt.holeNumber, tt.par)

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, tt.wantKind))
				assert.Nil(t, upserted)
				assert.NotContains(t, fakeRepo.Trace(), "UpsertPar")
				return
			}
			require.NoError(t, err)
			require.NotNil(t, upserted)
			assert.Equal(t, tt.holeNumber, upserted.HoleNumber)
			assert.Equal(t, tt.par, upserted.Par)
			assert.Equal(t, fx.players[0].ID, upserted.SetByPlayerID)
		})
	}
}

func TestSubmitScores(t *testing.T) {
	fx := newRoundFixture(true)

	t.Run("happy path upserts every score", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		var upserts []*rounddb.Score
		fakeRepo.UpsertScoreFunc = func(ctx context.Context, db bun.IDB, score *rounddb.Score) error {
			upserts = append(upserts, score)
			return nil
		}
		svc := newTestService(fakeRepo, nil)

		err := svc.SubmitScores(context.Background(), fx.round.ID, fx.creator, []ScoreSubmission{
			{PlayerID: fx.players[0].ID, HoleNumber: 1, Strokes: 3},
			{PlayerID: fx.players[1].ID, HoleNumber: 1, Strokes: 4},
		})
		require.NoError(t, err)
		require.Len(t, upserts, 2)
		assert.Equal(t, fx.round.ID, upserts[0].RoundID)
	})

	t.Run("rejects the whole batch on one bad row", func(t *testing.T) {
		tests := []struct {
			name       string
			submission ScoreSubmission
		}{
			{"unknown player", ScoreSubmission{PlayerID: sharedtypes.NewPlayerID(), HoleNumber: 1, Strokes: 3}},
			{"hole past course", ScoreSubmission{HoleNumber: 9, Strokes: 3}},
			{"strokes too high", ScoreSubmission{HoleNumber: 1, Strokes: 21}},
			{"strokes zero", ScoreSubmission{HoleNumber: 1, Strokes: 0}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				fakeRepo := NewFakeRoundRepo()
				fx.install(fakeRepo)
				upserts := 0
				fakeRepo.UpsertScoreFunc = func(ctx context.Context, db bun.IDB, score *rounddb.Score) error {
					upserts++
					return nil
				}
				svc := newTestService(fakeRepo, nil)

				sub := tt.submission
				if sub.PlayerID == (sharedtypes.PlayerID{}) {
					sub.PlayerID = fx.players[0].ID
				}
				good := ScoreSubmission{PlayerID: fx.players[0].ID, HoleNumber: 2, Strokes: 3}

				err := svc.SubmitScores(context.Background(), fx.round.ID, fx.creator, []ScoreSubmission{good, sub})
				require.Error(t, err)
				assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
				assert.Zero(t, upserts, "validation happens before any write")
				assert.NotContains(t, fakeRepo.Trace(), "UpsertScore")
			})
		}
	})

	t.Run("empty batch", func(t *testing.T) {
		fakeRepo := NewFakeRoundRepo()
		fx.install(fakeRepo)
		svc := newTestService(fakeRepo, nil)

		err := svc.SubmitScores(context.Background(), fx.round.ID, fx.creator, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}
