package roundengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// cardFor builds score rows giving a player the requested totals.
func cardFor(playerID sharedtypes.PlayerID, totalStrokes, holes int) []sharedtypes.ScoreInfo {
	scores := make([]sharedtypes.ScoreInfo, 0, holes)
	remaining := totalStrokes
	for h := 1; h <= holes; h++ {
		strokes := remaining / (holes - h + 1)
		remaining -= strokes
		scores = append(scores, sharedtypes.ScoreInfo{PlayerID: playerID, HoleNumber: h, Strokes: strokes})
	}
	return scores
}

func TestComposeLeaderboardOrdering(t *testing.T) {
	names := []string{"casey", "drew", "emery"}
	players := make([]sharedtypes.PlayerInfo, 3)
	for i := range players {
		players[i] = sharedtypes.PlayerInfo{PlayerID: sharedtypes.NewPlayerID(), Username: &names[i]}
	}

	// casey and drew are tied on strokes; casey has played more holes and
	// ranks ahead.
	var scores []sharedtypes.ScoreInfo
	scores = append(scores, cardFor(players[0].PlayerID, 54, 18)...)
	scores = append(scores, cardFor(players[1].PlayerID, 54, 17)...)
	scores = append(scores, cardFor(players[2].PlayerID, 58, 18)...)

	round := RoundInfo{StartingHole: 1, HoleCount: 18}
	lb := ComposeLeaderboard(round, players, scores, ParLookup{}, nil, nil)

	require.Len(t, lb.Players, 3)
	assert.Equal(t, players[0].PlayerID, lb.Players[0].PlayerID)
	assert.Equal(t, 1, lb.Players[0].Position)
	assert.Equal(t, players[1].PlayerID, lb.Players[1].PlayerID)
	assert.Equal(t, 2, lb.Players[1].Position)
	assert.Equal(t, players[2].PlayerID, lb.Players[2].PlayerID)
	assert.Equal(t, 3, lb.Players[2].Position)
}

func TestComposeLeaderboardDefaultsWithoutWagers(t *testing.T) {
	playerA, playerB := twoPlayers()
	round := RoundInfo{StartingHole: 1, HoleCount: 9, SkinsEnabled: false, SkinsValue: 0}

	lb := ComposeLeaderboard(round, []sharedtypes.PlayerInfo{playerA, playerB}, nil, ParLookup{}, nil, nil)

	require.Len(t, lb.Players, 2)
	for _, row := range lb.Players {
		assert.Equal(t, 0, row.SkinsWon)
		assert.Equal(t, "0.00", row.MoneyIn)
		assert.Equal(t, "0.00", row.MoneyOut)
		assert.Equal(t, "0.00", row.Total)
		assert.Equal(t, 0, row.SideBetsWon)
		assert.Equal(t, "0.00", row.SideBetsNetGain)
		assert.Equal(t, "0.00", row.OverallNetGain)
	}
	assert.False(t, lb.RoundSettings.SkinsEnabled)
	assert.Equal(t, "0.00", lb.RoundSettings.SkinsValue)
	assert.Equal(t, 0, lb.RoundSettings.CurrentCarryOver)
}

func TestComposeLeaderboardMergesWagerMoney(t *testing.T) {
	playerA, playerB := twoPlayers()
	players := []sharedtypes.PlayerInfo{playerA, playerB}
	round := RoundInfo{
		RoundID:      sharedtypes.NewRoundID(),
		StartingHole: 1,
		HoleCount:    2,
		SkinsEnabled: true,
		SkinsValue:   5,
	}
	scores := []sharedtypes.ScoreInfo{
		{PlayerID: playerA.PlayerID, HoleNumber: 1, Strokes: 2},
		{PlayerID: playerB.PlayerID, HoleNumber: 1, Strokes: 4},
		{PlayerID: playerA.PlayerID, HoleNumber: 2, Strokes: 3},
		{PlayerID: playerB.PlayerID, HoleNumber: 2, Strokes: 3},
	}

	skins, err := CalculateSkins(round, players, scores)
	require.NoError(t, err)

	sideBets := map[sharedtypes.PlayerID]SideBetStanding{
		playerA.PlayerID: {SideBetsWon: 1, NetGain: -2},
		playerB.PlayerID: {SideBetsWon: 0, NetGain: -2},
	}

	lb := ComposeLeaderboard(round, players, scores, ParLookup{}, skins, sideBets)

	require.Len(t, lb.Players, 2)
	top := lb.Players[0]
	assert.Equal(t, playerA.PlayerID, top.PlayerID)
	assert.Equal(t, 1, top.SkinsWon)
	assert.Equal(t, "5.00", top.MoneyIn)
	assert.Equal(t, "0.00", top.MoneyOut)
	assert.Equal(t, "5.00", top.Total)
	assert.Equal(t, 1, top.SideBetsWon)
	assert.Equal(t, "-2.00", top.SideBetsNetGain)
	assert.Equal(t, "3.00", top.OverallNetGain)

	second := lb.Players[1]
	assert.Equal(t, "-5.00", second.Total)
	assert.Equal(t, "-7.00", second.OverallNetGain)

	assert.True(t, lb.RoundSettings.SkinsEnabled)
	assert.Equal(t, "5.00", lb.RoundSettings.SkinsValue)
	assert.Equal(t, 1, lb.RoundSettings.CurrentCarryOver)
}
