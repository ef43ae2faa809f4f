package sidebetengine

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

func betFixture(amount float64) BetInfo {
	return BetInfo{
		BetID:   sharedtypes.NewBetID(),
		RoundID: sharedtypes.NewRoundID(),
		Name:    "closest to pin",
		Amount:  amount,
		BetType: BetTypeRound,
	}
}

func participantFixtures(n int) []ParticipantInfo {
	participants := make([]ParticipantInfo, n)
	for i := range participants {
		participants[i] = ParticipantInfo{
			PlayerID:    sharedtypes.NewPlayerID(),
			DisplayName: "player-" + strconv.Itoa(i),
		}
	}
	return participants
}

func TestSettleActiveBet(t *testing.T) {
	bet := betFixture(10)
	participants := participantFixtures(3)

	settled, err := Settle(bet, participants)
	require.NoError(t, err)

	assert.Equal(t, StatusActive, settled.Status)
	assert.Equal(t, "10.00", settled.Amount)
	require.Len(t, settled.Participants, 3)
	for _, p := range settled.Participants {
		assert.Equal(t, "-10.00", p.BetAmount)
	}
}

func TestSettleCompletedBetIsZeroSum(t *testing.T) {
	tests := []struct {
		name         string
		amount       float64
		participants int
	}{
		{"two players", 5, 2},
		{"four players", 2.5, 4},
		{"big group", 1, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bet := betFixture(tt.amount)
			participants := participantFixtures(tt.participants)
			now := time.Now()
			participants[0].IsWinner = true
			participants[0].WonAt = &now

			settled, err := Settle(bet, participants)
			require.NoError(t, err)
			assert.Equal(t, StatusCompleted, settled.Status)

			var sum float64
			for _, p := range settled.Participants {
				amount, parseErr := strconv.ParseFloat(p.BetAmount, 64)
				require.NoError(t, parseErr)
				sum += amount
				if p.IsWinner {
					assert.InDelta(t, tt.amount*float64(tt.participants-1), amount, 1e-9)
				} else {
					assert.InDelta(t, -tt.amount, amount, 1e-9)
				}
			}
			assert.InDelta(t, 0, sum, 1e-9)
		})
	}
}

func TestSettleCancelledBetZeroesEveryone(t *testing.T) {
	bet := betFixture(20)
	now := time.Now()
	bet.CancelledAt = &now
	participants := participantFixtures(2)
	participants[1].IsWinner = true

	settled, err := Settle(bet, participants)
	require.NoError(t, err)

	assert.Equal(t, StatusCancelled, settled.Status)
	for _, p := range settled.Participants {
		assert.Equal(t, "0.00", p.BetAmount)
	}
}

func TestSettleRejectsMultipleWinners(t *testing.T) {
	bet := betFixture(5)
	participants := participantFixtures(3)
	participants[0].IsWinner = true
	participants[2].IsWinner = true

	_, err := Settle(bet, participants)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindDataIntegrity))
}
