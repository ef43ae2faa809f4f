package sidebetengine

import "github.com/discbaboons/rounds-service/internal/sharedtypes"

// PlayerMoneySummary totals one player's side-bet money flow for a round.
//
// MoneyIn stays at zero for now: payouts collected by winners are not yet
// reflected in the per-player totals, only stakes at risk. Known
// limitation, kept until payout tracking lands so the financial outputs
// do not shift underneath existing clients.
type PlayerMoneySummary struct {
	PlayerID sharedtypes.PlayerID `json:"playerId"`
	MoneyIn  string               `json:"moneyIn"`
	MoneyOut string               `json:"moneyOut"`
	Total    string               `json:"total"`
	BetCount int                  `json:"betCount"`
}

// SummarizeRound rolls settled bets into per-player money summaries, one
// per round player in join order. Only active bets move money or count;
// cancelled and completed bets contribute nothing.
func SummarizeRound(players []sharedtypes.PlayerInfo, bets []*SettledBet) []PlayerMoneySummary {
	out := make(map[sharedtypes.PlayerID]float64, len(players))
	counts := make(map[sharedtypes.PlayerID]int, len(players))
	for _, bet := range bets {
		if bet.Status != StatusActive {
			continue
		}
		for _, p := range bet.Participants {
			out[p.PlayerID] += bet.amount
			counts[p.PlayerID]++
		}
	}

	summaries := make([]PlayerMoneySummary, 0, len(players))
	for _, player := range players {
		moneyOut := out[player.PlayerID]
		summaries = append(summaries, PlayerMoneySummary{
			PlayerID: player.PlayerID,
			MoneyIn:  sharedtypes.FormatMoney(0),
			MoneyOut: sharedtypes.FormatMoney(moneyOut),
			Total:    sharedtypes.FormatMoney(0 - moneyOut),
			BetCount: counts[player.PlayerID],
		})
	}
	return summaries
}

// Standing is one player's side-bet position as consumed by the
// leaderboard.
type Standing struct {
	SideBetsWon int
	NetGain     float64
}

// Standings computes per-player win counts and net gain across a round's
// bets. Win counts span every non-cancelled bet; net gain follows the
// same money flow as SummarizeRound.
func Standings(players []sharedtypes.PlayerInfo, bets []*SettledBet) map[sharedtypes.PlayerID]Standing {
	standings := make(map[sharedtypes.PlayerID]Standing, len(players))
	for _, p := range players {
		standings[p.PlayerID] = Standing{}
	}
	for _, bet := range bets {
		if bet.Status == StatusCancelled {
			continue
		}
		for _, p := range bet.Participants {
			s, ok := standings[p.PlayerID]
			if !ok {
				continue
			}
			if p.IsWinner {
				s.SideBetsWon++
			}
			if bet.Status == StatusActive {
				s.NetGain -= bet.amount
			}
			standings[p.PlayerID] = s
		}
	}
	return standings
}
