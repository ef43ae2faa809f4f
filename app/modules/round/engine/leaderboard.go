package roundengine

import (
	"sort"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// SideBetStanding is one player's side-bet position as supplied by the
// side-bet module.
type SideBetStanding struct {
	SideBetsWon int
	NetGain     float64
}

// RankedPlayer is one leaderboard row.
type RankedPlayer struct {
	PlayerID        sharedtypes.PlayerID `json:"playerId"`
	Username        *string              `json:"username,omitempty"`
	GuestName       *string              `json:"guestName,omitempty"`
	IsGuest         bool                 `json:"isGuest"`
	TotalStrokes    int                  `json:"totalStrokes"`
	RelativeScore   int                  `json:"relativeScore"`
	HolesCompleted  int                  `json:"holesCompleted"`
	CurrentHole     int                  `json:"currentHole"`
	Position        int                  `json:"position"`
	SkinsWon        int                  `json:"skinsWon"`
	MoneyIn         string               `json:"moneyIn"`
	MoneyOut        string               `json:"moneyOut"`
	Total           string               `json:"total"`
	SideBetsWon     int                  `json:"sideBetsWon"`
	SideBetsNetGain string               `json:"sideBetsNetGain"`
	OverallNetGain  string               `json:"overallNetGain"`
}

// RoundSettings surfaces the round-level wager settings alongside the
// standings.
type RoundSettings struct {
	SkinsEnabled     bool   `json:"skinsEnabled"`
	SkinsValue       string `json:"skinsValue"`
	CurrentCarryOver int    `json:"currentCarryOver"`
}

// Leaderboard is the ranked view of a round.
type Leaderboard struct {
	Players       []RankedPlayer `json:"players"`
	RoundSettings RoundSettings  `json:"roundSettings"`
}

// ComposeLeaderboard merges aggregated scores with skins and side-bet
// settlement into one ranked view. Either wager input may be nil: the
// standings still rank correctly with the money columns zeroed, so a
// broken wager sub-feature never blocks the scores.
//
// Ordering is total strokes ascending, ties broken by holes completed
// descending; the sort is stable over join order so identical snapshots
// always rank identically.
func ComposeLeaderboard(
	round RoundInfo,
	players []sharedtypes.PlayerInfo,
	scores []sharedtypes.ScoreInfo,
	pars ParLookup,
	skins *SkinsResult,
	sideBets map[sharedtypes.PlayerID]SideBetStanding,
) Leaderboard {
	stats := Aggregate(players, scores, pars, round.HoleCount)

	rows := make([]RankedPlayer, 0, len(players))
	for _, p := range players {
		stat := stats[p.PlayerID]
		row := RankedPlayer{
			PlayerID:       p.PlayerID,
			Username:       p.Username,
			GuestName:      p.GuestName,
			IsGuest:        p.IsGuest,
			TotalStrokes:   stat.TotalStrokes,
			RelativeScore:  stat.RelativeScore,
			HolesCompleted: stat.HolesCompleted,
			CurrentHole:    stat.CurrentHole,
		}

		var skinsNet float64
		if skins != nil {
			if ps, ok := skins.PlayerSummary[p.PlayerID]; ok {
				row.SkinsWon = ps.SkinsWon
				row.MoneyIn = ps.MoneyIn
				row.MoneyOut = ps.MoneyOut
				row.Total = ps.Total
				skinsNet = ps.moneyIn - ps.moneyOut
			}
		}
		if row.MoneyIn == "" {
			row.MoneyIn = sharedtypes.FormatMoney(0)
			row.MoneyOut = sharedtypes.FormatMoney(0)
			row.Total = sharedtypes.FormatMoney(0)
		}

		var sideBetNet float64
		if standing, ok := sideBets[p.PlayerID]; ok {
			row.SideBetsWon = standing.SideBetsWon
			sideBetNet = standing.NetGain
		}
		row.SideBetsNetGain = sharedtypes.FormatMoney(sideBetNet)
		row.OverallNetGain = sharedtypes.FormatMoney(skinsNet + sideBetNet)

		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalStrokes != rows[j].TotalStrokes {
			return rows[i].TotalStrokes < rows[j].TotalStrokes
		}
		return rows[i].HolesCompleted > rows[j].HolesCompleted
	})
	for i := range rows {
		rows[i].Position = i + 1
	}

	settings := RoundSettings{
		SkinsEnabled: round.SkinsEnabled,
		SkinsValue:   sharedtypes.FormatMoney(round.SkinsValue),
	}
	if skins != nil {
		settings.CurrentCarryOver = skins.TotalCarryOver
	}

	return Leaderboard{Players: rows, RoundSettings: settings}
}
