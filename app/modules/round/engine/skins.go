package roundengine

import (
	"sort"

	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// RoundInfo carries the round scalars settlement needs.
type RoundInfo struct {
	RoundID      sharedtypes.RoundID
	StartingHole int
	HoleCount    int
	SkinsEnabled bool
	SkinsValue   float64
}

// HoleResult is the skins outcome for one played hole. A tied hole has a
// nil Winner; CarriedOver on a tie is the count that rolls forward to the
// next hole, on a win the count the winner just collected.
type HoleResult struct {
	Winner      *sharedtypes.PlayerID `json:"winner"`
	WinnerScore int                   `json:"winnerScore,omitempty"`
	Tied        bool                  `json:"tied,omitempty"`
	TiedScore   int                   `json:"tiedScore,omitempty"`
	SkinsValue  string                `json:"skinsValue"`
	CarriedOver int                   `json:"carriedOver"`
}

// PlayerSkinsSummary totals one player's skins money across the round.
// MoneyIn reflects pots collected, MoneyOut stakes paid on holes another
// player won.
type PlayerSkinsSummary struct {
	SkinsWon   int    `json:"skinsWon"`
	TotalValue string `json:"totalValue"`
	MoneyIn    string `json:"moneyIn"`
	MoneyOut   string `json:"moneyOut"`
	Total      string `json:"total"`

	moneyIn  float64
	moneyOut float64
}

// SkinsResult is the full skins settlement for a round.
type SkinsResult struct {
	RoundID        sharedtypes.RoundID                               `json:"roundId"`
	SkinsEnabled   bool                                              `json:"skinsEnabled"`
	SkinsValue     string                                            `json:"skinsValue"`
	Holes          map[int]HoleResult                                `json:"holes"`
	PlayerSummary  map[sharedtypes.PlayerID]*PlayerSkinsSummary      `json:"playerSummary"`
	TotalCarryOver int                                               `json:"totalCarryOver"`
}

// PlayOrder returns the hole numbers in the order actually played: the
// cyclic rotation of 1..holeCount beginning at startingHole.
func PlayOrder(startingHole, holeCount int) []int {
	order := make([]int, holeCount)
	for i := 0; i < holeCount; i++ {
		order[i] = ((startingHole - 1 + i) % holeCount) + 1
	}
	return order
}

// CalculateSkins settles skins for a round. Holes are walked in play
// order; a hole with no scores is skipped without touching the carry. A
// single low score wins the base stake plus one stake per carried skin; a
// tie rolls one more skin forward. Scores for unknown players are ignored.
func CalculateSkins(round RoundInfo, players []sharedtypes.PlayerInfo, scores []sharedtypes.ScoreInfo) (*SkinsResult, error) {
	if round.HoleCount < 1 {
		return nil, apperrors.New(apperrors.KindMissingInput, "round has no hole count")
	}
	if round.StartingHole < 1 || round.StartingHole > round.HoleCount {
		return nil, apperrors.Newf(apperrors.KindMissingInput, "starting hole %d outside 1..%d", round.StartingHole, round.HoleCount)
	}

	known := make(map[sharedtypes.PlayerID]bool, len(players))
	summary := make(map[sharedtypes.PlayerID]*PlayerSkinsSummary, len(players))
	for _, p := range players {
		known[p.PlayerID] = true
		summary[p.PlayerID] = &PlayerSkinsSummary{}
	}

	byHole := make(map[int][]sharedtypes.ScoreInfo)
	for _, s := range scores {
		if !known[s.PlayerID] {
			continue
		}
		byHole[s.HoleNumber] = append(byHole[s.HoleNumber], s)
	}

	result := &SkinsResult{
		RoundID:       round.RoundID,
		SkinsEnabled:  round.SkinsEnabled,
		SkinsValue:    sharedtypes.FormatMoney(round.SkinsValue),
		Holes:         make(map[int]HoleResult),
		PlayerSummary: summary,
	}

	carry := 0
	for _, hole := range PlayOrder(round.StartingHole, round.HoleCount) {
		holeScores := byHole[hole]
		if len(holeScores) == 0 {
			continue
		}

		min := holeScores[0].Strokes
		for _, s := range holeScores[1:] {
			if s.Strokes < min {
				min = s.Strokes
			}
		}
		var winners []sharedtypes.PlayerID
		for _, s := range holeScores {
			if s.Strokes == min {
				winners = append(winners, s.PlayerID)
			}
		}

		if len(winners) > 1 {
			result.Holes[hole] = HoleResult{
				Tied:        true,
				TiedScore:   min,
				SkinsValue:  sharedtypes.FormatMoney(round.SkinsValue),
				CarriedOver: carry + 1,
			}
			carry++
			continue
		}

		winner := winners[0]
		value := round.SkinsValue * float64(1+carry)
		result.Holes[hole] = HoleResult{
			Winner:      &winner,
			WinnerScore: min,
			SkinsValue:  sharedtypes.FormatMoney(value),
			CarriedOver: carry,
		}
		ws := summary[winner]
		ws.SkinsWon += 1 + carry
		ws.moneyIn += value
		for _, s := range holeScores {
			if s.PlayerID == winner {
				continue
			}
			summary[s.PlayerID].moneyOut += round.SkinsValue
		}
		carry = 0
	}
	result.TotalCarryOver = carry

	for _, ps := range summary {
		ps.TotalValue = sharedtypes.FormatMoney(ps.moneyIn)
		ps.MoneyIn = sharedtypes.FormatMoney(ps.moneyIn)
		ps.MoneyOut = sharedtypes.FormatMoney(ps.moneyOut)
		ps.Total = sharedtypes.FormatMoney(ps.moneyIn - ps.moneyOut)
	}
	return result, nil
}

// PlayedHoles returns the settled hole numbers in ascending order.
func (r *SkinsResult) PlayedHoles() []int {
	holes := make([]int, 0, len(r.Holes))
	for h := range r.Holes {
		holes = append(holes, h)
	}
	sort.Ints(holes)
	return holes
}
