package roundengine

import "github.com/discbaboons/rounds-service/internal/sharedtypes"

// PlayerStat is one player's aggregate over their committed scores.
type PlayerStat struct {
	PlayerID       sharedtypes.PlayerID `json:"playerId"`
	TotalStrokes   int                  `json:"totalStrokes"`
	TotalPar       int                  `json:"totalPar"`
	RelativeScore  int                  `json:"relativeScore"`
	HolesCompleted int                  `json:"holesCompleted"`
	CurrentHole    int                  `json:"currentHole"`
}

// Aggregate folds score rows into per-player stats. Every player gets a
// stat entry even with no scores yet. Scores for unknown players are
// ignored. CurrentHole is the highest hole played plus one, clamped to
// holeCount so a finished player stays shown on the last hole.
func Aggregate(players []sharedtypes.PlayerInfo, scores []sharedtypes.ScoreInfo, pars ParLookup, holeCount int) map[sharedtypes.PlayerID]*PlayerStat {
	stats := make(map[sharedtypes.PlayerID]*PlayerStat, len(players))
	for _, p := range players {
		stats[p.PlayerID] = &PlayerStat{PlayerID: p.PlayerID, CurrentHole: 1}
	}

	highest := make(map[sharedtypes.PlayerID]int, len(players))
	for _, s := range scores {
		stat, ok := stats[s.PlayerID]
		if !ok {
			continue
		}
		par := pars.Resolve(s.HoleNumber)
		stat.TotalStrokes += s.Strokes
		stat.TotalPar += par
		stat.RelativeScore += s.Strokes - par
		stat.HolesCompleted++
		if s.HoleNumber > highest[s.PlayerID] {
			highest[s.PlayerID] = s.HoleNumber
		}
	}

	for id, h := range highest {
		next := h + 1
		if next > holeCount {
			next = holeCount
		}
		stats[id].CurrentHole = next
	}
	return stats
}
