// Package roundengine holds the pure settlement computations for a round:
// par resolution, score aggregation, skins with carry-over, and the ranked
// leaderboard. Everything here operates on an in-memory snapshot supplied
// by the repositories and performs no I/O.
package roundengine

import "github.com/discbaboons/rounds-service/internal/sharedtypes"

// DefaultPar is assumed for any hole without an explicit par row.
const DefaultPar = 3

// ParLookup maps hole number to par for one round.
type ParLookup map[int]int

// NewParLookup builds a lookup from par rows.
func NewParLookup(pars []sharedtypes.ParInfo) ParLookup {
	lookup := make(ParLookup, len(pars))
	for _, p := range pars {
		lookup[p.HoleNumber] = p.Par
	}
	return lookup
}

// Resolve returns the par for a hole, defaulting to DefaultPar when unset.
// Total over any hole number.
func (l ParLookup) Resolve(holeNumber int) int {
	if par, ok := l[holeNumber]; ok {
		return par
	}
	return DefaultPar
}
