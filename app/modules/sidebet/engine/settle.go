// Package sidebetengine settles freeform side bets: per-bet signed money
// amounts and per-player round summaries. Pure computation over a
// snapshot, no I/O.
package sidebetengine

import (
	"time"

	"github.com/discbaboons/rounds-service/internal/apperrors"
	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Status is a bet's lifecycle state. Cancellation is terminal; a
// completed bet returns to active when its winner is cleared.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// BetType scopes a bet to a single hole or the whole round.
type BetType string

const (
	BetTypeHole  BetType = "hole"
	BetTypeRound BetType = "round"
)

// BetInfo is the flat bet row settlement consumes.
type BetInfo struct {
	BetID       sharedtypes.BetID
	RoundID     sharedtypes.RoundID
	Name        string
	Description *string
	Amount      float64
	BetType     BetType
	HoleNumber  *int
	CancelledAt *time.Time
}

// ParticipantInfo is the flat participant row settlement consumes.
type ParticipantInfo struct {
	PlayerID     sharedtypes.PlayerID
	UserID       *sharedtypes.UserID
	DisplayName  string
	IsWinner     bool
	WonAt        *time.Time
	DeclaredByID *sharedtypes.PlayerID
}

// SettledParticipant is one participant with their signed money amount.
type SettledParticipant struct {
	PlayerID     sharedtypes.PlayerID  `json:"playerId"`
	DisplayName  string                `json:"displayName"`
	IsWinner     bool                  `json:"isWinner"`
	WonAt        *time.Time            `json:"wonAt,omitempty"`
	DeclaredByID *sharedtypes.PlayerID `json:"declaredById,omitempty"`
	BetAmount    string                `json:"betAmount"`
}

// SettledBet is one bet with status and per-participant amounts resolved.
type SettledBet struct {
	BetID        sharedtypes.BetID    `json:"id"`
	Name         string               `json:"name"`
	Description  *string              `json:"description,omitempty"`
	Amount       string               `json:"amount"`
	BetType      BetType              `json:"betType"`
	HoleNumber   *int                 `json:"holeNumber,omitempty"`
	Status       Status               `json:"status"`
	Participants []SettledParticipant `json:"participants"`

	amount float64
}

// Settle resolves one bet. The winner collects the full pot, one stake
// from each other participant; non-winners owe their stake. Cancelled bets
// settle to zero for everyone. More than one declared winner is a stored
// invariant violation and is surfaced, never resolved silently.
func Settle(bet BetInfo, participants []ParticipantInfo) (*SettledBet, error) {
	winners := 0
	for _, p := range participants {
		if p.IsWinner {
			winners++
		}
	}
	if winners > 1 {
		return nil, apperrors.Newf(apperrors.KindDataIntegrity,
			"side bet %s has %d declared winners", bet.BetID, winners)
	}

	status := StatusActive
	switch {
	case bet.CancelledAt != nil:
		status = StatusCancelled
	case winners == 1:
		status = StatusCompleted
	}

	settled := &SettledBet{
		BetID:       bet.BetID,
		Name:        bet.Name,
		Description: bet.Description,
		Amount:      sharedtypes.FormatMoney(bet.Amount),
		BetType:     bet.BetType,
		HoleNumber:  bet.HoleNumber,
		Status:      status,
		amount:      bet.Amount,
	}

	pot := bet.Amount * float64(len(participants)-1)
	for _, p := range participants {
		var amount float64
		if status != StatusCancelled {
			if p.IsWinner {
				amount = pot
			} else {
				amount = -bet.Amount
			}
		}
		settled.Participants = append(settled.Participants, SettledParticipant{
			PlayerID:     p.PlayerID,
			DisplayName:  p.DisplayName,
			IsWinner:     p.IsWinner,
			WonAt:        p.WonAt,
			DeclaredByID: p.DeclaredByID,
			BetAmount:    sharedtypes.FormatMoney(amount),
		})
	}
	return settled, nil
}
