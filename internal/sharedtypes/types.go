package sharedtypes

import (
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// RoundID uniquely identifies a round.
type RoundID uuid.UUID

// PlayerID uniquely identifies a round player (registered or guest).
type PlayerID uuid.UUID

// BetID uniquely identifies a side bet.
type BetID uuid.UUID

// UserID identifies a registered user account.
type UserID int64

func (id RoundID) String() string  { return uuid.UUID(id).String() }
func (id PlayerID) String() string { return uuid.UUID(id).String() }
func (id BetID) String() string    { return uuid.UUID(id).String() }

func (id RoundID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id PlayerID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id BetID) MarshalText() ([]byte, error)    { return []byte(id.String()), nil }

func (id *RoundID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid round ID: %w", err)
	}
	*id = RoundID(u)
	return nil
}

func (id *PlayerID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid player ID: %w", err)
	}
	*id = PlayerID(u)
	return nil
}

func (id *BetID) UnmarshalText(text []byte) error {
	u, err := uuid.ParseBytes(text)
	if err != nil {
		return fmt.Errorf("invalid bet ID: %w", err)
	}
	*id = BetID(u)
	return nil
}

// Value/Scan let the ID types pass through database/sql as uuid strings.

func (id RoundID) Value() (driver.Value, error)  { return id.String(), nil }
func (id PlayerID) Value() (driver.Value, error) { return id.String(), nil }
func (id BetID) Value() (driver.Value, error)    { return id.String(), nil }

func (id *RoundID) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*id = RoundID(u)
	return nil
}

func (id *PlayerID) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*id = PlayerID(u)
	return nil
}

func (id *BetID) Scan(src any) error {
	u, err := scanUUID(src)
	if err != nil {
		return err
	}
	*id = BetID(u)
	return nil
}

func scanUUID(src any) (uuid.UUID, error) {
	switch v := src.(type) {
	case string:
		return uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case nil:
		return uuid.Nil, nil
	default:
		return uuid.Nil, fmt.Errorf("cannot scan %T into uuid", src)
	}
}

// NewRoundID generates a fresh round identifier.
func NewRoundID() RoundID { return RoundID(uuid.New()) }

// NewPlayerID generates a fresh player identifier.
func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }

// NewBetID generates a fresh bet identifier.
func NewBetID() BetID { return BetID(uuid.New()) }

// PlayerInfo is a flat round-player row as consumed by the settlement engines.
// Exactly one of (UserID, Username) or GuestName is set, never both.
type PlayerInfo struct {
	PlayerID  PlayerID
	UserID    *UserID
	Username  *string
	GuestName *string
	IsGuest   bool
}

// DisplayName resolves the name shown for a player: guest name for guests,
// username otherwise.
func (p PlayerInfo) DisplayName() string {
	if p.IsGuest && p.GuestName != nil {
		return *p.GuestName
	}
	if p.Username != nil {
		return *p.Username
	}
	return ""
}

// ScoreInfo is a flat committed score row: one per (player, hole).
type ScoreInfo struct {
	PlayerID   PlayerID
	HoleNumber int
	Strokes    int
}

// ParInfo is a flat per-hole par row.
type ParInfo struct {
	HoleNumber int
	Par        int
}

// FormatMoney renders a monetary amount as a decimal string fixed to two
// places, the wire convention for every money field in the service.
func FormatMoney(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}
