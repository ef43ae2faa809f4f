package rounddb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/discbaboons/rounds-service/internal/sharedtypes"
)

// Course holds the static course layout a round is played on.
type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	HoleCount int       `bun:"hole_count,notnull"`
}

// Round is a round row. Settlement treats it as read-only input.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:r"`

	ID           sharedtypes.RoundID `bun:"id,pk,type:uuid"`
	CourseID     uuid.UUID           `bun:"course_id,notnull,type:uuid"`
	CreatedByID  sharedtypes.UserID  `bun:"created_by_id,notnull"`
	StartingHole int                 `bun:"starting_hole,notnull"`
	SkinsEnabled bool                `bun:"skins_enabled,notnull"`
	SkinsValue   float64             `bun:"skins_value,notnull"`
	CreatedAt    time.Time           `bun:"created_at,notnull,default:now()"`
	UpdatedAt    time.Time           `bun:"updated_at,notnull,default:now()"`

	Course *Course `bun:"rel:belongs-to,join:course_id=id"`
}

// RoundPlayer is a participant row: a registered user or a guest.
type RoundPlayer struct {
	bun.BaseModel `bun:"table:round_players,alias:rp"`

	ID        sharedtypes.PlayerID `bun:"id,pk,type:uuid"`
	RoundID   sharedtypes.RoundID  `bun:"round_id,notnull,type:uuid"`
	UserID    *sharedtypes.UserID  `bun:"user_id"`
	GuestName *string              `bun:"guest_name"`
	IsGuest   bool                 `bun:"is_guest,notnull"`
	JoinedAt  time.Time            `bun:"joined_at,notnull,default:now()"`

	User *User `bun:"rel:belongs-to,join:user_id=id"`
}

// User is the slice of the users table this service reads (usernames for
// display). The table is owned by the accounts service.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID       sharedtypes.UserID `bun:"id,pk,autoincrement"`
	Username string             `bun:"username,notnull"`
}

// Score is a committed score: at most one per (round, player, hole).
type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID         int64                `bun:"id,pk,autoincrement"`
	RoundID    sharedtypes.RoundID  `bun:"round_id,notnull,type:uuid"`
	PlayerID   sharedtypes.PlayerID `bun:"player_id,notnull,type:uuid"`
	HoleNumber int                  `bun:"hole_number,notnull"`
	Strokes    int                  `bun:"strokes,notnull"`
	CreatedAt  time.Time            `bun:"created_at,notnull,default:now()"`
	UpdatedAt  time.Time            `bun:"updated_at,notnull,default:now()"`
}

// HolePar is a per-round par override: at most one per (round, hole).
type HolePar struct {
	bun.BaseModel `bun:"table:round_hole_pars,alias:rhp"`

	ID            int64                `bun:"id,pk,autoincrement"`
	RoundID       sharedtypes.RoundID  `bun:"round_id,notnull,type:uuid"`
	HoleNumber    int                  `bun:"hole_number,notnull"`
	Par           int                  `bun:"par,notnull"`
	SetByPlayerID sharedtypes.PlayerID `bun:"set_by_player_id,notnull,type:uuid"`
	CreatedAt     time.Time            `bun:"created_at,notnull,default:now()"`
	UpdatedAt     time.Time            `bun:"updated_at,notnull,default:now()"`
}

// PlayerInfo converts a player row (with its joined user) into the flat
// shape the engines consume.
func (rp *RoundPlayer) PlayerInfo() sharedtypes.PlayerInfo {
	info := sharedtypes.PlayerInfo{
		PlayerID:  rp.ID,
		UserID:    rp.UserID,
		GuestName: rp.GuestName,
		IsGuest:   rp.IsGuest,
	}
	if rp.User != nil {
		username := rp.User.Username
		info.Username = &username
	}
	return info
}
