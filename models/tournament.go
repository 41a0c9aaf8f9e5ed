package models

import "time"

// TournamentStatus mirrors the status ENUM in the database.
type TournamentStatus string

const (
	StatusUpcoming  TournamentStatus = "upcoming"
	StatusLive      TournamentStatus = "live"
	StatusCompleted TournamentStatus = "completed"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusUpcoming, StatusLive, StatusCompleted:
		return true
	}
	return false
}

type TeamMode string

const (
	ModeSolo  TeamMode = "solo"
	ModeDuo   TeamMode = "duo"
	ModeSquad TeamMode = "squad"
)

func (m TeamMode) Valid() bool {
	switch m {
	case ModeSolo, ModeDuo, ModeSquad:
		return true
	}
	return false
}

// MinMembers is the roster size a team must have before it can be
// registered for a tournament in this mode.
func (m TeamMode) MinMembers() int {
	switch m {
	case ModeSquad:
		return 4
	case ModeDuo:
		return 2
	default:
		return 0
	}
}

type Tournament struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description *string          `json:"description,omitempty"`
	StartTime   time.Time        `json:"start_time"`
	MapName     string           `json:"map_name"`
	TeamMode    TeamMode         `json:"team_mode"`
	GameType    GameType         `json:"game_type"`
	Paid        bool             `json:"paid"`
	EntryFee    int              `json:"entry_fee"`
	PrizePool   int              `json:"prize_pool"`
	MaxSlots    int              `json:"max_slots"`
	Status      TournamentStatus `json:"status"`

	// Room credentials are published shortly before the tournament goes
	// live and are only exposed to registered users and admins.
	RoomID       *string `json:"room_id,omitempty"`
	RoomPassword *string `json:"room_password,omitempty"`

	BannerKey *string `json:"-"`
	BannerURL *string `json:"banner_url,omitempty"`

	CreatedBy int       `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`

	// Populated by the service on detail reads.
	RegisteredCount int `json:"registered_count,omitempty"`
}

type TournamentUpdate struct {
	Title        *string           `json:"title,omitempty"`
	Description  *string           `json:"description,omitempty"`
	StartTime    *time.Time        `json:"start_time,omitempty"`
	MapName      *string           `json:"map_name,omitempty"`
	TeamMode     *TeamMode         `json:"team_mode,omitempty"`
	GameType     *GameType         `json:"game_type,omitempty"`
	Paid         *bool             `json:"paid,omitempty"`
	EntryFee     *int              `json:"entry_fee,omitempty"`
	PrizePool    *int              `json:"prize_pool,omitempty"`
	MaxSlots     *int              `json:"max_slots,omitempty"`
	Status       *TournamentStatus `json:"status,omitempty"`
	RoomID       *string           `json:"room_id,omitempty"`
	RoomPassword *string           `json:"room_password,omitempty"`
	BannerKey    *string           `json:"-"`
}
