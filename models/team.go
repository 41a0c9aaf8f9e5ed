package models

import "time"

type GameType string

const (
	GameBGMI     GameType = "bgmi"
	GameFreeFire GameType = "freefire"
	GameCODM     GameType = "codm"
)

func (g GameType) Valid() bool {
	switch g {
	case GameBGMI, GameFreeFire, GameCODM:
		return true
	}
	return false
}

type Team struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	OwnerID     int       `json:"owner_id"`
	GameType    GameType  `json:"game_type"`
	InviteCode  string    `json:"invite_code"`
	LogoKey     *string   `json:"-"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	Members []TeamMember `json:"members,omitempty"`
}

type TeamUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LogoKey     *string `json:"-"`
}
