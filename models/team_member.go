package models

type MemberRole string

const (
	MemberCaptain    MemberRole = "captain"
	MemberRegular    MemberRole = "member"
	MemberSubstitute MemberRole = "substitute"
)

func (r MemberRole) Valid() bool {
	switch r {
	case MemberCaptain, MemberRegular, MemberSubstitute:
		return true
	}
	return false
}

// TeamMember is a roster entry. A username appears at most once per team.
type TeamMember struct {
	ID       int        `json:"id"`
	TeamID   int        `json:"team_id"`
	Username string     `json:"username"`
	GameID   string     `json:"game_id"`
	Role     MemberRole `json:"role"`
}
