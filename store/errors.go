package store

import "errors"

// Not-found sentinels. Every getter returns one of these for an absent
// record instead of a generic error, so callers can pick 404 vs.
// empty-list semantics per endpoint.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminNotFound        = errors.New("admin not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMemberNotFound       = errors.New("team member not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// Uniqueness-violation sentinels. Both backends translate their native
// constraint errors into these; the database constraint is the actual
// backstop for every uniqueness rule.
var (
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrEmailTaken        = errors.New("email is already in use")
	ErrPhoneTaken        = errors.New("phone number is already in use")
	ErrTeamNameTaken     = errors.New("team name is already taken")
	ErrInviteCodeTaken   = errors.New("invite code is already in use")
	ErrMemberExists      = errors.New("username is already on this team")
	ErrAlreadyRegistered = errors.New("already registered for this tournament")
	ErrAlreadyRead       = errors.New("notification already marked as read")
)

// Referential errors surfaced when a referenced parent row is missing.
var (
	ErrInvalidTeamRef       = errors.New("referenced team does not exist")
	ErrInvalidUserRef       = errors.New("referenced user does not exist")
	ErrInvalidTournamentRef = errors.New("referenced tournament does not exist")
)
