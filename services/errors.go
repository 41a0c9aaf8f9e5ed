package services

import "errors"

// Shared error taxonomy. Handlers map these onto HTTP statuses in one
// place; nothing below this layer leaks provider-specific error shapes.
var (
	// Absence
	ErrNotFound             = errors.New("requested resource not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrMemberNotFound       = errors.New("team member not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Validation and business rules
	ErrValidationFailed      = errors.New("validation failed")
	ErrPasswordTooShort      = errors.New("password must be at least 8 characters")
	ErrInvalidEmail          = errors.New("invalid email address")
	ErrInvalidPhone          = errors.New("invalid phone number")
	ErrInvalidGameType       = errors.New("invalid game type")
	ErrInvalidTeamMode       = errors.New("invalid team mode")
	ErrInvalidMemberRole     = errors.New("invalid member role")
	ErrInvalidStatus         = errors.New("invalid status value")
	ErrInvalidTransition     = errors.New("invalid tournament status transition")
	ErrRoomCredentialsNeeded = errors.New("room id and password are required before a tournament can go live")
	ErrTeamTooSmall          = errors.New("team does not meet the minimum size for this tournament")
	ErrTeamModeMismatch      = errors.New("solo tournaments are entered without a team")
	ErrTournamentFull        = errors.New("tournament has no remaining slots")
	ErrTournamentClosed      = errors.New("registration is closed for this tournament")

	// Conflicts
	ErrUsernameTaken     = errors.New("username is already taken")
	ErrEmailTaken        = errors.New("email is already in use")
	ErrPhoneTaken        = errors.New("phone number is already in use")
	ErrTeamNameTaken     = errors.New("team name is already taken")
	ErrMemberExists      = errors.New("that username is already on the team")
	ErrAlreadyRegistered = errors.New("this team is already registered for the tournament")

	// Authentication and authorization
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrForbidden          = errors.New("operation not allowed for the current user")
	ErrOwnerOnly          = errors.New("only the team owner can perform this action")
	ErrAdminOnly          = errors.New("administrator role required")
	ErrProtectedIdentity  = errors.New("this account is protected and cannot be modified or removed")
)
