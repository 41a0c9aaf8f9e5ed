// Package store defines the persistence contract shared by the Postgres
// and Supabase backends. The backend is chosen once at startup from
// configuration; call sites only ever see this interface.
package store

import (
	"context"

	"github.com/gridclash/arena-api/models"
)

// Store is the full persistence surface. Create methods fill in the
// generated ID and CreatedAt on the passed record. Update methods apply
// only the non-nil fields of the update struct and return the updated
// record. Delete methods do not cascade; callers delete children first.
type Store interface {
	UserStore
	AdminStore
	TeamStore
	TeamMemberStore
	TournamentStore
	RegistrationStore
	NotificationStore
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id int) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
}

type AdminStore interface {
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

type TeamStore interface {
	CreateTeam(ctx context.Context, team *models.Team) error
	GetTeam(ctx context.Context, id int) (*models.Team, error)
	GetTeamByName(ctx context.Context, name string) (*models.Team, error)
	GetTeamByInviteCode(ctx context.Context, code string) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	ListTeamsByOwner(ctx context.Context, ownerID int) ([]models.Team, error)
	UpdateTeam(ctx context.Context, id int, upd models.TeamUpdate) (*models.Team, error)
	DeleteTeam(ctx context.Context, id int) error
}

type TeamMemberStore interface {
	CreateTeamMember(ctx context.Context, member *models.TeamMember) error
	GetTeamMember(ctx context.Context, id int) (*models.TeamMember, error)
	ListTeamMembers(ctx context.Context, teamID int) ([]models.TeamMember, error)
	CountTeamMembers(ctx context.Context, teamID int) (int, error)
	DeleteTeamMember(ctx context.Context, id int) error
}

type TournamentStore interface {
	CreateTournament(ctx context.Context, t *models.Tournament) error
	GetTournament(ctx context.Context, id int) (*models.Tournament, error)
	ListTournaments(ctx context.Context) ([]models.Tournament, error)
	ListTournamentsByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error)
	UpdateTournament(ctx context.Context, id int, upd models.TournamentUpdate) (*models.Tournament, error)
	DeleteTournament(ctx context.Context, id int) error
}

type RegistrationStore interface {
	CreateRegistration(ctx context.Context, reg *models.Registration) error
	GetRegistration(ctx context.Context, id int) (*models.Registration, error)
	ListRegistrationsByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error)
	ListRegistrationsByUser(ctx context.Context, userID int) ([]models.Registration, error)
	ListRegistrationsByTeam(ctx context.Context, teamID int) ([]models.Registration, error)
	CountRegistrations(ctx context.Context, tournamentID int) (int, error)
	// CheckRegistration reports whether a registration already exists for
	// the (tournament, team) pair, or (tournament, user) when teamID is
	// nil. A race between this check and CreateRegistration is possible;
	// the unique constraint resolves it and Create returns
	// ErrAlreadyRegistered for the loser.
	CheckRegistration(ctx context.Context, tournamentID int, teamID *int, userID int) (bool, error)
	UpdateRegistration(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error)
	DeleteRegistration(ctx context.Context, id int) error
}

type NotificationStore interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
	GetNotification(ctx context.Context, id int) (*models.Notification, error)
	// ListNotificationsForUser returns notifications targeted at the user
	// plus all broadcasts, newest first.
	ListNotificationsForUser(ctx context.Context, userID int) ([]models.Notification, error)
	DeleteNotification(ctx context.Context, id int) error
	// MarkNotificationRead records the (user, notification) read-pair.
	// Marking an already-read notification is a no-op, not an error.
	MarkNotificationRead(ctx context.Context, userID, notificationID int) error
	// ListUnreadNotifications computes the set difference between the
	// notifications visible to the user and the ones the user has read.
	ListUnreadNotifications(ctx context.Context, userID int) ([]models.Notification, error)
	CountUnreadNotifications(ctx context.Context, userID int) (int, error)
}
