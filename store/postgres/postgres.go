// Package postgres implements store.Store over database/sql with lib/pq.
// Uniqueness and referential invariants are enforced by constraints in the
// schema; this package translates pq errors into the store sentinels so
// upper layers never see provider-specific error shapes.
package postgres

import (
	"database/sql"
	"fmt"

	"github.com/gridclash/arena-api/store"
	"github.com/lib/pq"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

const (
	pgUniqueViolation = "23505"
	pgForeignKey      = "23503"
)

// constraintErrors maps schema constraint names to store sentinels.
var constraintErrors = map[string]error{
	"users_username_key":                    store.ErrUsernameTaken,
	"users_email_key":                       store.ErrEmailTaken,
	"users_phone_key":                       store.ErrPhoneTaken,
	"admins_username_key":                   store.ErrUsernameTaken,
	"teams_name_key":                        store.ErrTeamNameTaken,
	"teams_invite_code_key":                 store.ErrInviteCodeTaken,
	"team_members_team_id_username_key":     store.ErrMemberExists,
	"registrations_tournament_team_key":     store.ErrAlreadyRegistered,
	"registrations_tournament_user_key":     store.ErrAlreadyRegistered,
	"notification_reads_user_id_notif_key":  store.ErrAlreadyRead,
	"team_members_team_id_fkey":             store.ErrInvalidTeamRef,
	"registrations_tournament_id_fkey":      store.ErrInvalidTournamentRef,
	"registrations_team_id_fkey":            store.ErrInvalidTeamRef,
	"registrations_user_id_fkey":            store.ErrInvalidUserRef,
	"notifications_user_id_fkey":            store.ErrInvalidUserRef,
	"notification_reads_user_id_fkey":       store.ErrInvalidUserRef,
	"notification_reads_notification_fkey":  store.ErrNotificationNotFound,
	"teams_owner_id_fkey":                   store.ErrInvalidUserRef,
	"tournaments_created_by_fkey":           store.ErrInvalidUserRef,
}

// translateError maps pq constraint violations to store sentinels.
// Anything unrecognized passes through untouched.
func translateError(err error) error {
	pqErr, ok := err.(*pq.Error)
	if !ok {
		return err
	}
	switch pqErr.Code {
	case pgUniqueViolation, pgForeignKey:
		if mapped, ok := constraintErrors[pqErr.Constraint]; ok {
			return mapped
		}
	}
	return err
}

func checkAffectedRows(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
