package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

const registrationColumns = `id, tournament_id, team_id, user_id, slot, status, payment_status, created_at`

func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	query := `
		INSERT INTO registrations (tournament_id, team_id, user_id, slot, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		reg.TournamentID,
		reg.TeamID,
		reg.UserID,
		reg.Slot,
		reg.Status,
		reg.PaymentStatus,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetRegistration(ctx context.Context, id int) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`

	reg := &models.Registration{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.UserID,
		&reg.Slot, &reg.Status, &reg.PaymentStatus, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (s *Store) ListRegistrationsByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE tournament_id = $1 ORDER BY created_at ASC`
	return s.listRegistrations(ctx, query, tournamentID)
}

func (s *Store) ListRegistrationsByUser(ctx context.Context, userID int) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE user_id = $1 ORDER BY created_at DESC`
	return s.listRegistrations(ctx, query, userID)
}

func (s *Store) ListRegistrationsByTeam(ctx context.Context, teamID int) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE team_id = $1 ORDER BY created_at DESC`
	return s.listRegistrations(ctx, query, teamID)
}

func (s *Store) CountRegistrations(ctx context.Context, tournamentID int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CheckRegistration(ctx context.Context, tournamentID int, teamID *int, userID int) (bool, error) {
	var (
		query string
		arg   interface{}
	)
	if teamID != nil {
		query = `SELECT EXISTS (SELECT 1 FROM registrations WHERE tournament_id = $1 AND team_id = $2)`
		arg = *teamID
	} else {
		query = `SELECT EXISTS (SELECT 1 FROM registrations WHERE tournament_id = $1 AND team_id IS NULL AND user_id = $2)`
		arg = userID
	}

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, tournamentID, arg).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (s *Store) UpdateRegistration(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Slot != nil {
		add("slot", *upd.Slot)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.PaymentStatus != nil {
		add("payment_status", *upd.PaymentStatus)
	}
	if len(sets) == 0 {
		return s.GetRegistration(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE registrations SET %s WHERE id = $%d RETURNING `+registrationColumns,
		strings.Join(sets, ", "), len(args),
	)

	reg := &models.Registration{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.UserID,
		&reg.Slot, &reg.Status, &reg.PaymentStatus, &reg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRegistrationNotFound
		}
		return nil, translateError(err)
	}
	return reg, nil
}

func (s *Store) DeleteRegistration(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return checkAffectedRows(result, store.ErrRegistrationNotFound)
}

func (s *Store) listRegistrations(ctx context.Context, query string, args ...interface{}) ([]models.Registration, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]models.Registration, 0)
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(
			&reg.ID, &reg.TournamentID, &reg.TeamID, &reg.UserID,
			&reg.Slot, &reg.Status, &reg.PaymentStatus, &reg.CreatedAt,
		); err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
