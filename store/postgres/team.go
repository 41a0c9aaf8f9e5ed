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

const teamColumns = `id, name, description, owner_id, game_type, invite_code, logo_key, created_at`

func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, description, owner_id, game_type, invite_code, logo_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		team.Name,
		team.Description,
		team.OwnerID,
		team.GameType,
		team.InviteCode,
		team.LogoKey,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`
	return s.scanTeam(ctx, query, id)
}

func (s *Store) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE name = $1`
	return s.scanTeam(ctx, query, name)
}

func (s *Store) GetTeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE invite_code = $1`
	return s.scanTeam(ctx, query, code)
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY created_at DESC`
	return s.listTeams(ctx, query)
}

func (s *Store) ListTeamsByOwner(ctx context.Context, ownerID int) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE owner_id = $1 ORDER BY created_at DESC`
	return s.listTeams(ctx, query, ownerID)
}

func (s *Store) UpdateTeam(ctx context.Context, id int, upd models.TeamUpdate) (*models.Team, error) {
	sets := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.LogoKey != nil {
		add("logo_key", *upd.LogoKey)
	}
	if len(sets) == 0 {
		return s.GetTeam(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE teams SET %s WHERE id = $%d RETURNING `+teamColumns,
		strings.Join(sets, ", "), len(args),
	)

	team := &models.Team{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID,
		&team.GameType, &team.InviteCode, &team.LogoKey, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTeamNotFound
		}
		return nil, translateError(err)
	}
	return team, nil
}

func (s *Store) DeleteTeam(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return checkAffectedRows(result, store.ErrTeamNotFound)
}

func (s *Store) scanTeam(ctx context.Context, query string, args ...interface{}) (*models.Team, error) {
	team := &models.Team{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&team.ID, &team.Name, &team.Description, &team.OwnerID,
		&team.GameType, &team.InviteCode, &team.LogoKey, &team.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *Store) listTeams(ctx context.Context, query string, args ...interface{}) ([]models.Team, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID, &team.Name, &team.Description, &team.OwnerID,
			&team.GameType, &team.InviteCode, &team.LogoKey, &team.CreatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
