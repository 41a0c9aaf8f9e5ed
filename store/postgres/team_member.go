package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

func (s *Store) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, username, game_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := s.db.QueryRowContext(ctx, query,
		member.TeamID,
		member.Username,
		member.GameID,
		member.Role,
	).Scan(&member.ID)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetTeamMember(ctx context.Context, id int) (*models.TeamMember, error) {
	query := `SELECT id, team_id, username, game_id, role FROM team_members WHERE id = $1`

	member := &models.TeamMember{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&member.ID, &member.TeamID, &member.Username, &member.GameID, &member.Role,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (s *Store) ListTeamMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	query := `
		SELECT id, team_id, username, game_id, role
		FROM team_members
		WHERE team_id = $1
		ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]models.TeamMember, 0)
	for rows.Next() {
		var member models.TeamMember
		if err := rows.Scan(
			&member.ID, &member.TeamID, &member.Username, &member.GameID, &member.Role,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (s *Store) CountTeamMembers(ctx context.Context, teamID int) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM team_members WHERE team_id = $1`, teamID,
	).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) DeleteTeamMember(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return checkAffectedRows(result, store.ErrMemberNotFound)
}
