package supabase

import (
	"context"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type memberRow struct {
	ID       int               `json:"id"`
	TeamID   int               `json:"team_id"`
	Username string            `json:"username"`
	GameID   string            `json:"game_id"`
	Role     models.MemberRole `json:"role"`
}

func (s *Store) CreateTeamMember(ctx context.Context, member *models.TeamMember) error {
	payload := map[string]interface{}{
		"team_id":  member.TeamID,
		"username": member.Username,
		"game_id":  member.GameID,
		"role":     member.Role,
	}

	var row memberRow
	if err := s.insertOne(ctx, "team_members", payload, &row); err != nil {
		return err
	}
	member.ID = row.ID
	return nil
}

func (s *Store) GetTeamMember(ctx context.Context, id int) (*models.TeamMember, error) {
	var row memberRow
	err := s.getOne(ctx, "team_members", map[string]string{"id": eq(id)}, &row, store.ErrMemberNotFound)
	if err != nil {
		return nil, err
	}
	return &models.TeamMember{
		ID:       row.ID,
		TeamID:   row.TeamID,
		Username: row.Username,
		GameID:   row.GameID,
		Role:     row.Role,
	}, nil
}

func (s *Store) ListTeamMembers(ctx context.Context, teamID int) ([]models.TeamMember, error) {
	var rows []memberRow
	err := s.getList(ctx, "team_members", map[string]string{
		"team_id": eq(teamID),
		"order":   "id.asc",
	}, &rows)
	if err != nil {
		return nil, err
	}

	members := make([]models.TeamMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, models.TeamMember{
			ID:       row.ID,
			TeamID:   row.TeamID,
			Username: row.Username,
			GameID:   row.GameID,
			Role:     row.Role,
		})
	}
	return members, nil
}

func (s *Store) CountTeamMembers(ctx context.Context, teamID int) (int, error) {
	return s.count(ctx, "team_members", map[string]string{"team_id": eq(teamID)})
}

func (s *Store) DeleteTeamMember(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "team_members", id, store.ErrMemberNotFound)
}
