package supabase

import (
	"context"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type teamRow struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	OwnerID     int             `json:"owner_id"`
	GameType    models.GameType `json:"game_type"`
	InviteCode  string          `json:"invite_code"`
	LogoKey     *string         `json:"logo_key"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (r teamRow) toModel() *models.Team {
	return &models.Team{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		OwnerID:     r.OwnerID,
		GameType:    r.GameType,
		InviteCode:  r.InviteCode,
		LogoKey:     r.LogoKey,
		CreatedAt:   r.CreatedAt,
	}
}

func (s *Store) CreateTeam(ctx context.Context, team *models.Team) error {
	payload := map[string]interface{}{
		"name":        team.Name,
		"description": team.Description,
		"owner_id":    team.OwnerID,
		"game_type":   team.GameType,
		"invite_code": team.InviteCode,
		"logo_key":    team.LogoKey,
	}

	var row teamRow
	if err := s.insertOne(ctx, "teams", payload, &row); err != nil {
		return err
	}
	team.ID = row.ID
	team.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetTeam(ctx context.Context, id int) (*models.Team, error) {
	var row teamRow
	err := s.getOne(ctx, "teams", map[string]string{"id": eq(id)}, &row, store.ErrTeamNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) GetTeamByName(ctx context.Context, name string) (*models.Team, error) {
	var row teamRow
	err := s.getOne(ctx, "teams", map[string]string{"name": "eq." + name}, &row, store.ErrTeamNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) GetTeamByInviteCode(ctx context.Context, code string) (*models.Team, error) {
	var row teamRow
	err := s.getOne(ctx, "teams", map[string]string{"invite_code": "eq." + code}, &row, store.ErrTeamNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	return s.listTeams(ctx, map[string]string{"order": "created_at.desc"})
}

func (s *Store) ListTeamsByOwner(ctx context.Context, ownerID int) ([]models.Team, error) {
	return s.listTeams(ctx, map[string]string{
		"owner_id": eq(ownerID),
		"order":    "created_at.desc",
	})
}

func (s *Store) UpdateTeam(ctx context.Context, id int, upd models.TeamUpdate) (*models.Team, error) {
	payload := map[string]interface{}{}
	if upd.Name != nil {
		payload["name"] = *upd.Name
	}
	if upd.Description != nil {
		payload["description"] = *upd.Description
	}
	if upd.LogoKey != nil {
		payload["logo_key"] = *upd.LogoKey
	}
	if len(payload) == 0 {
		return s.GetTeam(ctx, id)
	}

	var row teamRow
	if err := s.patchByID(ctx, "teams", id, payload, &row, store.ErrTeamNotFound); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) DeleteTeam(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "teams", id, store.ErrTeamNotFound)
}

func (s *Store) listTeams(ctx context.Context, params map[string]string) ([]models.Team, error) {
	var rows []teamRow
	if err := s.getList(ctx, "teams", params, &rows); err != nil {
		return nil, err
	}
	teams := make([]models.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, *row.toModel())
	}
	return teams, nil
}
