package supabase

import (
	"context"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type tournamentRow struct {
	ID           int                     `json:"id"`
	Title        string                  `json:"title"`
	Description  *string                 `json:"description"`
	StartTime    time.Time               `json:"start_time"`
	MapName      string                  `json:"map_name"`
	TeamMode     models.TeamMode         `json:"team_mode"`
	GameType     models.GameType         `json:"game_type"`
	Paid         bool                    `json:"paid"`
	EntryFee     int                     `json:"entry_fee"`
	PrizePool    int                     `json:"prize_pool"`
	MaxSlots     int                     `json:"max_slots"`
	Status       models.TournamentStatus `json:"status"`
	RoomID       *string                 `json:"room_id"`
	RoomPassword *string                 `json:"room_password"`
	BannerKey    *string                 `json:"banner_key"`
	CreatedBy    int                     `json:"created_by"`
	CreatedAt    time.Time               `json:"created_at"`
}

func (r tournamentRow) toModel() *models.Tournament {
	return &models.Tournament{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		StartTime:    r.StartTime,
		MapName:      r.MapName,
		TeamMode:     r.TeamMode,
		GameType:     r.GameType,
		Paid:         r.Paid,
		EntryFee:     r.EntryFee,
		PrizePool:    r.PrizePool,
		MaxSlots:     r.MaxSlots,
		Status:       r.Status,
		RoomID:       r.RoomID,
		RoomPassword: r.RoomPassword,
		BannerKey:    r.BannerKey,
		CreatedBy:    r.CreatedBy,
		CreatedAt:    r.CreatedAt,
	}
}

func (s *Store) CreateTournament(ctx context.Context, t *models.Tournament) error {
	payload := map[string]interface{}{
		"title":         t.Title,
		"description":   t.Description,
		"start_time":    t.StartTime,
		"map_name":      t.MapName,
		"team_mode":     t.TeamMode,
		"game_type":     t.GameType,
		"paid":          t.Paid,
		"entry_fee":     t.EntryFee,
		"prize_pool":    t.PrizePool,
		"max_slots":     t.MaxSlots,
		"status":        t.Status,
		"room_id":       t.RoomID,
		"room_password": t.RoomPassword,
		"banner_key":    t.BannerKey,
		"created_by":    t.CreatedBy,
	}

	var row tournamentRow
	if err := s.insertOne(ctx, "tournaments", payload, &row); err != nil {
		return err
	}
	t.ID = row.ID
	t.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	var row tournamentRow
	err := s.getOne(ctx, "tournaments", map[string]string{"id": eq(id)}, &row, store.ErrTournamentNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	return s.listTournaments(ctx, map[string]string{"order": "start_time.asc"})
}

func (s *Store) ListTournamentsByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	return s.listTournaments(ctx, map[string]string{
		"status": "eq." + string(status),
		"order":  "start_time.asc",
	})
}

func (s *Store) UpdateTournament(ctx context.Context, id int, upd models.TournamentUpdate) (*models.Tournament, error) {
	payload := map[string]interface{}{}
	if upd.Title != nil {
		payload["title"] = *upd.Title
	}
	if upd.Description != nil {
		payload["description"] = *upd.Description
	}
	if upd.StartTime != nil {
		payload["start_time"] = *upd.StartTime
	}
	if upd.MapName != nil {
		payload["map_name"] = *upd.MapName
	}
	if upd.TeamMode != nil {
		payload["team_mode"] = *upd.TeamMode
	}
	if upd.GameType != nil {
		payload["game_type"] = *upd.GameType
	}
	if upd.Paid != nil {
		payload["paid"] = *upd.Paid
	}
	if upd.EntryFee != nil {
		payload["entry_fee"] = *upd.EntryFee
	}
	if upd.PrizePool != nil {
		payload["prize_pool"] = *upd.PrizePool
	}
	if upd.MaxSlots != nil {
		payload["max_slots"] = *upd.MaxSlots
	}
	if upd.Status != nil {
		payload["status"] = *upd.Status
	}
	if upd.RoomID != nil {
		payload["room_id"] = *upd.RoomID
	}
	if upd.RoomPassword != nil {
		payload["room_password"] = *upd.RoomPassword
	}
	if upd.BannerKey != nil {
		payload["banner_key"] = *upd.BannerKey
	}
	if len(payload) == 0 {
		return s.GetTournament(ctx, id)
	}

	var row tournamentRow
	if err := s.patchByID(ctx, "tournaments", id, payload, &row, store.ErrTournamentNotFound); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) DeleteTournament(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "tournaments", id, store.ErrTournamentNotFound)
}

func (s *Store) listTournaments(ctx context.Context, params map[string]string) ([]models.Tournament, error) {
	var rows []tournamentRow
	if err := s.getList(ctx, "tournaments", params, &rows); err != nil {
		return nil, err
	}
	tournaments := make([]models.Tournament, 0, len(rows))
	for _, row := range rows {
		tournaments = append(tournaments, *row.toModel())
	}
	return tournaments, nil
}
