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

const tournamentColumns = `id, title, description, start_time, map_name, team_mode, game_type,
	paid, entry_fee, prize_pool, max_slots, status, room_id, room_password, banner_key,
	created_by, created_at`

func (s *Store) CreateTournament(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (title, description, start_time, map_name, team_mode, game_type,
			paid, entry_fee, prize_pool, max_slots, status, room_id, room_password, banner_key, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		t.Title,
		t.Description,
		t.StartTime,
		t.MapName,
		t.TeamMode,
		t.GameType,
		t.Paid,
		t.EntryFee,
		t.PrizePool,
		t.MaxSlots,
		t.Status,
		t.RoomID,
		t.RoomPassword,
		t.BannerKey,
		t.CreatedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetTournament(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`

	t := &models.Tournament{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(tournamentFields(t)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTournamentNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *Store) ListTournaments(ctx context.Context) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments ORDER BY start_time ASC`
	return s.listTournaments(ctx, query)
}

func (s *Store) ListTournamentsByStatus(ctx context.Context, status models.TournamentStatus) ([]models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE status = $1 ORDER BY start_time ASC`
	return s.listTournaments(ctx, query, status)
}

func (s *Store) UpdateTournament(ctx context.Context, id int, upd models.TournamentUpdate) (*models.Tournament, error) {
	sets := make([]string, 0, 14)
	args := make([]interface{}, 0, 15)
	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Title != nil {
		add("title", *upd.Title)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.StartTime != nil {
		add("start_time", *upd.StartTime)
	}
	if upd.MapName != nil {
		add("map_name", *upd.MapName)
	}
	if upd.TeamMode != nil {
		add("team_mode", *upd.TeamMode)
	}
	if upd.GameType != nil {
		add("game_type", *upd.GameType)
	}
	if upd.Paid != nil {
		add("paid", *upd.Paid)
	}
	if upd.EntryFee != nil {
		add("entry_fee", *upd.EntryFee)
	}
	if upd.PrizePool != nil {
		add("prize_pool", *upd.PrizePool)
	}
	if upd.MaxSlots != nil {
		add("max_slots", *upd.MaxSlots)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.RoomID != nil {
		add("room_id", *upd.RoomID)
	}
	if upd.RoomPassword != nil {
		add("room_password", *upd.RoomPassword)
	}
	if upd.BannerKey != nil {
		add("banner_key", *upd.BannerKey)
	}
	if len(sets) == 0 {
		return s.GetTournament(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE tournaments SET %s WHERE id = $%d RETURNING `+tournamentColumns,
		strings.Join(sets, ", "), len(args),
	)

	t := &models.Tournament{}
	err := s.db.QueryRowContext(ctx, query, args...).Scan(tournamentFields(t)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTournamentNotFound
		}
		return nil, translateError(err)
	}
	return t, nil
}

func (s *Store) DeleteTournament(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return checkAffectedRows(result, store.ErrTournamentNotFound)
}

func (s *Store) listTournaments(ctx context.Context, query string, args ...interface{}) ([]models.Tournament, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		var t models.Tournament
		if err := rows.Scan(tournamentFields(&t)...); err != nil {
			return nil, err
		}
		tournaments = append(tournaments, t)
	}
	return tournaments, rows.Err()
}

// tournamentFields returns scan destinations in tournamentColumns order.
func tournamentFields(t *models.Tournament) []interface{} {
	return []interface{}{
		&t.ID, &t.Title, &t.Description, &t.StartTime, &t.MapName, &t.TeamMode, &t.GameType,
		&t.Paid, &t.EntryFee, &t.PrizePool, &t.MaxSlots, &t.Status, &t.RoomID, &t.RoomPassword,
		&t.BannerKey, &t.CreatedBy, &t.CreatedAt,
	}
}
