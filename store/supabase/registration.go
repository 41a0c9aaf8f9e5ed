package supabase

import (
	"context"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type registrationRow struct {
	ID            int                       `json:"id"`
	TournamentID  int                       `json:"tournament_id"`
	TeamID        *int                      `json:"team_id"`
	UserID        int                       `json:"user_id"`
	Slot          *int                      `json:"slot"`
	Status        models.RegistrationStatus `json:"status"`
	PaymentStatus models.PaymentStatus      `json:"payment_status"`
	CreatedAt     time.Time                 `json:"created_at"`
}

func (r registrationRow) toModel() *models.Registration {
	return &models.Registration{
		ID:            r.ID,
		TournamentID:  r.TournamentID,
		TeamID:        r.TeamID,
		UserID:        r.UserID,
		Slot:          r.Slot,
		Status:        r.Status,
		PaymentStatus: r.PaymentStatus,
		CreatedAt:     r.CreatedAt,
	}
}

func (s *Store) CreateRegistration(ctx context.Context, reg *models.Registration) error {
	payload := map[string]interface{}{
		"tournament_id":  reg.TournamentID,
		"team_id":        reg.TeamID,
		"user_id":        reg.UserID,
		"slot":           reg.Slot,
		"status":         reg.Status,
		"payment_status": reg.PaymentStatus,
	}

	var row registrationRow
	if err := s.insertOne(ctx, "registrations", payload, &row); err != nil {
		return err
	}
	reg.ID = row.ID
	reg.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetRegistration(ctx context.Context, id int) (*models.Registration, error) {
	var row registrationRow
	err := s.getOne(ctx, "registrations", map[string]string{"id": eq(id)}, &row, store.ErrRegistrationNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) ListRegistrationsByTournament(ctx context.Context, tournamentID int) ([]models.Registration, error) {
	return s.listRegistrations(ctx, map[string]string{
		"tournament_id": eq(tournamentID),
		"order":         "created_at.asc",
	})
}

func (s *Store) ListRegistrationsByUser(ctx context.Context, userID int) ([]models.Registration, error) {
	return s.listRegistrations(ctx, map[string]string{
		"user_id": eq(userID),
		"order":   "created_at.desc",
	})
}

func (s *Store) ListRegistrationsByTeam(ctx context.Context, teamID int) ([]models.Registration, error) {
	return s.listRegistrations(ctx, map[string]string{
		"team_id": eq(teamID),
		"order":   "created_at.desc",
	})
}

func (s *Store) CountRegistrations(ctx context.Context, tournamentID int) (int, error) {
	return s.count(ctx, "registrations", map[string]string{"tournament_id": eq(tournamentID)})
}

// CheckRegistration is a plain existence probe. Nothing wraps the probe
// and the subsequent insert, so two concurrent registrations can both
// pass it; the unique index on the hosted database decides the winner.
func (s *Store) CheckRegistration(ctx context.Context, tournamentID int, teamID *int, userID int) (bool, error) {
	params := map[string]string{
		"tournament_id": eq(tournamentID),
		"select":        "id",
		"limit":         "1",
	}
	if teamID != nil {
		params["team_id"] = eq(*teamID)
	} else {
		params["team_id"] = "is.null"
		params["user_id"] = eq(userID)
	}

	var rows []registrationRow
	if err := s.getList(ctx, "registrations", params, &rows); err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

func (s *Store) UpdateRegistration(ctx context.Context, id int, upd models.RegistrationUpdate) (*models.Registration, error) {
	payload := map[string]interface{}{}
	if upd.Slot != nil {
		payload["slot"] = *upd.Slot
	}
	if upd.Status != nil {
		payload["status"] = *upd.Status
	}
	if upd.PaymentStatus != nil {
		payload["payment_status"] = *upd.PaymentStatus
	}
	if len(payload) == 0 {
		return s.GetRegistration(ctx, id)
	}

	var row registrationRow
	if err := s.patchByID(ctx, "registrations", id, payload, &row, store.ErrRegistrationNotFound); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) DeleteRegistration(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "registrations", id, store.ErrRegistrationNotFound)
}

func (s *Store) listRegistrations(ctx context.Context, params map[string]string) ([]models.Registration, error) {
	var rows []registrationRow
	if err := s.getList(ctx, "registrations", params, &rows); err != nil {
		return nil, err
	}
	regs := make([]models.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, *row.toModel())
	}
	return regs, nil
}
