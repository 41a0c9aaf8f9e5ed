package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type RegistrationService interface {
	// Register enters a team (or the lone user, for solo tournaments)
	// into a tournament, enforcing the team-size admission rule and the
	// at-most-one-registration invariant.
	Register(ctx context.Context, input RegisterTeamInput, actor Actor) (*models.Registration, error)
	GetByID(ctx context.Context, id int) (*models.Registration, error)
	ListByTournament(ctx context.Context, tournamentID int, actor Actor) ([]models.Registration, error)
	ListByUser(ctx context.Context, userID int) ([]models.Registration, error)
	Update(ctx context.Context, id int, input models.RegistrationUpdate, actor Actor) (*models.Registration, error)
	Unregister(ctx context.Context, id int, actor Actor) error
}

type RegisterTeamInput struct {
	TournamentID int  `json:"tournament_id"`
	TeamID       *int `json:"team_id,omitempty"`
}

type registrationService struct {
	store store.Store
}

func NewRegistrationService(st store.Store) RegistrationService {
	return &registrationService{store: st}
}

func (s *registrationService) Register(ctx context.Context, input RegisterTeamInput, actor Actor) (*models.Registration, error) {
	tournament, err := s.store.GetTournament(ctx, input.TournamentID)
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", input.TournamentID, err)
	}

	if tournament.Status != models.StatusUpcoming {
		return nil, ErrTournamentClosed
	}

	count, err := s.store.CountRegistrations(ctx, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations: %w", err)
	}
	if count >= tournament.MaxSlots {
		return nil, ErrTournamentFull
	}

	teamID := input.TeamID
	if tournament.TeamMode == models.ModeSolo {
		// Solo entries carry no team reference.
		teamID = nil
	} else {
		if teamID == nil {
			return nil, fmt.Errorf("%w: team_id is required for %s tournaments", ErrValidationFailed, tournament.TeamMode)
		}
		if err := s.admitTeam(ctx, tournament, *teamID, actor); err != nil {
			return nil, err
		}
	}

	// Best-effort duplicate check; the unique constraint is the backstop
	// if two requests race past this point.
	exists, err := s.store.CheckRegistration(ctx, tournament.ID, teamID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing registration: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	reg := &models.Registration{
		TournamentID:  tournament.ID,
		TeamID:        teamID,
		UserID:        actor.UserID,
		Status:        models.RegistrationPending,
		PaymentStatus: models.PaymentPending,
	}
	if !tournament.Paid {
		reg.PaymentStatus = models.PaymentPaid
	}

	if err := s.store.CreateRegistration(ctx, reg); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyRegistered):
			return nil, ErrAlreadyRegistered
		case errors.Is(err, store.ErrInvalidTournamentRef):
			return nil, ErrTournamentNotFound
		case errors.Is(err, store.ErrInvalidTeamRef):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return reg, nil
}

// admitTeam applies the minimum-member-count rule for the tournament's
// team mode and verifies the registrant controls the team.
func (s *registrationService) admitTeam(ctx context.Context, tournament *models.Tournament, teamID int, actor Actor) error {
	team, err := s.store.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, store.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	if team.OwnerID != actor.UserID && !actor.IsAdmin() {
		return ErrOwnerOnly
	}

	required := tournament.TeamMode.MinMembers()
	if required == 0 {
		return nil
	}

	memberCount, err := s.store.CountTeamMembers(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to count members of team %d: %w", teamID, err)
	}
	if memberCount < required {
		return fmt.Errorf("%w: %s tournaments require at least %d members, team %q has %d",
			ErrTeamTooSmall, tournament.TeamMode, required, team.Name, memberCount)
	}
	return nil
}

func (s *registrationService) GetByID(ctx context.Context, id int) (*models.Registration, error) {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration %d: %w", id, err)
	}
	return reg, nil
}

func (s *registrationService) ListByTournament(ctx context.Context, tournamentID int, actor Actor) ([]models.Registration, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.store.ListRegistrationsByTournament(ctx, tournamentID)
}

func (s *registrationService) ListByUser(ctx context.Context, userID int) ([]models.Registration, error) {
	return s.store.ListRegistrationsByUser(ctx, userID)
}

func (s *registrationService) Update(ctx context.Context, id int, input models.RegistrationUpdate, actor Actor) (*models.Registration, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if input.PaymentStatus != nil && !input.PaymentStatus.Valid() {
		return nil, ErrInvalidStatus
	}

	reg, err := s.store.UpdateRegistration(ctx, id, input)
	if err != nil {
		if errors.Is(err, store.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to update registration %d: %w", id, err)
	}
	return reg, nil
}

func (s *registrationService) Unregister(ctx context.Context, id int, actor Actor) error {
	reg, err := s.store.GetRegistration(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to get registration %d: %w", id, err)
	}

	if reg.UserID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}

	if err := s.store.DeleteRegistration(ctx, id); err != nil {
		if errors.Is(err, store.ErrRegistrationNotFound) {
			return ErrRegistrationNotFound
		}
		return fmt.Errorf("failed to delete registration %d: %w", id, err)
	}
	return nil
}
