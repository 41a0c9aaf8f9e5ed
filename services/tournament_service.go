package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gridclash/arena-api/media"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/store"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput, actor Actor) (*models.Tournament, error)
	// GetByID hides room credentials unless the caller is an admin or has
	// a registration in the tournament. actor may be nil for anonymous
	// reads.
	GetByID(ctx context.Context, id int, actor *Actor) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput, actor Actor) (*models.Tournament, error)
	Delete(ctx context.Context, id int, actor Actor) error

	UploadBanner(ctx context.Context, id int, contentType string, r io.Reader, actor Actor) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Title       string          `json:"title"`
	Description *string         `json:"description,omitempty"`
	StartTime   time.Time       `json:"start_time"`
	MapName     string          `json:"map_name"`
	TeamMode    models.TeamMode `json:"team_mode"`
	GameType    models.GameType `json:"game_type"`
	Paid        bool            `json:"paid"`
	EntryFee    int             `json:"entry_fee"`
	PrizePool   int             `json:"prize_pool"`
	MaxSlots    int             `json:"max_slots"`
}

type UpdateTournamentInput struct {
	Title        *string                  `json:"title,omitempty"`
	Description  *string                  `json:"description,omitempty"`
	StartTime    *time.Time               `json:"start_time,omitempty"`
	MapName      *string                  `json:"map_name,omitempty"`
	TeamMode     *models.TeamMode         `json:"team_mode,omitempty"`
	GameType     *models.GameType         `json:"game_type,omitempty"`
	Paid         *bool                    `json:"paid,omitempty"`
	EntryFee     *int                     `json:"entry_fee,omitempty"`
	PrizePool    *int                     `json:"prize_pool,omitempty"`
	MaxSlots     *int                     `json:"max_slots,omitempty"`
	Status       *models.TournamentStatus `json:"status,omitempty"`
	RoomID       *string                  `json:"room_id,omitempty"`
	RoomPassword *string                  `json:"room_password,omitempty"`
}

type tournamentService struct {
	store        store.Store
	hub          *notify.Hub
	uploader     media.FileUploader
	notification NotificationService
	logger       *slog.Logger
}

func NewTournamentService(st store.Store, hub *notify.Hub, uploader media.FileUploader, notification NotificationService, logger *slog.Logger) TournamentService {
	return &tournamentService{
		store:        st,
		hub:          hub,
		uploader:     uploader,
		notification: notification,
		logger:       logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput, actor Actor) (*models.Tournament, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if input.Title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidationFailed)
	}
	if !input.TeamMode.Valid() {
		return nil, ErrInvalidTeamMode
	}
	if !input.GameType.Valid() {
		return nil, ErrInvalidGameType
	}
	if input.MaxSlots <= 0 {
		return nil, fmt.Errorf("%w: max_slots must be positive", ErrValidationFailed)
	}
	if input.Paid && input.EntryFee <= 0 {
		return nil, fmt.Errorf("%w: paid tournaments need a positive entry fee", ErrValidationFailed)
	}

	t := &models.Tournament{
		Title:       input.Title,
		Description: input.Description,
		StartTime:   input.StartTime,
		MapName:     input.MapName,
		TeamMode:    input.TeamMode,
		GameType:    input.GameType,
		Paid:        input.Paid,
		EntryFee:    input.EntryFee,
		PrizePool:   input.PrizePool,
		MaxSlots:    input.MaxSlots,
		Status:      models.StatusUpcoming,
		CreatedBy:   actor.UserID,
	}

	if err := s.store.CreateTournament(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int, actor *Actor) (*models.Tournament, error) {
	t, err := s.store.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	count, err := s.store.CountRegistrations(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count registrations for tournament %d: %w", id, err)
	}
	t.RegisteredCount = count
	s.fillBannerURL(t)

	if !s.canSeeRoomCredentials(ctx, t, actor) {
		t.RoomID = nil
		t.RoomPassword = nil
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus) ([]models.Tournament, error) {
	var (
		tournaments []models.Tournament
		err         error
	)
	if status != nil {
		if !status.Valid() {
			return nil, ErrInvalidStatus
		}
		tournaments, err = s.store.ListTournamentsByStatus(ctx, *status)
	} else {
		tournaments, err = s.store.ListTournaments(ctx)
	}
	if err != nil {
		return nil, err
	}

	// Room credentials never appear on the public list.
	for i := range tournaments {
		tournaments[i].RoomID = nil
		tournaments[i].RoomPassword = nil
		s.fillBannerURL(&tournaments[i])
	}
	return tournaments, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput, actor Actor) (*models.Tournament, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}

	current, err := s.store.GetTournament(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}

	if input.TeamMode != nil && !input.TeamMode.Valid() {
		return nil, ErrInvalidTeamMode
	}
	if input.GameType != nil && !input.GameType.Valid() {
		return nil, ErrInvalidGameType
	}
	if input.MaxSlots != nil && *input.MaxSlots <= 0 {
		return nil, fmt.Errorf("%w: max_slots must be positive", ErrValidationFailed)
	}

	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, ErrInvalidStatus
		}
		if err := validateTransition(current.Status, *input.Status); err != nil {
			return nil, err
		}
		if *input.Status == models.StatusLive {
			roomID := current.RoomID
			roomPassword := current.RoomPassword
			if input.RoomID != nil {
				roomID = input.RoomID
			}
			if input.RoomPassword != nil {
				roomPassword = input.RoomPassword
			}
			if roomID == nil || *roomID == "" || roomPassword == nil || *roomPassword == "" {
				return nil, ErrRoomCredentialsNeeded
			}
		}
	}

	credentialsPublished := input.RoomID != nil && *input.RoomID != "" &&
		(current.RoomID == nil || *current.RoomID != *input.RoomID)

	t, err := s.store.UpdateTournament(ctx, id, models.TournamentUpdate{
		Title:        input.Title,
		Description:  input.Description,
		StartTime:    input.StartTime,
		MapName:      input.MapName,
		TeamMode:     input.TeamMode,
		GameType:     input.GameType,
		Paid:         input.Paid,
		EntryFee:     input.EntryFee,
		PrizePool:    input.PrizePool,
		MaxSlots:     input.MaxSlots,
		Status:       input.Status,
		RoomID:       input.RoomID,
		RoomPassword: input.RoomPassword,
	})
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to update tournament %d: %w", id, err)
	}

	if credentialsPublished {
		s.notifyRegistrants(ctx, t)
	}
	s.fillBannerURL(t)
	return t, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	// Application-level cascade: registrations go first.
	registrations, err := s.store.ListRegistrationsByTournament(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list registrations of tournament %d: %w", id, err)
	}
	for _, reg := range registrations {
		if err := s.store.DeleteRegistration(ctx, reg.ID); err != nil && !errors.Is(err, store.ErrRegistrationNotFound) {
			return fmt.Errorf("failed to delete registration %d: %w", reg.ID, err)
		}
	}

	if err := s.store.DeleteTournament(ctx, id); err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id int, contentType string, r io.Reader, actor Actor) (*models.Tournament, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if s.uploader == nil {
		return nil, fmt.Errorf("%w: media storage is not configured", ErrValidationFailed)
	}

	key := fmt.Sprintf("tournaments/%d/banner-%s", id, uuid.NewString())
	result, err := s.uploader.Upload(ctx, key, contentType, r)
	if err != nil {
		return nil, fmt.Errorf("failed to upload tournament banner: %w", err)
	}

	t, err := s.store.UpdateTournament(ctx, id, models.TournamentUpdate{BannerKey: &result.Key})
	if err != nil {
		if errors.Is(err, store.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to persist banner key: %w", err)
	}
	s.fillBannerURL(t)
	return t, nil
}

// validateTransition enforces upcoming -> live -> completed. Setting the
// same status again is a no-op, not an error.
func validateTransition(from, to models.TournamentStatus) error {
	if from == to {
		return nil
	}
	switch {
	case from == models.StatusUpcoming && to == models.StatusLive:
		return nil
	case from == models.StatusLive && to == models.StatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// notifyRegistrants fans out a room-credentials notification to everyone
// registered. Push failures are logged and dropped; the notification rows
// remain for the next poll.
func (s *tournamentService) notifyRegistrants(ctx context.Context, t *models.Tournament) {
	registrations, err := s.store.ListRegistrationsByTournament(ctx, t.ID)
	if err != nil {
		s.logger.Error("failed to list registrants for room notification",
			slog.Int("tournament_id", t.ID), slog.Any("error", err))
		return
	}

	for _, reg := range registrations {
		userID := reg.UserID
		if _, err := s.notification.Create(ctx, CreateNotificationInput{
			UserID:  &userID,
			Title:   "Room details published",
			Message: fmt.Sprintf("Room credentials for %q are now available.", t.Title),
			Kind:    "room_credentials",
		}); err != nil {
			s.logger.Error("failed to create room notification",
				slog.Int("user_id", userID), slog.Any("error", err))
		}
	}
}

func (s *tournamentService) canSeeRoomCredentials(ctx context.Context, t *models.Tournament, actor *Actor) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}

	registrations, err := s.store.ListRegistrationsByUser(ctx, actor.UserID)
	if err != nil {
		return false
	}
	for _, reg := range registrations {
		if reg.TournamentID == t.ID {
			return true
		}
	}
	return false
}

func (s *tournamentService) fillBannerURL(t *models.Tournament) {
	if s.uploader != nil && t.BannerKey != nil {
		url := s.uploader.GetPublicURL(*t.BannerKey)
		t.BannerURL = &url
	}
}
