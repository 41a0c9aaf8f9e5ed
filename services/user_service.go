package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
	"github.com/gridclash/arena-api/utils"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error)
	// Delete removes a user and everything they own: each owned team with
	// its members and registrations, then the user's own registrations,
	// then the user row. Children always go before parents because no
	// backend cascades on its own.
	Delete(ctx context.Context, id int, actor Actor) error
}

type UpdateProfileInput struct {
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	GameID   *string `json:"game_id,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Actor is the session-derived identity every mutating operation is
// checked against before any storage call.
type Actor struct {
	UserID int
	Role   models.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

type userService struct {
	store       store.Store
	teamService TeamService
}

func NewUserService(st store.Store, teamService TeamService) UserService {
	return &userService{store: st, teamService: teamService}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]models.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *userService) UpdateProfile(ctx context.Context, id int, input UpdateProfileInput) (*models.User, error) {
	upd := models.UserUpdate{
		GameID: input.GameID,
	}

	if input.Email != nil {
		if !utils.IsValidEmail(*input.Email) {
			return nil, ErrInvalidEmail
		}
		upd.Email = input.Email
	}
	if input.Phone != nil {
		if !utils.IsValidPhone(*input.Phone) {
			return nil, ErrInvalidPhone
		}
		upd.Phone = input.Phone
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, ErrPasswordTooShort
		}
		hash, err := utils.HashPassword(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		upd.PasswordHash = &hash
	}

	user, err := s.store.UpdateUser(ctx, id, upd)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, store.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, store.ErrPhoneTaken):
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int, actor Actor) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}

	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", id, err)
	}
	if user.Protected {
		return ErrProtectedIdentity
	}

	teams, err := s.store.ListTeamsByOwner(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list teams owned by user %d: %w", id, err)
	}
	for _, team := range teams {
		if err := s.teamService.Delete(ctx, team.ID, actor); err != nil {
			return fmt.Errorf("failed to cascade-delete team %d: %w", team.ID, err)
		}
	}

	registrations, err := s.store.ListRegistrationsByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list registrations for user %d: %w", id, err)
	}
	for _, reg := range registrations {
		if err := s.store.DeleteRegistration(ctx, reg.ID); err != nil && !errors.Is(err, store.ErrRegistrationNotFound) {
			return fmt.Errorf("failed to delete registration %d: %w", reg.ID, err)
		}
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
