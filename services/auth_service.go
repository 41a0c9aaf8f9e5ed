package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
	"github.com/gridclash/arena-api/utils"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	GameID   string `json:"game_id"`
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	store store.Store
}

func NewAuthService(st store.Store) AuthService {
	return &authService{store: st}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidationFailed)
	}
	if len(input.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if !utils.IsValidEmail(input.Email) {
		return nil, ErrInvalidEmail
	}
	if !utils.IsValidPhone(input.Phone) {
		return nil, ErrInvalidPhone
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		PasswordHash: hash,
		Email:        input.Email,
		Phone:        input.Phone,
		GameID:       input.GameID,
		Role:         models.RoleUser,
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, store.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, store.ErrPhoneTaken):
			return nil, ErrPhoneTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login never reveals which of username or password was wrong.
func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.store.GetUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}
