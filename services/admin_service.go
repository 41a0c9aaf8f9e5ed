package services

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
	"github.com/gridclash/arena-api/utils"
)

type AdminService interface {
	// SetRole grants or revokes the admin role. Protected identities are
	// exempt from demotion no matter who asks.
	SetRole(ctx context.Context, userID int, role models.UserRole, actor Actor) (*models.User, error)
	// EnsureBootstrapAdmin creates the protected system administrator on
	// first startup: an admins row plus a matching protected users row.
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

type adminService struct {
	store  store.Store
	logger *slog.Logger
}

func NewAdminService(st store.Store, logger *slog.Logger) AdminService {
	return &adminService{store: st, logger: logger}
}

func (s *adminService) SetRole(ctx context.Context, userID int, role models.UserRole, actor Actor) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: unknown role %q", ErrValidationFailed, role)
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if user.Protected && role != models.RoleAdmin {
		return nil, ErrProtectedIdentity
	}

	updated, err := s.store.UpdateUser(ctx, userID, models.UserUpdate{Role: &role})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update role of user %d: %w", userID, err)
	}
	return updated, nil
}

func (s *adminService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return fmt.Errorf("%w: bootstrap admin username and password are required", ErrValidationFailed)
	}

	_, err := s.store.GetAdminByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrAdminNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash bootstrap admin password: %w", err)
	}

	admin := &models.Admin{
		Username:     username,
		PasswordHash: hash,
		AccessLevel:  1,
		Protected:    true,
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil && !errors.Is(err, store.ErrUsernameTaken) {
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	// Mirror the identity into users so it can authenticate through the
	// regular login path.
	if _, err := s.store.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin user: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        username + "@arena.local",
		Phone:        placeholderPhone(username),
		GameID:       "system",
		Role:         models.RoleAdmin,
		Protected:    true,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		// A bootstrap admin created under an earlier ADMIN_USERNAME may
		// still hold the placeholder contact fields. The admins row is
		// what matters, so startup continues.
		if errors.Is(err, store.ErrEmailTaken) || errors.Is(err, store.ErrPhoneTaken) {
			s.logger.Warn("bootstrap admin user not mirrored, placeholder contact fields in use",
				slog.String("username", username))
			return nil
		}
		return fmt.Errorf("failed to create bootstrap admin user: %w", err)
	}

	s.logger.Info("bootstrap admin created", slog.String("username", username))
	return nil
}

// placeholderPhone fills the NOT NULL unique phone column for the mirrored
// bootstrap user. Real phones never start with 0, and hashing the username
// keeps distinct bootstrap usernames from colliding with each other.
func placeholderPhone(username string) string {
	h := fnv.New32a()
	h.Write([]byte(username))
	return fmt.Sprintf("0%09d", h.Sum32()%1_000_000_000)
}
