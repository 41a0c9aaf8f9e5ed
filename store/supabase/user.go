package supabase

import (
	"context"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type userRow struct {
	ID            int             `json:"id"`
	Username      string          `json:"username"`
	PasswordHash  string          `json:"password_hash"`
	Email         string          `json:"email"`
	Phone         string          `json:"phone"`
	PhoneVerified bool            `json:"phone_verified"`
	GameID        string          `json:"game_id"`
	Role          models.UserRole `json:"role"`
	Protected     bool            `json:"protected"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:            r.ID,
		Username:      r.Username,
		PasswordHash:  r.PasswordHash,
		Email:         r.Email,
		Phone:         r.Phone,
		PhoneVerified: r.PhoneVerified,
		GameID:        r.GameID,
		Role:          r.Role,
		Protected:     r.Protected,
		CreatedAt:     r.CreatedAt,
	}
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	payload := map[string]interface{}{
		"username":       user.Username,
		"password_hash":  user.PasswordHash,
		"email":          user.Email,
		"phone":          user.Phone,
		"phone_verified": user.PhoneVerified,
		"game_id":        user.GameID,
		"role":           user.Role,
		"protected":      user.Protected,
	}

	var row userRow
	if err := s.insertOne(ctx, "users", payload, &row); err != nil {
		return err
	}
	user.ID = row.ID
	user.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int) (*models.User, error) {
	var row userRow
	err := s.getOne(ctx, "users", map[string]string{"id": eq(id)}, &row, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var row userRow
	err := s.getOne(ctx, "users", map[string]string{"username": "eq." + username}, &row, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	err := s.getOne(ctx, "users", map[string]string{"email": "eq." + email}, &row, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var row userRow
	err := s.getOne(ctx, "users", map[string]string{"phone": "eq." + phone}, &row, store.ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var rows []userRow
	if err := s.getList(ctx, "users", map[string]string{"order": "id.asc"}, &rows); err != nil {
		return nil, err
	}
	users := make([]models.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, *row.toModel())
	}
	return users, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int, upd models.UserUpdate) (*models.User, error) {
	payload := map[string]interface{}{}
	if upd.Username != nil {
		payload["username"] = *upd.Username
	}
	if upd.PasswordHash != nil {
		payload["password_hash"] = *upd.PasswordHash
	}
	if upd.Email != nil {
		payload["email"] = *upd.Email
	}
	if upd.Phone != nil {
		payload["phone"] = *upd.Phone
	}
	if upd.PhoneVerified != nil {
		payload["phone_verified"] = *upd.PhoneVerified
	}
	if upd.GameID != nil {
		payload["game_id"] = *upd.GameID
	}
	if upd.Role != nil {
		payload["role"] = *upd.Role
	}
	if len(payload) == 0 {
		return s.GetUser(ctx, id)
	}

	var row userRow
	if err := s.patchByID(ctx, "users", id, payload, &row, store.ErrUserNotFound); err != nil {
		return nil, err
	}
	return row.toModel(), nil
}

func (s *Store) DeleteUser(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "users", id, store.ErrUserNotFound)
}
