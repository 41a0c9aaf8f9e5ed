package supabase

import (
	"context"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type adminRow struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"password_hash"`
	AccessLevel  int       `json:"access_level"`
	Protected    bool      `json:"protected"`
	CreatedAt    time.Time `json:"created_at"`
}

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	payload := map[string]interface{}{
		"username":      admin.Username,
		"password_hash": admin.PasswordHash,
		"access_level":  admin.AccessLevel,
		"protected":     admin.Protected,
	}

	var row adminRow
	if err := s.insertOne(ctx, "admins", payload, &row); err != nil {
		return err
	}
	admin.ID = row.ID
	admin.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	var row adminRow
	err := s.getOne(ctx, "admins", map[string]string{"username": "eq." + username}, &row, store.ErrAdminNotFound)
	if err != nil {
		return nil, err
	}
	return &models.Admin{
		ID:           row.ID,
		Username:     row.Username,
		PasswordHash: row.PasswordHash,
		AccessLevel:  row.AccessLevel,
		Protected:    row.Protected,
		CreatedAt:    row.CreatedAt,
	}, nil
}
