package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

func (s *Store) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (username, password_hash, access_level, protected)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		admin.Username,
		admin.PasswordHash,
		admin.AccessLevel,
		admin.Protected,
	).Scan(&admin.ID, &admin.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `
		SELECT id, username, password_hash, access_level, protected, created_at
		FROM admins
		WHERE username = $1`

	admin := &models.Admin{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash,
		&admin.AccessLevel, &admin.Protected, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAdminNotFound
		}
		return nil, err
	}
	return admin, nil
}
