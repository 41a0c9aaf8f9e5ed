package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

const notificationColumns = `id, user_id, title, message, kind, created_at`

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, title, message, kind)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := s.db.QueryRowContext(ctx, query,
		n.UserID,
		n.Title,
		n.Message,
		n.Kind,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id int) (*models.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n := &models.Notification{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, err
	}
	return n, nil
}

func (s *Store) ListNotificationsForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 OR user_id IS NULL
		ORDER BY created_at DESC`
	return s.listNotifications(ctx, query, userID)
}

func (s *Store) DeleteNotification(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}
	return checkAffectedRows(result, store.ErrNotificationNotFound)
}

// MarkNotificationRead is idempotent: the duplicate read-pair insert is
// swallowed by ON CONFLICT DO NOTHING.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, notificationID int) error {
	query := `
		INSERT INTO notification_reads (user_id, notification_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, notification_id) DO NOTHING`

	_, err := s.db.ExecContext(ctx, query, userID, notificationID)
	if err != nil {
		return translateError(err)
	}
	return nil
}

func (s *Store) ListUnreadNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications n
		WHERE (n.user_id = $1 OR n.user_id IS NULL)
		  AND NOT EXISTS (
			SELECT 1 FROM notification_reads r
			WHERE r.notification_id = n.id AND r.user_id = $1
		  )
		ORDER BY n.created_at DESC`
	return s.listNotifications(ctx, query, userID)
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID int) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications n
		WHERE (n.user_id = $1 OR n.user_id IS NULL)
		  AND NOT EXISTS (
			SELECT 1 FROM notification_reads r
			WHERE r.notification_id = n.id AND r.user_id = $1
		  )`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) listNotifications(ctx context.Context, query string, args ...interface{}) ([]models.Notification, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notifications := make([]models.Notification, 0)
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Title, &n.Message, &n.Kind, &n.CreatedAt,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
