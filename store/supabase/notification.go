package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/store"
)

type notificationRow struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type readRow struct {
	ID             int `json:"id"`
	UserID         int `json:"user_id"`
	NotificationID int `json:"notification_id"`
}

func (r notificationRow) toModel() models.Notification {
	return models.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Message:   r.Message,
		Kind:      r.Kind,
		CreatedAt: r.CreatedAt,
	}
}

// visibleFilter matches notifications targeted at the user plus broadcasts.
func visibleFilter(userID int) string {
	return fmt.Sprintf("(user_id.eq.%d,user_id.is.null)", userID)
}

func (s *Store) CreateNotification(ctx context.Context, n *models.Notification) error {
	payload := map[string]interface{}{
		"user_id": n.UserID,
		"title":   n.Title,
		"message": n.Message,
		"kind":    n.Kind,
	}

	var row notificationRow
	if err := s.insertOne(ctx, "notifications", payload, &row); err != nil {
		return err
	}
	n.ID = row.ID
	n.CreatedAt = row.CreatedAt
	return nil
}

func (s *Store) GetNotification(ctx context.Context, id int) (*models.Notification, error) {
	var row notificationRow
	err := s.getOne(ctx, "notifications", map[string]string{"id": eq(id)}, &row, store.ErrNotificationNotFound)
	if err != nil {
		return nil, err
	}
	n := row.toModel()
	return &n, nil
}

func (s *Store) ListNotificationsForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	var rows []notificationRow
	err := s.getList(ctx, "notifications", map[string]string{
		"or":    visibleFilter(userID),
		"order": "created_at.desc",
	}, &rows)
	if err != nil {
		return nil, err
	}

	notifications := make([]models.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toModel())
	}
	return notifications, nil
}

func (s *Store) DeleteNotification(ctx context.Context, id int) error {
	return s.deleteByID(ctx, "notifications", id, store.ErrNotificationNotFound)
}

// MarkNotificationRead upserts the read-pair with ignore-duplicates, so a
// repeated mark is a no-op rather than a conflict.
func (s *Store) MarkNotificationRead(ctx context.Context, userID, notificationID int) error {
	payload := map[string]interface{}{
		"user_id":         userID,
		"notification_id": notificationID,
	}

	resp, err := s.request(ctx).
		SetHeader("Prefer", "resolution=ignore-duplicates").
		SetQueryParam("on_conflict", "user_id,notification_id").
		SetBody(payload).
		Post("/notification_reads")
	if err != nil {
		return fmt.Errorf("postgrest insert notification_reads: %w", err)
	}
	return translateResponse(resp, nil)
}

// ListUnreadNotifications is a client-side set difference: visible
// notifications minus the user's read-pairs. PostgREST has no NOT EXISTS,
// so this takes two round trips.
func (s *Store) ListUnreadNotifications(ctx context.Context, userID int) ([]models.Notification, error) {
	visible, err := s.ListNotificationsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var reads []readRow
	err = s.getList(ctx, "notification_reads", map[string]string{
		"user_id": eq(userID),
		"select":  "id,user_id,notification_id",
	}, &reads)
	if err != nil {
		return nil, err
	}

	read := make(map[int]struct{}, len(reads))
	for _, r := range reads {
		read[r.NotificationID] = struct{}{}
	}

	unread := make([]models.Notification, 0, len(visible))
	for _, n := range visible {
		if _, ok := read[n.ID]; !ok {
			unread = append(unread, n)
		}
	}
	return unread, nil
}

func (s *Store) CountUnreadNotifications(ctx context.Context, userID int) (int, error) {
	unread, err := s.ListUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(unread), nil
}
