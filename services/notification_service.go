package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gridclash/arena-api/cache"
	"github.com/gridclash/arena-api/models"
	"github.com/gridclash/arena-api/notify"
	"github.com/gridclash/arena-api/store"
)

type NotificationService interface {
	// Create stores a targeted (UserID set) or broadcast (UserID nil)
	// notification and pushes fresh unread counts over the hub.
	Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error)
	ListForUser(ctx context.Context, userID int) ([]models.Notification, error)
	ListUnread(ctx context.Context, userID int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID int) (int, error)
	// MarkRead is idempotent: marking twice leaves exactly one read-pair.
	MarkRead(ctx context.Context, userID, notificationID int) error
}

type CreateNotificationInput struct {
	UserID  *int   `json:"user_id,omitempty"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

type notificationService struct {
	store  store.Store
	hub    *notify.Hub
	cache  *cache.UnreadCache
	logger *slog.Logger
}

func NewNotificationService(st store.Store, hub *notify.Hub, unreadCache *cache.UnreadCache, logger *slog.Logger) NotificationService {
	return &notificationService{
		store:  st,
		hub:    hub,
		cache:  unreadCache,
		logger: logger,
	}
}

func (s *notificationService) Create(ctx context.Context, input CreateNotificationInput) (*models.Notification, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("%w: notification title is required", ErrValidationFailed)
	}
	if input.Kind == "" {
		input.Kind = "general"
	}

	n := &models.Notification{
		UserID:  input.UserID,
		Title:   input.Title,
		Message: input.Message,
		Kind:    input.Kind,
	}
	if err := s.store.CreateNotification(ctx, n); err != nil {
		if errors.Is(err, store.ErrInvalidUserRef) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	if n.UserID != nil {
		s.invalidateAndPush(ctx, *n.UserID)
	} else {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate unread cache after broadcast", slog.Any("error", err))
		}
		s.hub.Broadcast(map[string]interface{}{
			"type":         "notification",
			"notification": n,
		})
	}
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID int) ([]models.Notification, error) {
	return s.store.ListNotificationsForUser(ctx, userID)
}

func (s *notificationService) ListUnread(ctx context.Context, userID int) ([]models.Notification, error) {
	return s.store.ListUnreadNotifications(ctx, userID)
}

func (s *notificationService) UnreadCount(ctx context.Context, userID int) (int, error) {
	if count, ok := s.cache.Get(ctx, userID); ok {
		return count, nil
	}

	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	if err := s.cache.Set(ctx, userID, count); err != nil {
		s.logger.Warn("failed to cache unread count", slog.Int("user_id", userID), slog.Any("error", err))
	}
	return count, nil
}

func (s *notificationService) MarkRead(ctx context.Context, userID, notificationID int) error {
	n, err := s.store.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		return fmt.Errorf("failed to get notification %d: %w", notificationID, err)
	}

	// A targeted notification can only be acknowledged by its recipient.
	if n.UserID != nil && *n.UserID != userID {
		return ErrNotificationNotFound
	}

	if err := s.store.MarkNotificationRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, store.ErrAlreadyRead) {
			return nil
		}
		return fmt.Errorf("failed to mark notification %d read: %w", notificationID, err)
	}

	s.invalidateAndPush(ctx, userID)
	return nil
}

// invalidateAndPush drops the cached count and pushes the recomputed one.
// Push is best effort; a disconnected client catches up on next poll.
func (s *notificationService) invalidateAndPush(ctx context.Context, userID int) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("failed to invalidate unread cache", slog.Int("user_id", userID), slog.Any("error", err))
	}

	count, err := s.store.CountUnreadNotifications(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to recompute unread count", slog.Int("user_id", userID), slog.Any("error", err))
		return
	}
	if err := s.cache.Set(ctx, userID, count); err != nil {
		s.logger.Warn("failed to cache unread count", slog.Int("user_id", userID), slog.Any("error", err))
	}
	s.hub.PushUnreadCount(userID, count)
}
