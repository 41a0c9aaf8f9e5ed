package models

import "time"

// Notification is either targeted (UserID set) or a broadcast (UserID nil).
// Read-state for broadcasts is tracked per user in NotificationRead, since
// the notification row itself is shared.
type Notification struct {
	ID        int       `json:"id"`
	UserID    *int      `json:"user_id,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRead struct {
	ID             int       `json:"id"`
	UserID         int       `json:"user_id"`
	NotificationID int       `json:"notification_id"`
	ReadAt         time.Time `json:"read_at"`
}
