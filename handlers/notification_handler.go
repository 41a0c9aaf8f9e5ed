package handlers

import (
	"net/http"

	"github.com/gridclash/arena-api/middleware"
	"github.com/gridclash/arena-api/services"
)

type NotificationHandler struct {
	notificationService services.NotificationService
}

func NewNotificationHandler(notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// Create is the admin endpoint for targeted or broadcast notifications.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateNotificationInput
	if err := readJSON(w, r, &input); err != nil {
		badRequest(w, err)
		return
	}

	n, err := h.notificationService.Create(r.Context(), input)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, n)
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var notifications interface{}
	if r.URL.Query().Get("unread") == "true" {
		notifications, err = h.notificationService.ListUnread(r.Context(), userID)
	} else {
		notifications, err = h.notificationService.ListForUser(r.Context(), userID)
	}
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	count, err := h.notificationService.UnreadCount(r.Context(), userID)
	if err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"unread_count": count})
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}

	notificationID, err := urlParamInt(r, "id")
	if err != nil {
		badRequest(w, err)
		return
	}

	if err := h.notificationService.MarkRead(r.Context(), userID, notificationID); err != nil {
		mapServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"message": "notification marked as read"})
}
