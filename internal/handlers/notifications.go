package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"newsflow-backend/internal/database"
	"newsflow-backend/internal/models"
)

const notificationPageSize = 50

type NotificationsHandler struct {
	db *database.Client
}

func NewNotificationsHandler(db *database.Client) *NotificationsHandler {
	return &NotificationsHandler{db: db}
}

// ListNotifications returns the caller's most recent notifications.
func (h *NotificationsHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notifications, err := h.db.ListNotifications(c.Request.Context(), userID, notificationPageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list notifications", Message: err.Error()})
		return
	}

	responses := make([]models.NotificationResponse, len(notifications))
	for i := range notifications {
		responses[i] = notificationResponse(&notifications[i])
	}
	c.JSON(http.StatusOK, models.NotificationListResponse{Notifications: responses})
}

// MarkRead marks a notification as read. Only its target user may do so.
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	notificationID, ok := pathUUID(c, "notification_id")
	if !ok {
		return
	}

	notification, err := h.db.GetNotification(c.Request.Context(), notificationID)
	if err != nil {
		writeEngineError(c, err)
		return
	}
	if notification.UserID != userID {
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "access denied"})
		return
	}

	if err := h.db.MarkNotificationRead(c.Request.Context(), notificationID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to update notification", Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{Message: "notification marked as read"})
}
