package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	syncpkg "github.com/Steerify/Suretruqs-sub000/internal/sync"
)

// NotificationHandler handles HTTP requests for the notification feeds.
type NotificationHandler struct {
	reconciler *syncpkg.Reconciler
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(reconciler *syncpkg.Reconciler) *NotificationHandler {
	return &NotificationHandler{reconciler: reconciler}
}

// GetAll handles GET /v1/notifications
func (h *NotificationHandler) GetAll(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.Notifications())
}

// GetAdmin handles GET /v1/notifications/admin
func (h *NotificationHandler) GetAdmin(c *gin.Context) {
	respondJSON(c, http.StatusOK, h.reconciler.AdminNotifications())
}

// MarkRead handles POST /v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	if err := h.reconciler.MarkNotificationRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarkAllRead handles POST /v1/notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.reconciler.MarkAllNotificationsRead(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
