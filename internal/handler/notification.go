package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ncobase/jobboard/net/resp"
)

// ListNotifications handles GET /notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	list, err := h.svc.Notification.List(c.Request.Context(), actor(c))
	reply(c, list, err)
}

// MarkNotificationRead handles PUT /notifications/:notification_id/read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	n, err := h.svc.Notification.MarkRead(c.Request.Context(), actor(c), c.Param("notification_id"))
	reply(c, n, err)
}

// MarkAllNotificationsRead handles PUT /notifications/read-all.
func (h *Handler) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.svc.Notification.MarkAllRead(c.Request.Context(), actor(c))
	reply(c, gin.H{"updated": n}, err)
}

// DeleteNotification handles DELETE /notifications/:notification_id.
func (h *Handler) DeleteNotification(c *gin.Context) {
	if err := h.svc.Notification.Delete(c.Request.Context(), actor(c), c.Param("notification_id")); err != nil {
		resp.Error(c.Writer, err)
		return
	}
	resp.Success(c.Writer, "notification deleted")
}
