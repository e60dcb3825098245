package handler

import (
	"net/http"

	"avyyan/internal/dto"
	"avyyan/internal/service"

	"github.com/gin-gonic/gin"
)

// NotificationsHandler only ever touches the caller's own notifications.
type NotificationsHandler struct{ svc service.NotificationService }

func NewNotificationsHandler(svc service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{svc: svc}
}

// List godoc
// @Summary      List the current user's notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        unread query bool false "Only unread"
// @Param        page   query int  false "Page (default 1)"
// @Param        limit  query int  false "Page size (default 30)"
// @Success      200    {object} dto.NotificationListResponse
// @Router       /v1/notifications [get]
func (h *NotificationsHandler) List(c *gin.Context) {
	var filter dto.NotificationFilter
	if !bindQuery(c, &filter) {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	resp, err := h.svc.List(c.Request.Context(), userID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationsHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: n})
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), userID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationsHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	n, err := h.svc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}
