package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appnotification "github.com/printshop/backend/internal/application/notification"
	"github.com/printshop/backend/internal/domain/notification"
)

// NotificationHandler exposes the agent notification endpoints
type NotificationHandler struct {
	BaseHandler
	notificationService *appnotification.NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *appnotification.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// NotificationResponse is the wire form of a notification
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Message   string     `json:"message"`
	Read      bool       `json:"read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func toNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		Read:      n.Read,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// List returns the authenticated agent's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	unreadOnly := c.Query("unread_only") == "true"

	notifications, err := h.notificationService.List(c.Request.Context(), agentID, unreadOnly)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = toNotificationResponse(n)
	}

	h.Success(c, responses)
}

// UnreadCount returns the agent's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	count, err := h.notificationService.CountUnread(c.Request.Context(), agentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"unread": count})
}

// MarkRead marks one of the agent's notifications as read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	notificationID, ok := parseUUIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid notification ID")
		return
	}

	agentID, err := getAgentID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), notificationID, agentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers notification routes
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/:id/read", h.MarkRead)
	}
}
