package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/farmtrack/farmtrack/internal/middleware"
	"github.com/farmtrack/farmtrack/internal/services"
	"github.com/farmtrack/farmtrack/pkg/errors"
	"github.com/farmtrack/farmtrack/pkg/logger"
	"github.com/farmtrack/farmtrack/pkg/response"
)

// NotificationHandler exposes HTTP endpoints for the alert inbox.
type NotificationHandler struct {
	notifications *services.NotificationService
	alerts        *services.InventoryAlertService
	log           *zap.Logger
}

// NewNotificationHandler constructs a notification handler.
func NewNotificationHandler(db *gorm.DB, alerts *services.InventoryAlertService) (*NotificationHandler, error) {
	notifications, err := services.NewNotificationService(db)
	if err != nil {
		return nil, err
	}
	return &NotificationHandler{
		notifications: notifications,
		alerts:        alerts,
		log:           logger.WithModule("notifications"),
	}, nil
}

// List returns the user's notifications, newest first.
func (h *NotificationHandler) List(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.notifications.ListForUser(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// ListUnread returns only the unread notifications.
func (h *NotificationHandler) ListUnread(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	items, err := h.notifications.ListUnread(c.Request.Context(), uid)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, items)
}

// Get returns a single notification.
func (h *NotificationHandler) Get(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	item, err := h.notifications.Get(c.Request.Context(), uid, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, item)
}

// MarkRead flags one notification as read. Unknown ids succeed silently.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := h.notifications.MarkRead(c.Request.Context(), uid, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked_read": true})
}

// MarkAllRead flags every unread notification as read.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.notifications.MarkAllRead(c.Request.Context(), uid); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"marked_read": true})
}

// Delete removes a notification. Unknown ids succeed silently.
func (h *NotificationHandler) Delete(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	if err := h.notifications.Delete(c.Request.Context(), uid, id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// CheckDrugNotifications triggers an on-demand inventory sweep for the
// current user. The sweep is best-effort: failures are logged and the
// endpoint still reports success so a flaky sweep cannot break clients
// polling it after every inventory edit.
func (h *NotificationHandler) CheckDrugNotifications(c *gin.Context) {
	uid := middleware.UserUID(c)
	if uid == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if h.alerts != nil {
		if err := h.alerts.CheckUser(c.Request.Context(), uid); err != nil {
			h.log.Warn("manual inventory sweep failed", zap.String("user_uid", uid), zap.Error(err))
		}
	}

	response.Success(c, http.StatusOK, gin.H{"checked": true})
}
