package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/database/notifications"
	"github.com/alwznx/pustaka/internal/entities"
)

// NotificationsStore defines the inbox operations the controller needs.
type NotificationsStore interface {
	ListNotifications(userID uint) ([]entities.Notification, error)
	CountUnread(userID uint) (int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	DeleteNotification(id, userID uint) error
}

// NotificationsController serves the per-user inbox. Every operation is
// scoped to the authenticated user.
type NotificationsController struct {
	store NotificationsStore
}

func NewNotificationsController(store NotificationsStore) *NotificationsController {
	return &NotificationsController{store: store}
}

// List returns the user's inbox, newest first.
func (nc *NotificationsController) List(c *gin.Context) {
	userID := GetUserID(c)

	list, err := nc.store.ListNotifications(userID)
	if err != nil {
		respondInternalError(c, err, "listing notifications")
		return
	}

	unread, err := nc.store.CountUnread(userID)
	if err != nil {
		respondInternalError(c, err, "counting unread")
		return
	}

	c.JSON(200, gin.H{
		"notifications": list,
		"total":         len(list),
		"unread":        unread,
	})
}

// UnreadCount returns the badge count only.
func (nc *NotificationsController) UnreadCount(c *gin.Context) {
	unread, err := nc.store.CountUnread(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "counting unread")
		return
	}

	c.JSON(200, gin.H{"unread": unread})
}

// MarkRead flags one message as read.
func (nc *NotificationsController) MarkRead(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.store.MarkRead(id, GetUserID(c)); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "notification")
			return
		}
		respondInternalError(c, err, "marking notification read")
		return
	}

	respondSuccess(c, "notification marked read")
}

// MarkAllRead flags the whole inbox as read.
func (nc *NotificationsController) MarkAllRead(c *gin.Context) {
	if err := nc.store.MarkAllRead(GetUserID(c)); err != nil {
		respondInternalError(c, err, "marking notifications read")
		return
	}

	respondSuccess(c, "all notifications marked read")
}

// Delete removes one message from the inbox.
func (nc *NotificationsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := nc.store.DeleteNotification(id, GetUserID(c)); err != nil {
		if errors.Is(err, notifications.ErrNotificationNotFound) {
			respondNotFound(c, "notification")
			return
		}
		respondInternalError(c, err, "deleting notification")
		return
	}

	respondSuccess(c, "notification deleted")
}
