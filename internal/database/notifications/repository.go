// Package notifications provides database operations for the per-user inbox.
//
// Rows are created by the loan notifier (and other flows); only the owning
// user may mark them read or delete them.
package notifications

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

var ErrNotificationNotFound = errors.New("notification not found")

// Repository handles all inbox database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new notifications repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateNotification appends an unread message to a user's inbox.
func (r *Repository) CreateNotification(userID uint, message string) error {
	return r.db.Create(&entities.Notification{
		UserID:  userID,
		Message: message,
	}).Error
}

// ListNotifications returns the user's inbox, newest first.
func (r *Repository) ListNotifications(userID uint) ([]entities.Notification, error) {
	var notifications []entities.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

// CountUnread returns how many unread messages the user has.
func (r *Repository) CountUnread(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flags one of the user's messages as read. The userID filter keeps
// users from touching each other's inboxes.
func (r *Repository) MarkRead(id, userID uint) error {
	result := r.db.Model(&entities.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// MarkAllRead flags every message in the user's inbox as read.
func (r *Repository) MarkAllRead(userID uint) error {
	return r.db.Model(&entities.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
}

// DeleteNotification removes one of the user's messages.
func (r *Repository) DeleteNotification(id, userID uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).
		Delete(&entities.Notification{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteReadOlderThan removes read messages older than the retention window.
// Returns the number of rows removed. Used by the periodic cleanup task.
func (r *Repository) DeleteReadOlderThan(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := r.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&entities.Notification{})
	return result.RowsAffected, result.Error
}
