package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
)

// NotificationWriter persists a notification for a user.
type NotificationWriter interface {
	CreateNotification(userID uint, message string) error
}

// DeliverNotificationTask writes one pre-rendered notification message.
type DeliverNotificationTask struct {
	UserID  uint   `json:"user_id"`
	Message string `json:"message"`
}

// Config returns the queue configuration for notification delivery.
func (t DeliverNotificationTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "deliver_notification",
		MaxAttempts: 3,
		Backoff:     30 * time.Second,
		Timeout:     30 * time.Second,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// DeliverNotificationProcessor creates a processor function for DeliverNotificationTask.
func DeliverNotificationProcessor(writer NotificationWriter) backlite.QueueProcessor[DeliverNotificationTask] {
	return func(ctx context.Context, task DeliverNotificationTask) error {
		if writer == nil {
			return fmt.Errorf("notification writer not configured")
		}
		if task.Message == "" {
			return nil
		}
		if err := writer.CreateNotification(task.UserID, task.Message); err != nil {
			return fmt.Errorf("deliver notification to user %d: %w", task.UserID, err)
		}
		return nil
	}
}

// NewDeliverNotificationQueue creates a backlite queue for notification delivery.
func NewDeliverNotificationQueue(writer NotificationWriter) backlite.Queue {
	return backlite.NewQueue(DeliverNotificationProcessor(writer))
}
