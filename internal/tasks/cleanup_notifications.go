package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"
)

// NotificationCleaner deletes read notifications past the retention window.
type NotificationCleaner interface {
	DeleteReadOlderThan(retention time.Duration) (int64, error)
}

// CleanupNotificationsTask removes read notifications older than the
// configured retention period. Unread ones are never touched.
type CleanupNotificationsTask struct {
	RetentionDays int `json:"retention_days"`
}

// Config returns the queue configuration for notification cleanup tasks.
func (t CleanupNotificationsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_notifications",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupNotificationsProcessor creates a processor function for CleanupNotificationsTask.
func CleanupNotificationsProcessor(cleaner NotificationCleaner) backlite.QueueProcessor[CleanupNotificationsTask] {
	return func(ctx context.Context, task CleanupNotificationsTask) error {
		if cleaner == nil {
			return fmt.Errorf("notification cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteReadOlderThan(retention)
		if err != nil {
			return fmt.Errorf("cleanup notifications: %w", err)
		}

		log.Printf("[TASK] Cleaned up %d read notifications older than %d days", deleted, retentionDays)
		return nil
	}
}

// NewCleanupNotificationsQueue creates a backlite queue for notification cleanup tasks.
func NewCleanupNotificationsQueue(cleaner NotificationCleaner) backlite.Queue {
	return backlite.NewQueue(CleanupNotificationsProcessor(cleaner))
}
