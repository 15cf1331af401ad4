package tasks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/alwznx/pustaka/internal/entities"
)

// OverdueLoanLister returns active loans whose due date has passed.
type OverdueLoanLister interface {
	ListOverdue(now time.Time) ([]entities.Loan, error)
}

// ReminderFormatter renders the reminder text for one overdue loan.
type ReminderFormatter func(loan entities.Loan) string

// OverdueReminderTask sweeps all overdue loans and leaves a reminder
// notification for each borrower. The scheduler enqueues one per day.
type OverdueReminderTask struct {
	RequestedAt time.Time `json:"requested_at"`
}

// Config returns the queue configuration for overdue reminder sweeps.
func (t OverdueReminderTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "overdue_reminder",
		MaxAttempts: 2,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// OverdueReminderProcessor creates a processor function for OverdueReminderTask.
func OverdueReminderProcessor(lister OverdueLoanLister, writer NotificationWriter, format ReminderFormatter) backlite.QueueProcessor[OverdueReminderTask] {
	return func(ctx context.Context, task OverdueReminderTask) error {
		if lister == nil || writer == nil || format == nil {
			return fmt.Errorf("overdue reminder dependencies not configured")
		}

		overdue, err := lister.ListOverdue(time.Now())
		if err != nil {
			return fmt.Errorf("listing overdue loans: %w", err)
		}

		var failed int
		for _, loan := range overdue {
			if err := writer.CreateNotification(loan.UserID, format(loan)); err != nil {
				log.Printf("[TASK] Failed to remind user %d about loan %d: %v", loan.UserID, loan.ID, err)
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("overdue reminder sweep: %d of %d reminders failed", failed, len(overdue))
		}

		log.Printf("[TASK] Overdue reminder sweep delivered %d reminders", len(overdue))
		return nil
	}
}

// NewOverdueReminderQueue creates a backlite queue for overdue reminder sweeps.
func NewOverdueReminderQueue(lister OverdueLoanLister, writer NotificationWriter, format ReminderFormatter) backlite.Queue {
	return backlite.NewQueue(OverdueReminderProcessor(lister, writer, format))
}
