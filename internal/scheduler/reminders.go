// Package scheduler runs the daily maintenance cycle on a cron schedule:
// the overdue reminder sweep plus notification and audit retention cleanup.
// The scheduler only enqueues tasks; the queue workers do the actual work.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/alwznx/pustaka/internal/tasks"
)

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Queue is the enqueue side of the task client.
type Queue interface {
	Add(items ...backlite.Task) *backlite.TaskAddOp
}

// Config controls the maintenance schedule.
type Config struct {
	// Enabled turns the whole cycle off when false.
	Enabled bool
	// Schedule is a five-field cron expression, e.g. "0 8 * * *".
	Schedule string
	// NotificationRetentionDays bounds how long read notifications live.
	NotificationRetentionDays int
	// AuditRetentionDays bounds how long audit events live.
	AuditRetentionDays int
}

// ReminderScheduler enqueues the daily maintenance tasks.
type ReminderScheduler struct {
	queue  Queue
	config Config

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

// NewReminderScheduler creates a new scheduler instance.
func NewReminderScheduler(queue Queue, config Config) *ReminderScheduler {
	return &ReminderScheduler{
		queue:  queue,
		config: config,
		cron:   cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if reminders are enabled.
func (s *ReminderScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.config.Enabled {
		log.Printf("Reminder scheduler: disabled")
		return nil
	}

	if _, err := cronParser.Parse(s.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.config.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.config.Schedule, func() {
		s.runCycle()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule maintenance cycle: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	log.Printf("Reminder scheduler: started with schedule '%s'", s.config.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler.
func (s *ReminderScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Reminder scheduler: stopped")
}

// RunNow triggers an immediate maintenance cycle.
func (s *ReminderScheduler) RunNow() {
	go s.runCycle()
}

// IsRunning returns whether the scheduler is active.
func (s *ReminderScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next cycle will start.
func (s *ReminderScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *ReminderScheduler) runCycle() {
	now := time.Now()
	log.Printf("Reminder scheduler: enqueueing maintenance cycle")

	_, err := s.queue.Add(tasks.OverdueReminderTask{RequestedAt: now}).Save()
	if err != nil {
		log.Printf("Reminder scheduler: failed to enqueue overdue sweep: %v", err)
	}

	_, err = s.queue.Add(tasks.CleanupNotificationsTask{RetentionDays: s.config.NotificationRetentionDays}).Save()
	if err != nil {
		log.Printf("Reminder scheduler: failed to enqueue notification cleanup: %v", err)
	}

	_, err = s.queue.Add(tasks.CleanupAuditEventsTask{RetentionDays: s.config.AuditRetentionDays}).Save()
	if err != nil {
		log.Printf("Reminder scheduler: failed to enqueue audit cleanup: %v", err)
	}
}
