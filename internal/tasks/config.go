package tasks

import "time"

// Config tunes the background queue that delivers loan notifications and
// runs the retention sweeps.
type Config struct {
	// Workers is how many tasks run concurrently.
	Workers int

	// MaxRetries bounds the attempts for a failing task.
	MaxRetries int

	// RetryDelay is the backoff between attempts.
	RetryDelay time.Duration

	// TaskTimeout cancels a task that runs longer than this.
	TaskTimeout time.Duration

	// ReleaseAfter returns a claimed-but-stuck task to the queue.
	ReleaseAfter time.Duration

	// CleanupInterval is how often finished tasks are swept.
	CleanupInterval time.Duration

	// RetentionDuration is how long finished tasks stay queryable.
	RetentionDuration time.Duration
}

// DefaultConfig covers the typical single-instance deployment: the queue
// only carries short notification writes and daily sweeps, so two workers
// are plenty.
func DefaultConfig() Config {
	return Config{
		Workers:           2,
		MaxRetries:        3,
		RetryDelay:        1 * time.Minute,
		TaskTimeout:       5 * time.Minute,
		ReleaseAfter:      15 * time.Minute,
		CleanupInterval:   1 * time.Hour,
		RetentionDuration: 24 * time.Hour,
	}
}
