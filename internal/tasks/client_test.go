package tasks

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	// Verify tasks database was created
	tasksDBPath := filepath.Join(tmpDir, "test-tasks.db")
	_, err = os.Stat(tasksDBPath)
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

type fakeWriter struct {
	created map[uint][]string
}

func (w *fakeWriter) CreateNotification(userID uint, message string) error {
	if w.created == nil {
		w.created = make(map[uint][]string)
	}
	w.created[userID] = append(w.created[userID], message)
	return nil
}

func TestDeliverNotificationEndToEnd(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(dbPath, cfg)
	require.NoError(t, err)
	defer client.Close()

	delivered := make(chan DeliverNotificationTask, 1)
	queue := backlite.NewQueue(func(ctx context.Context, task DeliverNotificationTask) error {
		delivered <- task
		return nil
	})
	client.Register(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(DeliverNotificationTask{UserID: 7, Message: "Buku jatuh tempo besok"}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case task := <-delivered:
		assert.Equal(t, uint(7), task.UserID)
		assert.Equal(t, "Buku jatuh tempo besok", task.Message)
	case <-time.After(5 * time.Second):
		t.Fatal("task was not executed within timeout")
	}
}

func TestDeliverNotificationProcessor(t *testing.T) {
	writer := &fakeWriter{}
	processor := DeliverNotificationProcessor(writer)

	err := processor(context.Background(), DeliverNotificationTask{UserID: 3, Message: "Halo"})
	require.NoError(t, err)
	require.Len(t, writer.created[3], 1)
	assert.Equal(t, "Halo", writer.created[3][0])

	// Empty messages are dropped, not retried.
	err = processor(context.Background(), DeliverNotificationTask{UserID: 3})
	require.NoError(t, err)
	assert.Len(t, writer.created[3], 1)
}

func TestDeliverNotificationTaskConfig(t *testing.T) {
	cfg := DeliverNotificationTask{}.Config()

	assert.Equal(t, "deliver_notification", cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Second, cfg.Backoff)
	assert.NotNil(t, cfg.Retention)
}

func TestOverdueReminderTaskConfig(t *testing.T) {
	cfg := OverdueReminderTask{}.Config()

	assert.Equal(t, "overdue_reminder", cfg.Name)
	assert.Equal(t, 2, cfg.MaxAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Minute, cfg.RetryDelay)
	assert.Equal(t, 5*time.Minute, cfg.TaskTimeout)
	assert.Equal(t, 15*time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, time.Hour, cfg.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.RetentionDuration)
}
