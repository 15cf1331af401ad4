package audit

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	auditrepo "github.com/alwznx/pustaka/internal/database/audit"
	"github.com/alwznx/pustaka/internal/entities"
)

func setupTestService(t *testing.T) (*Service, func()) {
	dbPath := "./test_audit_service_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.AuditEvent{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewService(auditrepo.NewRepository(db)), cleanup
}

// waitForEvents polls until the async writers have landed count events.
func waitForEvents(t *testing.T, service *Service, count int64) []entities.AuditEvent {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events, total, err := service.GetEvents(0, 50, 0)
		require.NoError(t, err)
		if total >= count {
			return events
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d audit events", count)
	return nil
}

func TestService_LogLoan_RecordsFineMetadata(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogLoan(1, "loan_return", 10, 3, 3000, nil)

	events := waitForEvents(t, service, 1)
	event := events[0]
	assert.Equal(t, entities.AuditEventLoan, event.EventType)
	assert.Equal(t, "loan_return", event.Action)
	assert.Equal(t, entities.AuditStatusSuccess, event.Status)
	assert.Contains(t, event.Metadata, `"fine":3000`)
}

func TestService_LogLoan_FailureStatus(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogLoan(1, "loan_borrow", 0, 3, 0, errors.New("book out of stock"))

	events := waitForEvents(t, service, 1)
	assert.Equal(t, entities.AuditStatusFailed, events[0].Status)
	assert.Equal(t, "book out of stock", events[0].ErrorMsg)
}

func TestService_LogCatalog(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogCatalog(1, "book_create", 5, "Laskar Pelangi", nil)

	events := waitForEvents(t, service, 1)
	assert.Equal(t, entities.AuditEventCatalog, events[0].EventType)
	assert.Equal(t, "Book: Laskar Pelangi", events[0].Description)
}

func TestService_LogAuth_FailedLogin(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	service.LogAuth(1, "login", "192.0.2.10", "test-agent", false)

	events := waitForEvents(t, service, 1)
	assert.Equal(t, entities.AuditEventAuth, events[0].EventType)
	assert.Equal(t, entities.AuditStatusFailed, events[0].Status)
	assert.Equal(t, "192.0.2.10", events[0].IPAddress)
}

func TestService_DeleteOldEvents(t *testing.T) {
	service, cleanup := setupTestService(t)
	defer cleanup()

	require.NoError(t, service.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventLoan,
		Action:    "loan_borrow",
		Status:    entities.AuditStatusSuccess,
		CreatedAt: time.Now().Add(-60 * 24 * time.Hour),
	}))
	require.NoError(t, service.Log(&entities.AuditEvent{
		UserID:    1,
		EventType: entities.AuditEventLoan,
		Action:    "loan_return",
		Status:    entities.AuditStatusSuccess,
	}))

	deleted, err := service.DeleteOldEvents(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
