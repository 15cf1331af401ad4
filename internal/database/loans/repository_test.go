package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alwznx/pustaka/internal/entities"
)

func setupTestDB(t *testing.T) (*gorm.DB, *Repository, func()) {
	dbPath := "./test_loans_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&entities.User{},
		&entities.Book{},
		&entities.Loan{},
		&entities.Profile{},
	)
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, repo, cleanup
}

func createTestBook(t *testing.T, db *gorm.DB, title string) *entities.Book {
	book := &entities.Book{Title: title, Author: "Test Author", Stock: 3}
	require.NoError(t, db.Create(book).Error)
	return book
}

func createTestLoan(t *testing.T, db *gorm.DB, userID uint, email string, bookID uint, dueAt time.Time, returnedAt *time.Time) *entities.Loan {
	loan := &entities.Loan{
		UserID:     userID,
		UserEmail:  email,
		BookID:     bookID,
		DueAt:      dueAt,
		ReturnedAt: returnedAt,
	}
	require.NoError(t, db.Create(loan).Error)
	return loan
}

func TestRepository_ListActiveForUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Clean Code")
	now := time.Now()
	returned := now.Add(-time.Hour)

	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(48*time.Hour), nil)
	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(24*time.Hour), nil)
	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(-time.Hour), &returned)
	createTestLoan(t, db, 2, "b@example.com", book.ID, now.Add(24*time.Hour), nil)

	loans, err := repo.ListActiveForUser(1)
	require.NoError(t, err)
	require.Len(t, loans, 2)
	// Most urgent first
	assert.True(t, loans[0].DueAt.Before(loans[1].DueAt))
	assert.Equal(t, "Clean Code", loans[0].Book.Title)
}

func TestRepository_ListActive_OrdersByDueDate(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Clean Code")
	now := time.Now()

	late := createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(72*time.Hour), nil)
	urgent := createTestLoan(t, db, 2, "b@example.com", book.ID, now.Add(2*time.Hour), nil)

	loans, err := repo.ListActive()
	require.NoError(t, err)
	require.Len(t, loans, 2)
	assert.Equal(t, urgent.ID, loans[0].ID)
	assert.Equal(t, late.ID, loans[1].ID)
}

func TestRepository_ListOverdue(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Clean Code")
	now := time.Now()
	returned := now.Add(-time.Hour)

	overdue := createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(-24*time.Hour), nil)
	createTestLoan(t, db, 2, "b@example.com", book.ID, now.Add(24*time.Hour), nil)
	createTestLoan(t, db, 3, "c@example.com", book.ID, now.Add(-48*time.Hour), &returned)

	loans, err := repo.ListOverdue(now)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, overdue.ID, loans[0].ID)
}

func TestRepository_CountActiveForUser(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Clean Code")
	now := time.Now()
	returned := now.Add(-time.Hour)

	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(24*time.Hour), nil)
	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(48*time.Hour), nil)
	createTestLoan(t, db, 1, "a@example.com", book.ID, now.Add(-time.Hour), &returned)

	count, err := repo.CountActiveForUser(1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestRepository_TopBorrowers_IncludesArchivedLoans(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	book := createTestBook(t, db, "Clean Code")
	now := time.Now()
	returned := now.Add(-time.Hour)

	// User 1: two loans, one of them returned
	createTestLoan(t, db, 1, "rajin@example.com", book.ID, now.Add(24*time.Hour), nil)
	createTestLoan(t, db, 1, "rajin@example.com", book.ID, now.Add(-time.Hour), &returned)
	// User 2: one loan
	createTestLoan(t, db, 2, "santai@example.com", book.ID, now.Add(24*time.Hour), nil)

	require.NoError(t, db.Create(&entities.Profile{UserID: 1, FullName: "Pembaca Rajin"}).Error)

	ranks, err := repo.TopBorrowers(5)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "rajin@example.com", ranks[0].UserEmail)
	assert.Equal(t, int64(2), ranks[0].TotalBorrowed)
	assert.Equal(t, "Pembaca Rajin", ranks[0].FullName)
	assert.Equal(t, int64(1), ranks[1].TotalBorrowed)
}

func TestRepository_TrendingBooks(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	popular := createTestBook(t, db, "Laskar Pelangi")
	quiet := createTestBook(t, db, "Clean Code")
	now := time.Now()
	returned := now.Add(-time.Hour)

	createTestLoan(t, db, 1, "a@example.com", popular.ID, now.Add(24*time.Hour), nil)
	createTestLoan(t, db, 2, "b@example.com", popular.ID, now.Add(-time.Hour), &returned)
	createTestLoan(t, db, 3, "c@example.com", quiet.ID, now.Add(24*time.Hour), nil)

	ranks, err := repo.TrendingBooks(5)
	require.NoError(t, err)
	require.Len(t, ranks, 2)
	assert.Equal(t, "Laskar Pelangi", ranks[0].Title)
	assert.Equal(t, int64(2), ranks[0].TotalBorrowed)
}

func TestRepository_TrendingBooks_RespectsLimit(t *testing.T) {
	db, repo, cleanup := setupTestDB(t)
	defer cleanup()

	now := time.Now()
	for i := 0; i < 7; i++ {
		book := createTestBook(t, db, "Book")
		createTestLoan(t, db, uint(i+1), "x@example.com", book.ID, now.Add(24*time.Hour), nil)
	}

	ranks, err := repo.TrendingBooks(5)
	require.NoError(t, err)
	assert.Len(t, ranks, 5)
}
