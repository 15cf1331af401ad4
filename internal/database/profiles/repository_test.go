package profiles

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
	dbPath := "./test_profiles_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Profile{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db), cleanup
}

func TestRepository_GetProfile_MissingReturnsNil(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	profile, err := repo.GetProfile(1)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestRepository_UpsertProfile_CreatesThenUpdates(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	created, err := repo.UpsertProfile(1, "Pembaca Rajin", "https://cdn.example.com/a.png")
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	updated, err := repo.UpsertProfile(1, "Nama Baru", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Nama Baru", updated.FullName)
	assert.Empty(t, updated.AvatarURL)

	profile, err := repo.GetProfile(1)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Nama Baru", profile.FullName)
}
