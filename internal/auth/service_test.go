package auth

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alwznx/pustaka/internal/config"
	"github.com/alwznx/pustaka/internal/entities"
)

func testAuthConfig() config.Auth {
	return config.Auth{
		Mode:             config.AuthModeLocal,
		SessionLifetime:  time.Hour,
		TokenExpiry:      time.Hour,
		BcryptCost:       bcrypt.MinCost,
		MaxLoginAttempts: 3,
		LockoutDuration:  time.Minute,
	}
}

func setupTestService(t *testing.T) (*gorm.DB, *Service, func()) {
	dbPath := "./test_auth_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.User{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return db, NewService(db, testAuthConfig()), cleanup
}

func TestService_Register_FirstUserBecomesAdmin(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	first, err := service.Register("admin", "admin@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleAdmin, first.Role)

	second, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)
	assert.Equal(t, entities.UserRoleMember, second.Role)
}

func TestService_Register_DuplicateRejected(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	_, err = service.Register("pembaca", "lain@example.com", "kata-sandi-rahasia")
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = service.Register("lain", "pembaca@example.com", "kata-sandi-rahasia")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestService_CreateUser_Validation(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		want     error
	}{
		{"missing username", "", "a@example.com", "kata-sandi-rahasia", ErrUsernameRequired},
		{"missing email", "pembaca", "", "kata-sandi-rahasia", ErrEmailRequired},
		{"missing password", "pembaca", "a@example.com", "", ErrPasswordRequired},
		{"bad username", "x", "a@example.com", "kata-sandi-rahasia", ErrUsernameInvalid},
		{"bad email", "pembaca", "bukan-email", "kata-sandi-rahasia", ErrEmailInvalid},
		{"short password", "pembaca", "a@example.com", "pendek", ErrPasswordTooShort},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateUser(tc.username, tc.email, tc.password, entities.UserRoleMember)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestService_Authenticate_ByUsernameOrEmail(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	byUsername, err := service.Authenticate("pembaca", "kata-sandi-rahasia")
	require.NoError(t, err)
	assert.Equal(t, "pembaca@example.com", byUsername.Email)
	assert.NotNil(t, byUsername.LastLoginAt)

	byEmail, err := service.Authenticate("pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, byEmail.ID)

	_, err = service.Authenticate("pembaca", "salah-semua-ini")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	_, err = service.Authenticate("tidak-ada", "kata-sandi-rahasia")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Authenticate_LockoutAfterFailures(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	_, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = service.Authenticate("pembaca", "salah-semua-ini")
		assert.ErrorIs(t, err, ErrInvalidPassword)
	}

	// Even the correct password is rejected while locked.
	_, err = service.Authenticate("pembaca", "kata-sandi-rahasia")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestService_TokenLifecycle(t *testing.T) {
	db, service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	token, err := service.GenerateToken(user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Only the hash lands in the database.
	var stored entities.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.NotEqual(t, token, stored.TokenHash)
	assert.Equal(t, HashToken(token), stored.TokenHash)

	validated, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)

	_, err = service.ValidateToken("bukan-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	require.NoError(t, service.RevokeToken(user.ID))
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	db, service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	token, err := service.GenerateToken(user.ID)
	require.NoError(t, err)

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, db.Model(&entities.User{}).Where("id = ?", user.ID).
		Update("token_created_at", stale).Error)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestService_ChangePassword(t *testing.T) {
	_, service, cleanup := setupTestService(t)
	defer cleanup()

	user, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	err = service.ChangePassword(user.ID, "salah-semua-ini", "sandi-baru-sekali")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	require.NoError(t, service.ChangePassword(user.ID, "kata-sandi-rahasia", "sandi-baru-sekali"))

	_, err = service.Authenticate("pembaca", "sandi-baru-sekali")
	assert.NoError(t, err)
}
