package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/alwznx/pustaka/internal/config"
	"github.com/alwznx/pustaka/internal/entities"
)

func setupMiddlewareTest(t *testing.T) (*Service, *Middleware, func()) {
	gin.SetMode(gin.TestMode)

	dbPath := "./test_auth_mw_" + t.Name() + ".db"

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

	service := NewService(db, testAuthConfig())
	middleware := NewMiddleware(service, nil, testAuthConfig())

	return service, middleware, cleanup
}

func testRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/api/books", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c), "email": GetUserEmail(c)})
	})
	router.GET("/api/admin/loans", m.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func TestMiddleware_PublicPathNeedsNoAuth(t *testing.T) {
	_, middleware, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	testRouter(middleware).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_ProtectedPathRejectsAnonymous(t *testing.T) {
	_, middleware, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	testRouter(middleware).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "authentication required")
}

func TestMiddleware_BearerTokenAuthenticates(t *testing.T) {
	service, middleware, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	user, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)
	token, err := service.GenerateToken(user.ID)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	testRouter(middleware).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pembaca@example.com")
}

func TestMiddleware_InvalidBearerRejected(t *testing.T) {
	_, middleware, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req.Header.Set("Authorization", "Bearer bukan-token")
	testRouter(middleware).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RequireAdmin(t *testing.T) {
	service, middleware, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	// First registration is the admin, second the member.
	admin, err := service.Register("admin", "admin@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)
	member, err := service.Register("pembaca", "pembaca@example.com", "kata-sandi-rahasia")
	require.NoError(t, err)

	adminToken, err := service.GenerateToken(admin.ID)
	require.NoError(t, err)
	memberToken, err := service.GenerateToken(member.ID)
	require.NoError(t, err)

	router := testRouter(middleware)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/loans", nil)
	req.Header.Set("Authorization", "Bearer "+memberToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/loans", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMiddleware_AuthModeNoneInjectsDefaultUser(t *testing.T) {
	service, _, cleanup := setupMiddlewareTest(t)
	defer cleanup()

	cfg := testAuthConfig()
	cfg.Mode = config.AuthModeNone
	middleware := NewMiddleware(service, nil, cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	testRouter(middleware).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":0`)
}
