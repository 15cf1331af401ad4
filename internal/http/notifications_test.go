package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwznx/pustaka/internal/database"
	"github.com/alwznx/pustaka/internal/database/notifications"
)

func notificationsTestRouter(db *database.Database, userID uint) (*gin.Engine, *notifications.Repository) {
	repo := notifications.NewRepository(db.DB)
	controller := NewNotificationsController(repo)

	router := gin.New()
	router.Use(authAs(userID, "andi@example.com"))
	router.GET("/api/notifications", controller.List)
	router.GET("/api/notifications/unread-count", controller.UnreadCount)
	router.POST("/api/notifications/:id/read", controller.MarkRead)
	router.POST("/api/notifications/read-all", controller.MarkAllRead)
	router.DELETE("/api/notifications/:id", controller.Delete)
	return router, repo
}

func TestNotificationsController_ListAndCount(t *testing.T) {
	db, cleanup := setupHTTPTestDB(t)
	defer cleanup()

	router, repo := notificationsTestRouter(db, 1)
	require.NoError(t, repo.CreateNotification(1, "Buku hampir jatuh tempo"))
	require.NoError(t, repo.CreateNotification(1, "Buku sudah terlambat"))
	require.NoError(t, repo.CreateNotification(2, "Pesan orang lain"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Total  int   `json:"total"`
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, int64(2), resp.Unread)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	var count struct {
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &count))
	assert.Equal(t, int64(2), count.Unread)
}

func TestNotificationsController_MarkRead(t *testing.T) {
	db, cleanup := setupHTTPTestDB(t)
	defer cleanup()

	router, repo := notificationsTestRouter(db, 1)
	require.NoError(t, repo.CreateNotification(1, "Pesan pertama"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/notifications/1/read", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	unread, err := repo.CountUnread(1)
	require.NoError(t, err)
	assert.Zero(t, unread)

	t.Run("cannot touch another user's message", func(t *testing.T) {
		require.NoError(t, repo.CreateNotification(2, "Milik budi"))

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/notifications/2/read", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNotificationsController_MarkAllRead(t *testing.T) {
	db, cleanup := setupHTTPTestDB(t)
	defer cleanup()

	router, repo := notificationsTestRouter(db, 1)
	require.NoError(t, repo.CreateNotification(1, "Satu"))
	require.NoError(t, repo.CreateNotification(1, "Dua"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/notifications/read-all", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	unread, err := repo.CountUnread(1)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestNotificationsController_Delete(t *testing.T) {
	db, cleanup := setupHTTPTestDB(t)
	defer cleanup()

	router, repo := notificationsTestRouter(db, 1)
	require.NoError(t, repo.CreateNotification(1, "Sementara"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("DELETE", "/api/notifications/1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("DELETE", "/api/notifications/1", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
