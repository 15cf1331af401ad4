package http

import (
	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/auth"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies, improving testability
// and reducing parameter count.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(RequestIDMiddleware())
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies, cfg.AuthService))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's
	// request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.Handler())
	} else {
		// No auth - inject default user ID
		router.Use(func(c *gin.Context) {
			c.Set(auth.ContextKeyUserID, auth.DefaultUserID)
			c.Set(auth.ContextKeyAuthType, auth.AuthTypeNone)
			c.Next()
		})
	}

	// Health endpoints
	healthController := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", healthController.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// CSRF token for browser clients
	if len(cfg.CSRFSecret) > 0 {
		router.GET("/api/csrf", auth.CSRFTokenHandler)
	}

	// Auth endpoints
	if cfg.AuthService != nil && cfg.AuthService.IsAuthEnabled() {
		authController := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.AuthConfig, cfg.AuditService)
		router.POST("/api/auth/register", authController.Register)
		router.POST("/api/auth/login", authController.Login)
		router.POST("/api/auth/logout", authController.Logout)
		router.GET("/api/auth/me", authController.Me)

		tokenController := auth.NewAPITokenController(cfg.AuthService)
		router.POST("/api/auth/token", tokenController.GenerateToken)
		router.DELETE("/api/auth/token", tokenController.RevokeToken)
	}

	// Catalog browsing (any authenticated user; public when auth is disabled)
	booksController := NewBooksController(cfg.BooksStore, cfg.AuditService, cfg.CoverCache)
	router.GET("/api/books", booksController.List)
	router.GET("/api/books/:id", booksController.Get)
	router.GET("/api/categories", booksController.Categories)

	if cfg.CoverCache != nil {
		coversController := NewCoversController(cfg.CoverCache, cfg.BooksStore)
		router.GET("/api/books/:id/cover", coversController.Get)
	}

	// Reviews hang off the book resource
	reviewsController := NewReviewsController(cfg.ReviewsStore, cfg.BooksStore)
	router.GET("/api/books/:id/reviews", reviewsController.List)
	router.POST("/api/books/:id/reviews", reviewsController.Create)

	// Lending
	loansController := NewLoansController(cfg.LoanManager, cfg.LoansStore, cfg.AuditService)
	router.POST("/api/loans", loansController.Borrow)
	router.GET("/api/loans/mine", loansController.Mine)
	router.GET("/api/loans/:id/fine", loansController.Fine)
	router.POST("/api/loans/:id/return", loansController.Return)

	// Favorites
	favoritesController := NewFavoritesController(cfg.FavoritesStore, cfg.BooksStore)
	router.GET("/api/favorites", favoritesController.List)
	router.PUT("/api/favorites/:bookID", favoritesController.Add)
	router.DELETE("/api/favorites/:bookID", favoritesController.Remove)

	// Notifications
	notificationsController := NewNotificationsController(cfg.NotificationsStore)
	router.GET("/api/notifications", notificationsController.List)
	router.GET("/api/notifications/unread-count", notificationsController.UnreadCount)
	router.POST("/api/notifications/:id/read", notificationsController.MarkRead)
	router.POST("/api/notifications/read-all", notificationsController.MarkAllRead)
	router.DELETE("/api/notifications/:id", notificationsController.Delete)

	// Community leaderboards
	communityController := NewCommunityController(cfg.CommunityStore, cfg.LeaderboardSize)
	router.GET("/api/community/top-borrowers", communityController.TopBorrowers)
	router.GET("/api/community/trending-books", communityController.TrendingBooks)

	// Profile
	profileController := NewProfileController(cfg.ProfilesStore, cfg.AuthService, cfg.AuditService)
	router.GET("/api/profile", profileController.Get)
	router.PUT("/api/profile", profileController.Update)
	router.POST("/api/profile/password", profileController.ChangePassword)

	// Admin surface: role enforced server-side, never trusted from the client
	admin := router.Group("/api/admin")
	if cfg.AuthMiddleware != nil {
		admin.Use(cfg.AuthMiddleware.RequireAdmin())
	}
	{
		admin.POST("/books", booksController.Create)
		admin.PUT("/books/:id", booksController.Update)
		admin.DELETE("/books/:id", booksController.Delete)

		admin.GET("/loans", loansController.AdminList)
		admin.POST("/loans/:id/return", loansController.AdminReturn)
		admin.GET("/loans/export", loansController.Export)

		adminController := NewAdminController(cfg.StatsBooksStore, cfg.StatsLoansStore, cfg.AuthService, cfg.AuditService)
		admin.GET("/stats", adminController.Stats)
		admin.GET("/audit", adminController.AuditEvents)
	}

	return router
}
