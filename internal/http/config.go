package http

import (
	"github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/auth"
	"github.com/alwznx/pustaka/internal/config"
	"github.com/alwznx/pustaka/internal/covers"
	"github.com/alwznx/pustaka/internal/database"
)

// RouterConfig contains all dependencies and configuration needed to create
// the HTTP router. This replaces a long parameter list in NewRouter.
type RouterConfig struct {
	// Core dependencies
	Database *database.Database

	// Authentication
	AuthService    *auth.Service
	AuthMiddleware *auth.Middleware
	SessionManager *auth.SessionManager
	AuthConfig     config.Auth
	CSRFSecret     []byte
	SecureCookies  bool

	// Lending
	LoanManager LoanManager
	LoansStore  LoansStore

	// Cover image cache (optional)
	CoverCache *covers.Cache

	// Catalog and community
	BooksStore         BooksStore
	FavoritesStore     FavoritesStore
	ReviewsStore       ReviewsStore
	NotificationsStore NotificationsStore
	ProfilesStore      ProfilesStore
	CommunityStore     CommunityStore
	LeaderboardSize    int

	// Admin dashboard
	StatsBooksStore StatsBooksStore
	StatsLoansStore StatsLoansStore

	// Audit trail (optional)
	AuditService *audit.Service

	// Application info
	Version string
}
