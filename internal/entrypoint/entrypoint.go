// Package entrypoint wires the application together and runs the HTTP server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	auditsvc "github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/auth"
	"github.com/alwznx/pustaka/internal/config"
	"github.com/alwznx/pustaka/internal/covers"
	"github.com/alwznx/pustaka/internal/database"
	auditstore "github.com/alwznx/pustaka/internal/database/audit"
	"github.com/alwznx/pustaka/internal/database/books"
	"github.com/alwznx/pustaka/internal/database/favorites"
	loanstore "github.com/alwznx/pustaka/internal/database/loans"
	"github.com/alwznx/pustaka/internal/database/notifications"
	"github.com/alwznx/pustaka/internal/database/profiles"
	"github.com/alwznx/pustaka/internal/database/reviews"
	"github.com/alwznx/pustaka/internal/entities"
	http_controllers "github.com/alwznx/pustaka/internal/http"
	"github.com/alwznx/pustaka/internal/loans"
	"github.com/alwznx/pustaka/internal/notify"
	"github.com/alwznx/pustaka/internal/scheduler"
	"github.com/alwznx/pustaka/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the task queue)
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Pustaka v%s", version)

	// Initialize database
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	// Repositories
	booksRepo := books.NewRepository(db.DB)
	loansRepo := loanstore.NewRepository(db.DB)
	favoritesRepo := favorites.NewRepository(db.DB)
	reviewsRepo := reviews.NewRepository(db.DB)
	notificationsRepo := notifications.NewRepository(db.DB)
	profilesRepo := profiles.NewRepository(db.DB)

	auditService := auditsvc.NewService(auditstore.NewRepository(db.DB))

	// Cover image cache lives next to the database
	coverCacheDir := filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize cover cache: %v", err)
		coverCache = nil
	} else {
		log.Printf("Cover cache initialized at %s", coverCacheDir)
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		// The reminder sweep renders the same overdue text the notifier uses.
		overdueMessage := func(loan entities.Loan) string {
			return notify.MessageFor(loans.Event{
				Kind:      loans.EventOverdue,
				BookTitle: loan.Book.Title,
				DueAt:     loan.DueAt,
			})
		}

		taskClient.Register(
			tasks.NewDeliverNotificationQueue(notificationsRepo),
			tasks.NewOverdueReminderQueue(loansRepo, notificationsRepo, overdueMessage),
			tasks.NewCleanupNotificationsQueue(notificationsRepo),
			tasks.NewCleanupAuditEventsQueue(auditService),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)
	}

	// Loan events become inbox notifications: through the queue when the task
	// runner is up, synchronously otherwise.
	var notifier loans.Notifier
	if taskClient != nil {
		notifier = notify.NewQueuedNotifier(taskClient)
	} else {
		notifier = notify.NewDirectNotifier(notificationsRepo)
	}

	loanService := loans.NewService(db.DB, loans.Policy{
		MaxActive: cfg.Loans.MaxActive,
		Period:    cfg.Loans.Period,
		DailyFine: cfg.Loans.DailyFine,
	}, notifier)

	// Overdue reminder scheduler
	var reminderScheduler *scheduler.ReminderScheduler
	if taskClient != nil && cfg.Reminder.Enabled {
		reminderScheduler = scheduler.NewReminderScheduler(taskClient, scheduler.Config{
			Enabled:                   true,
			Schedule:                  cfg.Reminder.Schedule,
			NotificationRetentionDays: 90,
			AuditRetentionDays:        cfg.Audit.RetentionDays,
		})
		if err := reminderScheduler.Start(context.Background()); err != nil {
			log.Printf("WARNING: Failed to start reminder scheduler: %v", err)
		}
	}

	// The user store is always needed (password changes, dashboard counts);
	// sessions, CSRF and the middleware only when local auth is on.
	authService := auth.NewService(db.DB, cfg.Auth)

	var authMiddleware *auth.Middleware
	var sessionManager *auth.SessionManager
	var csrfSecret []byte

	if cfg.Auth.Mode == config.AuthModeLocal {
		log.Printf("Authentication mode: local")

		// Get underlying SQL DB for session store
		sqlDB, err := db.DB.DB()
		if err != nil {
			log.Fatalf("Failed to get SQL DB for sessions: %v", err)
		}

		sessionManager, err = auth.NewSessionManager(sqlDB, cfg.Auth)
		if err != nil {
			log.Fatalf("Failed to initialize session manager: %v", err)
		}

		authMiddleware = auth.NewMiddleware(authService, sessionManager, cfg.Auth)

		// Generate or use configured CSRF secret
		if cfg.Auth.SessionSecret != "" {
			csrfSecret, err = hex.DecodeString(cfg.Auth.SessionSecret)
			if err != nil {
				// Not hex, use as raw bytes
				csrfSecret = []byte(cfg.Auth.SessionSecret)
			}
		} else {
			secret, err := auth.GenerateSessionSecret()
			if err != nil {
				log.Fatalf("Failed to generate CSRF secret: %v", err)
			}
			csrfSecret, _ = hex.DecodeString(secret)
			log.Printf("Generated session secret (set AUTH_SESSION_SECRET to persist)")
		}

		hasUsers, _ := authService.HasUsers()
		if !hasUsers {
			log.Printf("No users yet. The first registered account becomes the administrator.")
		}
	} else {
		log.Printf("Authentication mode: none (no authentication required)")
	}

	routerCfg := http_controllers.RouterConfig{
		Database:           db,
		AuthService:        authService,
		AuthMiddleware:     authMiddleware,
		SessionManager:     sessionManager,
		AuthConfig:         cfg.Auth,
		CSRFSecret:         csrfSecret,
		SecureCookies:      cfg.Auth.SecureCookies,
		CoverCache:         coverCache,
		LoanManager:        loanService,
		LoansStore:         loansRepo,
		BooksStore:         booksRepo,
		FavoritesStore:     favoritesRepo,
		ReviewsStore:       reviewsRepo,
		NotificationsStore: notificationsRepo,
		ProfilesStore:      profilesRepo,
		CommunityStore:     loansRepo,
		LeaderboardSize:    cfg.Loans.Leaderboard,
		StatsBooksStore:    booksRepo,
		StatsLoansStore:    loansRepo,
		AuditService:       auditService,
		Version:            version,
	}

	router := http_controllers.NewRouter(routerCfg)

	// Shutdown callback for graceful cleanup
	onShutdown := func(ctx context.Context) {
		if reminderScheduler != nil {
			reminderScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
