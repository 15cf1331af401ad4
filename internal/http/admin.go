package http

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/entities"
)

// StatsBooksStore counts catalog entries for the dashboard.
type StatsBooksStore interface {
	CountBooks() (int64, error)
}

// StatsLoansStore provides the loan counts for the dashboard.
type StatsLoansStore interface {
	ListActive() ([]entities.Loan, error)
	ListOverdue(now time.Time) ([]entities.Loan, error)
}

// UserCounter reports how many accounts exist. Implemented by auth.Service.
type UserCounter interface {
	GetUserCount() (int64, error)
}

// AdminController serves the dashboard stats and the audit trail. All routes
// sit behind the admin role check.
type AdminController struct {
	books        StatsBooksStore
	loans        StatsLoansStore
	users        UserCounter
	auditService *audit.Service
}

func NewAdminController(books StatsBooksStore, loansStore StatsLoansStore, users UserCounter, auditService *audit.Service) *AdminController {
	return &AdminController{
		books:        books,
		loans:        loansStore,
		users:        users,
		auditService: auditService,
	}
}

// Stats returns the dashboard headline numbers.
func (ac *AdminController) Stats(c *gin.Context) {
	totalBooks, err := ac.books.CountBooks()
	if err != nil {
		respondInternalError(c, err, "counting books")
		return
	}

	active, err := ac.loans.ListActive()
	if err != nil {
		respondInternalError(c, err, "counting active loans")
		return
	}

	overdue, err := ac.loans.ListOverdue(time.Now())
	if err != nil {
		respondInternalError(c, err, "counting overdue loans")
		return
	}

	totalUsers, err := ac.users.GetUserCount()
	if err != nil {
		respondInternalError(c, err, "counting users")
		return
	}

	c.JSON(200, gin.H{
		"total_books":   totalBooks,
		"active_loans":  len(active),
		"overdue_loans": len(overdue),
		"total_users":   totalUsers,
	})
}

// AuditEvents lists the audit trail, newest first. Supports ?type=,
// ?user_id=, ?limit= and ?offset=.
func (ac *AdminController) AuditEvents(c *gin.Context) {
	if ac.auditService == nil {
		respondNotFound(c, "audit trail")
		return
	}

	limit, offset := parsePagination(c, 50, 500)

	var userID uint
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid user_id")
			return
		}
		userID = uint(id)
	}

	var (
		events []entities.AuditEvent
		total  int64
		err    error
	)
	if eventType := c.Query("type"); eventType != "" {
		events, total, err = ac.auditService.GetEventsByType(entities.AuditEventType(eventType), userID, limit, offset)
	} else {
		events, total, err = ac.auditService.GetEvents(userID, limit, offset)
	}
	if err != nil {
		respondInternalError(c, err, "listing audit events")
		return
	}

	c.JSON(200, gin.H{
		"events": events,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}
