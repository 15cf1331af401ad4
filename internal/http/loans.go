package http

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/entities"
	"github.com/alwznx/pustaka/internal/loans"
	"github.com/alwznx/pustaka/internal/reports"
)

// LoanManager runs the loan mutations. Implemented by loans.Service.
type LoanManager interface {
	Borrow(userID uint, userEmail string, bookID uint) (*entities.Loan, error)
	Return(loanID, userID uint) (*entities.Loan, error)
	ForceReturn(loanID uint) (*entities.Loan, error)
	FinePreview(loan *entities.Loan) (fine int64, daysLate int)
}

// LoansStore provides the read side: listings for users and admins.
type LoansStore interface {
	ListActiveForUser(userID uint) ([]entities.Loan, error)
	ListActive() ([]entities.Loan, error)
	GetLoanByID(id uint) (*entities.Loan, error)
}

// LoansController serves borrowing, returning and the admin loan dashboard.
type LoansController struct {
	manager      LoanManager
	store        LoansStore
	auditService *audit.Service
}

func NewLoansController(manager LoanManager, store LoansStore, auditService *audit.Service) *LoansController {
	return &LoansController{
		manager:      manager,
		store:        store,
		auditService: auditService,
	}
}

type borrowRequest struct {
	BookID uint `json:"book_id" binding:"required"`
}

// Borrow lends a copy of the requested book to the authenticated user.
func (lc *LoansController) Borrow(c *gin.Context) {
	var req borrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "book_id is required")
		return
	}

	userID := GetUserID(c)
	loan, err := lc.manager.Borrow(userID, GetUserEmail(c), req.BookID)
	if err != nil {
		lc.logLoan(userID, "loan_borrow", 0, req.BookID, 0, err)
		switch {
		case errors.Is(err, loans.ErrBookNotFound):
			respondNotFound(c, "book")
		case errors.Is(err, loans.ErrOutOfStock):
			respondConflict(c, "book is out of stock")
		case errors.Is(err, loans.ErrQuotaExceeded):
			respondConflict(c, "active loan limit reached")
		default:
			respondInternalError(c, err, "borrowing book")
		}
		return
	}

	lc.logLoan(userID, "loan_borrow", loan.ID, loan.BookID, 0, nil)
	respondCreated(c, loan)
}

// loanView decorates a loan row with clock-derived state for the client.
type loanView struct {
	entities.Loan
	Overdue     bool  `json:"overdue"`
	CurrentFine int64 `json:"current_fine"`
	DaysLate    int   `json:"days_late"`
}

func (lc *LoansController) view(loan entities.Loan, now time.Time) loanView {
	fine, daysLate := lc.manager.FinePreview(&loan)
	return loanView{
		Loan:        loan,
		Overdue:     loan.Overdue(now),
		CurrentFine: fine,
		DaysLate:    daysLate,
	}
}

// Mine lists the authenticated user's active loans with overdue state and the
// fine they would owe if they returned right now.
func (lc *LoansController) Mine(c *gin.Context) {
	userID := GetUserID(c)

	active, err := lc.store.ListActiveForUser(userID)
	if err != nil {
		respondInternalError(c, err, "listing loans")
		return
	}

	now := time.Now()
	views := make([]loanView, 0, len(active))
	for _, loan := range active {
		views = append(views, lc.view(loan, now))
	}

	c.JSON(200, gin.H{
		"loans": views,
		"total": len(views),
	})
}

// Fine previews the fine on one of the user's loans without returning it.
func (lc *LoansController) Fine(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	loan, err := lc.store.GetLoanByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "getting loan")
		return
	}
	if loan.UserID != GetUserID(c) {
		respondForbidden(c, "not your loan")
		return
	}

	fine, daysLate := lc.manager.FinePreview(loan)
	c.JSON(200, gin.H{
		"loan_id":   loan.ID,
		"due_at":    loan.DueAt,
		"fine":      fine,
		"days_late": daysLate,
	})
}

// Return gives the book back. Only the borrower may return their own loan.
func (lc *LoansController) Return(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	userID := GetUserID(c)
	loan, err := lc.manager.Return(id, userID)
	if err != nil {
		lc.logLoan(userID, "loan_return", id, 0, 0, err)
		switch {
		case errors.Is(err, loans.ErrLoanNotFound):
			respondNotFound(c, "loan")
		case errors.Is(err, loans.ErrPermissionDenied):
			respondForbidden(c, "not your loan")
		default:
			respondInternalError(c, err, "returning loan")
		}
		return
	}

	lc.logLoan(userID, "loan_return", loan.ID, loan.BookID, loan.Fine, nil)
	c.JSON(200, loan)
}

// AdminList shows every active loan with overdue state. Admin only.
func (lc *LoansController) AdminList(c *gin.Context) {
	active, err := lc.store.ListActive()
	if err != nil {
		respondInternalError(c, err, "listing loans")
		return
	}

	now := time.Now()
	views := make([]loanView, 0, len(active))
	overdue := 0
	for _, loan := range active {
		v := lc.view(loan, now)
		if v.Overdue {
			overdue++
		}
		views = append(views, v)
	}

	c.JSON(200, gin.H{
		"loans":   views,
		"total":   len(views),
		"overdue": overdue,
	})
}

// AdminReturn reclaims a loan on the borrower's behalf. Admin only.
func (lc *LoansController) AdminReturn(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	adminID := GetUserID(c)
	loan, err := lc.manager.ForceReturn(id)
	if err != nil {
		lc.logLoan(adminID, "loan_reclaim", id, 0, 0, err)
		if errors.Is(err, loans.ErrLoanNotFound) {
			respondNotFound(c, "loan")
			return
		}
		respondInternalError(c, err, "reclaiming loan")
		return
	}

	lc.logLoan(adminID, "loan_reclaim", loan.ID, loan.BookID, loan.Fine, nil)
	c.JSON(200, loan)
}

// Export streams the active loans as a CSV download. Admin only.
func (lc *LoansController) Export(c *gin.Context) {
	active, err := lc.store.ListActive()
	if err != nil {
		respondInternalError(c, err, "listing loans for export")
		return
	}

	now := time.Now()
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+reports.Filename(now)+`"`)

	if err := reports.WriteLoanReport(c.Writer, active, now); err != nil {
		// Headers are already out; all we can do is log.
		respondInternalError(c, err, "writing loan report")
	}
}

func (lc *LoansController) logLoan(userID uint, action string, loanID, bookID uint, fine int64, err error) {
	if lc.auditService == nil {
		return
	}
	lc.auditService.LogLoan(userID, action, loanID, bookID, fine, err)
}
