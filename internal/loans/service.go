// Package loans implements the borrowing rules: the active-loan quota, stock
// accounting, due dates and late fines. Every mutation runs in a single
// database transaction so stock and loan rows never drift apart.
package loans

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

// Policy holds the tunable borrowing rules.
type Policy struct {
	// MaxActive is the number of loans a user may hold at once.
	MaxActive int
	// Period is how long a borrower keeps a book before it is due.
	Period time.Duration
	// DailyFine is charged in IDR per day (or part of a day) past the due date.
	DailyFine int64
}

// Service coordinates loan mutations against the database.
type Service struct {
	db       *gorm.DB
	policy   Policy
	notifier Notifier

	// now is swapped out in tests.
	now func() time.Time
}

// NewService creates a loan service. notifier may be nil, in which case
// events are dropped.
func NewService(db *gorm.DB, policy Policy, notifier Notifier) *Service {
	return &Service{
		db:       db,
		policy:   policy,
		notifier: notifier,
		now:      time.Now,
	}
}

// Borrow lends one copy of the book to the user. It fails with
// ErrQuotaExceeded when the user already holds the maximum number of active
// loans, and with ErrOutOfStock when no copies are left. The stock decrement
// and the loan row are committed atomically.
func (s *Service) Borrow(userID uint, userEmail string, bookID uint) (*entities.Loan, error) {
	now := s.now()

	var loan entities.Loan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return fmt.Errorf("loading book %d: %w", bookID, err)
		}

		var active int64
		err := tx.Model(&entities.Loan{}).
			Where("user_id = ? AND returned_at IS NULL", userID).
			Count(&active).Error
		if err != nil {
			return fmt.Errorf("counting active loans: %w", err)
		}
		if active >= int64(s.policy.MaxActive) {
			return ErrQuotaExceeded
		}

		// Guarded decrement: the WHERE clause keeps stock from going
		// negative under concurrent borrows.
		res := tx.Model(&entities.Book{}).
			Where("id = ? AND stock > 0", bookID).
			UpdateColumn("stock", gorm.Expr("stock - 1"))
		if res.Error != nil {
			return fmt.Errorf("decrementing stock: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrOutOfStock
		}

		// CreatedAt set explicitly so the due date is always exactly one
		// loan period after the recorded borrow time.
		loan = entities.Loan{
			UserID:    userID,
			UserEmail: userEmail,
			BookID:    bookID,
			CreatedAt: now,
			DueAt:     now.Add(s.policy.Period),
		}
		if err := tx.Create(&loan).Error; err != nil {
			return fmt.Errorf("creating loan: %w", err)
		}
		loan.Book = book
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(Event{
		Kind:      EventBorrowed,
		LoanID:    loan.ID,
		UserID:    loan.UserID,
		UserEmail: loan.UserEmail,
		BookID:    loan.BookID,
		BookTitle: loan.Book.Title,
		DueAt:     loan.DueAt,
		At:        now,
	})
	return &loan, nil
}

// Return archives the user's loan and puts the copy back in stock. A fine is
// fixed on the loan at this moment when it is past due. Returning a loan that
// belongs to another user fails with ErrPermissionDenied; returning one that
// was already returned fails with ErrLoanNotFound.
func (s *Service) Return(loanID, userID uint) (*entities.Loan, error) {
	return s.closeLoan(loanID, userID, true, EventReturned)
}

// ForceReturn is the admin path: it archives any active loan regardless of
// who borrowed it.
func (s *Service) ForceReturn(loanID uint) (*entities.Loan, error) {
	return s.closeLoan(loanID, 0, false, EventReclaimed)
}

func (s *Service) closeLoan(loanID, userID uint, enforceOwner bool, kind EventKind) (*entities.Loan, error) {
	now := s.now()

	var loan entities.Loan
	var fine int64
	var daysLate int

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Book").First(&loan, loanID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return fmt.Errorf("loading loan %d: %w", loanID, err)
		}
		if loan.ReturnedAt != nil {
			return ErrLoanNotFound
		}
		if enforceOwner && loan.UserID != userID {
			return ErrPermissionDenied
		}

		fine, daysLate = FineAt(loan.DueAt, now, s.policy.DailyFine)

		// Guard against double returns racing each other: only the first
		// archive wins, so stock is incremented exactly once.
		res := tx.Model(&entities.Loan{}).
			Where("id = ? AND returned_at IS NULL", loanID).
			Updates(map[string]interface{}{
				"returned_at": now,
				"fine":        fine,
			})
		if res.Error != nil {
			return fmt.Errorf("archiving loan: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrLoanNotFound
		}

		err := tx.Model(&entities.Book{}).
			Where("id = ?", loan.BookID).
			UpdateColumn("stock", gorm.Expr("stock + 1")).Error
		if err != nil {
			return fmt.Errorf("restoring stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	loan.ReturnedAt = &now
	loan.Fine = fine

	s.emit(Event{
		Kind:      kind,
		LoanID:    loan.ID,
		UserID:    loan.UserID,
		UserEmail: loan.UserEmail,
		BookID:    loan.BookID,
		BookTitle: loan.Book.Title,
		DueAt:     loan.DueAt,
		Fine:      fine,
		DaysLate:  daysLate,
		At:        now,
	})
	return &loan, nil
}

// FinePreview computes what the fine would be if the loan were returned right
// now. Nothing is stored.
func (s *Service) FinePreview(loan *entities.Loan) (fine int64, daysLate int) {
	if loan.ReturnedAt != nil {
		return loan.Fine, 0
	}
	return FineAt(loan.DueAt, s.now(), s.policy.DailyFine)
}

// FineAt charges dailyFine for every started day past the due date. A loan
// returned on time costs nothing.
func FineAt(dueAt, now time.Time, dailyFine int64) (fine int64, daysLate int) {
	if !now.After(dueAt) {
		return 0, 0
	}
	late := now.Sub(dueAt)
	daysLate = int((late + 24*time.Hour - 1) / (24 * time.Hour))
	return int64(daysLate) * dailyFine, daysLate
}

func (s *Service) emit(event Event) {
	if s.notifier == nil {
		return
	}
	s.notifier.LoanEvent(event)
}
