package loans

import "errors"

var (
	// ErrBookNotFound is returned when the requested book does not exist.
	ErrBookNotFound = errors.New("book not found")

	// ErrOutOfStock is returned when every copy of the book is already lent out.
	ErrOutOfStock = errors.New("book out of stock")

	// ErrQuotaExceeded is returned when the borrower already holds the maximum
	// number of active loans.
	ErrQuotaExceeded = errors.New("active loan quota exceeded")

	// ErrLoanNotFound is returned when the loan does not exist or has already
	// been returned.
	ErrLoanNotFound = errors.New("loan not found")

	// ErrPermissionDenied is returned when a user tries to return a loan that
	// belongs to someone else.
	ErrPermissionDenied = errors.New("loan belongs to another user")
)
