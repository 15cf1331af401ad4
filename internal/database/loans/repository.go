// Package loans provides read access to loan rows and the community
// aggregates built on top of the loan archive.
//
// Loan mutations (borrow/return) live in internal/loans, which runs them
// inside transactions together with the stock adjustment.
package loans

import (
	"time"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

// Repository handles loan queries.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActiveForUser returns the user's unreturned loans, most urgent first.
func (r *Repository) ListActiveForUser(userID uint) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("user_id = ? AND returned_at IS NULL", userID).
		Order("due_at ASC").
		Find(&loans).Error
	return loans, err
}

// ListActive returns every unreturned loan, most urgent first. Used by the
// admin dashboard and the CSV export.
func (r *Repository) ListActive() ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("returned_at IS NULL").
		Order("due_at ASC").
		Find(&loans).Error
	return loans, err
}

// ListOverdue returns unreturned loans whose due date has passed.
func (r *Repository) ListOverdue(now time.Time) ([]entities.Loan, error) {
	var loans []entities.Loan
	err := r.db.Preload("Book").
		Where("returned_at IS NULL AND due_at < ?", now).
		Order("due_at ASC").
		Find(&loans).Error
	return loans, err
}

// CountActiveForUser counts the user's unreturned loans (quota check input).
func (r *Repository) CountActiveForUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("user_id = ? AND returned_at IS NULL", userID).
		Count(&count).Error
	return count, err
}

// GetLoanByID retrieves a loan (active or archived) with its book.
func (r *Repository) GetLoanByID(id uint) (*entities.Loan, error) {
	var loan entities.Loan
	err := r.db.Preload("Book").First(&loan, id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// BorrowerRank is one leaderboard entry: a reader and their all-time loan count.
type BorrowerRank struct {
	UserID        uint   `json:"user_id"`
	UserEmail     string `json:"user_email"`
	FullName      string `json:"full_name,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	TotalBorrowed int64  `json:"total_borrowed"`
}

// BookRank is one trending entry: a book and its all-time loan count.
type BookRank struct {
	BookID        uint   `json:"book_id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	CoverURL      string `json:"cover_url,omitempty"`
	TotalBorrowed int64  `json:"total_borrowed"`
}

// TopBorrowers ranks users by how many loans they have ever taken, archived
// loans included. Profile data is joined in when present.
func (r *Repository) TopBorrowers(limit int) ([]BorrowerRank, error) {
	var ranks []BorrowerRank
	err := r.db.Model(&entities.Loan{}).
		Select("loans.user_id, loans.user_email, profiles.full_name, profiles.avatar_url, COUNT(loans.id) AS total_borrowed").
		Joins("LEFT JOIN profiles ON profiles.user_id = loans.user_id").
		Group("loans.user_id, loans.user_email, profiles.full_name, profiles.avatar_url").
		Order("total_borrowed DESC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}

// TrendingBooks ranks books by how often they have ever been borrowed.
func (r *Repository) TrendingBooks(limit int) ([]BookRank, error) {
	var ranks []BookRank
	err := r.db.Model(&entities.Loan{}).
		Select("loans.book_id, books.title, books.author, books.cover_url, COUNT(loans.id) AS total_borrowed").
		Joins("JOIN books ON books.id = loans.book_id").
		Group("loans.book_id, books.title, books.author, books.cover_url").
		Order("total_borrowed DESC").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}
