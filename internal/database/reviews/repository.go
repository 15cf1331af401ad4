// Package reviews provides database operations for book reviews.
//
// Reviews are append-only: there is no edit or delete surface.
package reviews

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

// Repository handles all review database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reviews repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateReview appends a review for a book.
func (r *Repository) CreateReview(bookID uint, userEmail string, rating int, comment string) (*entities.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, ErrInvalidRating
	}

	review := &entities.Review{
		BookID:    bookID,
		UserEmail: userEmail,
		Rating:    rating,
		Comment:   comment,
	}
	if err := r.db.Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// ListReviewsForBook returns a book's reviews, newest first.
func (r *Repository) ListReviewsForBook(bookID uint) ([]entities.Review, error) {
	var reviews []entities.Review
	err := r.db.Where("book_id = ?", bookID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

// AverageRating returns the mean rating for a book, 0 when unreviewed.
func (r *Repository) AverageRating(bookID uint) (float64, error) {
	var avg *float64
	err := r.db.Model(&entities.Review{}).
		Where("book_id = ?", bookID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
