// Package favorites provides database operations for the per-user wishlist.
//
// This package implements the FavoritesStore interface defined in internal/http/favorites.go.
package favorites

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

var ErrFavoriteNotFound = errors.New("favorite not found")

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SetFavorite adds or removes the (user, book) pair. Adding an already
// favorited book and removing a non-favorite are both no-ops.
func (r *Repository) SetFavorite(userID, bookID uint, present bool) error {
	if present {
		var existing entities.Favorite
		err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return r.db.Create(&entities.Favorite{UserID: userID, BookID: bookID}).Error
	}
	return r.db.Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&entities.Favorite{}).Error
}

// ListFavorites returns the user's wishlist with book details, newest first.
func (r *Repository) ListFavorites(userID uint) ([]entities.Favorite, error) {
	var favorites []entities.Favorite
	err := r.db.Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}
