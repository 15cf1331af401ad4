// Package books provides database operations for the catalog.
//
// This package implements the BookStore interface defined in internal/http/books.go.
package books

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alwznx/pustaka/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Filter narrows catalog listings. Zero values mean "no restriction".
type Filter struct {
	Keyword  string // case-insensitive substring over title/author
	Category entities.BookCategory
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListBooks returns catalog entries newest-first (id descending).
func (r *Repository) ListBooks(filter Filter) ([]entities.Book, error) {
	var books []entities.Book
	query := r.db.Order("id DESC")

	if filter.Keyword != "" {
		pattern := "%" + filter.Keyword + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?) OR LOWER(author) LIKE LOWER(?)", pattern, pattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	err := query.Find(&books).Error
	return books, err
}

// GetBookByID retrieves a single book.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// CreateBook inserts a new catalog entry.
func (r *Repository) CreateBook(book *entities.Book) error {
	return r.db.Create(book).Error
}

// UpdateBook saves title/author/description/category/stock/cover changes.
func (r *Repository) UpdateBook(book *entities.Book) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
		"title":       book.Title,
		"author":      book.Author,
		"description": book.Description,
		"category":    book.Category,
		"stock":       book.Stock,
		"cover_url":   book.CoverURL,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// DeleteBook soft-deletes a catalog entry.
func (r *Repository) DeleteBook(id uint) error {
	result := r.db.Delete(&entities.Book{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookNotFound
	}
	return nil
}

// CountBooks returns the catalog size.
func (r *Repository) CountBooks() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}
