package http

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/audit"
	"github.com/alwznx/pustaka/internal/covers"
	"github.com/alwznx/pustaka/internal/database/books"
	"github.com/alwznx/pustaka/internal/entities"
)

// BooksStore defines the catalog operations the controller needs.
type BooksStore interface {
	ListBooks(filter books.Filter) ([]entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	CreateBook(book *entities.Book) error
	UpdateBook(book *entities.Book) error
	DeleteBook(id uint) error
}

// BooksController serves the catalog: public browsing plus the admin
// management endpoints.
type BooksController struct {
	store        BooksStore
	auditService *audit.Service
	coverCache   *covers.Cache
}

func NewBooksController(store BooksStore, auditService *audit.Service, coverCache *covers.Cache) *BooksController {
	return &BooksController{
		store:        store,
		auditService: auditService,
		coverCache:   coverCache,
	}
}

// List returns catalog entries, optionally filtered by ?q= (title/author
// substring) and ?category=.
func (bc *BooksController) List(c *gin.Context) {
	filter := books.Filter{
		Keyword:  c.Query("q"),
		Category: entities.BookCategory(c.Query("category")),
	}
	if filter.Category != "" && !entities.ValidCategory(filter.Category) {
		respondBadRequest(c, "unknown category")
		return
	}

	results, err := bc.store.ListBooks(filter)
	if err != nil {
		respondInternalError(c, err, "listing books")
		return
	}

	c.JSON(200, gin.H{
		"books": results,
		"total": len(results),
	})
}

// Get returns a single catalog entry.
func (bc *BooksController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	c.JSON(200, book)
}

// Categories lists the fixed catalog taxonomy.
func (bc *BooksController) Categories(c *gin.Context) {
	c.JSON(200, gin.H{"categories": entities.AllCategories})
}

type bookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Stock       int    `json:"stock"`
	CoverURL    string `json:"cover_url"`
}

func (r *bookRequest) toBook() (*entities.Book, error) {
	category := entities.BookCategory(r.Category)
	if category == "" {
		category = entities.CategoryUmum
	}
	if !entities.ValidCategory(category) {
		return nil, errors.New("unknown category")
	}
	if r.Stock < 0 {
		return nil, errors.New("stock must not be negative")
	}

	return &entities.Book{
		Title:       r.Title,
		Author:      r.Author,
		Description: r.Description,
		Category:    category,
		Stock:       r.Stock,
		CoverURL:    r.CoverURL,
	}, nil
}

// Create adds a book to the catalog. Admin only.
func (bc *BooksController) Create(c *gin.Context) {
	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book, err := req.toBook()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := bc.store.CreateBook(book); err != nil {
		bc.logCatalog(c, "book_create", 0, req.Title, err)
		respondInternalError(c, err, "creating book")
		return
	}

	bc.logCatalog(c, "book_create", book.ID, book.Title, nil)
	respondCreated(c, book)
}

// Update replaces a book's editable fields. Admin only.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title and author are required")
		return
	}

	book, err := req.toBook()
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	book.ID = id

	if err := bc.store.UpdateBook(book); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		bc.logCatalog(c, "book_update", id, req.Title, err)
		respondInternalError(c, err, "updating book")
		return
	}

	updated, err := bc.store.GetBookByID(id)
	if err != nil {
		respondInternalError(c, err, "reloading book")
		return
	}

	bc.invalidateCover(id)
	bc.logCatalog(c, "book_update", id, updated.Title, nil)
	c.JSON(200, updated)
}

// Delete removes a book from the catalog. Admin only. Loan history keeps its
// archived rows; only the catalog entry disappears.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetBookByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	if err := bc.store.DeleteBook(id); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		bc.logCatalog(c, "book_delete", id, book.Title, err)
		respondInternalError(c, err, "deleting book")
		return
	}

	bc.invalidateCover(id)
	bc.logCatalog(c, "book_delete", id, book.Title, nil)
	respondSuccess(c, "book deleted")
}

func (bc *BooksController) invalidateCover(bookID uint) {
	if bc.coverCache == nil {
		return
	}
	if err := bc.coverCache.InvalidateCover(bookID); err != nil {
		log.Printf("Failed to invalidate cover cache for book %d: %v", bookID, err)
	}
}

func (bc *BooksController) logCatalog(c *gin.Context, action string, bookID uint, title string, err error) {
	if bc.auditService == nil {
		return
	}
	bc.auditService.LogCatalog(GetUserID(c), action, bookID, title, err)
}
