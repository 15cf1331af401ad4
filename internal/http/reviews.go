package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/database/books"
	"github.com/alwznx/pustaka/internal/database/reviews"
	"github.com/alwznx/pustaka/internal/entities"
)

// ReviewsStore defines the review operations the controller needs.
type ReviewsStore interface {
	CreateReview(bookID uint, userEmail string, rating int, comment string) (*entities.Review, error)
	ListReviewsForBook(bookID uint) ([]entities.Review, error)
	AverageRating(bookID uint) (float64, error)
}

// ReviewsController serves book reviews. Reviews are append-only.
type ReviewsController struct {
	store ReviewsStore
	books BooksStore
}

func NewReviewsController(store ReviewsStore, booksStore BooksStore) *ReviewsController {
	return &ReviewsController{
		store: store,
		books: booksStore,
	}
}

// List returns a book's reviews and its average rating.
func (rc *ReviewsController) List(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if _, err := rc.books.GetBookByID(bookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	list, err := rc.store.ListReviewsForBook(bookID)
	if err != nil {
		respondInternalError(c, err, "listing reviews")
		return
	}

	avg, err := rc.store.AverageRating(bookID)
	if err != nil {
		respondInternalError(c, err, "averaging rating")
		return
	}

	c.JSON(200, gin.H{
		"reviews":        list,
		"total":          len(list),
		"average_rating": avg,
	})
}

type reviewRequest struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

// Create appends a review for a book.
func (rc *ReviewsController) Create(c *gin.Context) {
	bookID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "rating is required")
		return
	}

	if _, err := rc.books.GetBookByID(bookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	review, err := rc.store.CreateReview(bookID, GetUserEmail(c), req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, reviews.ErrInvalidRating) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "creating review")
		return
	}

	respondCreated(c, review)
}
