package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/database/books"
	"github.com/alwznx/pustaka/internal/entities"
)

// FavoritesStore defines the wishlist operations the controller needs.
type FavoritesStore interface {
	SetFavorite(userID, bookID uint, present bool) error
	ListFavorites(userID uint) ([]entities.Favorite, error)
	IsFavorite(userID, bookID uint) (bool, error)
}

// FavoritesController serves the per-user wishlist.
type FavoritesController struct {
	store FavoritesStore
	books BooksStore
}

func NewFavoritesController(store FavoritesStore, booksStore BooksStore) *FavoritesController {
	return &FavoritesController{
		store: store,
		books: booksStore,
	}
}

// List returns the user's wishlist with book details.
func (fc *FavoritesController) List(c *gin.Context) {
	favorites, err := fc.store.ListFavorites(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "listing favorites")
		return
	}

	c.JSON(200, gin.H{
		"favorites": favorites,
		"total":     len(favorites),
	})
}

// Add marks a book as a favorite. Adding twice is a no-op.
func (fc *FavoritesController) Add(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookID")
	if !ok {
		return
	}

	if _, err := fc.books.GetBookByID(bookID); err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	if err := fc.store.SetFavorite(GetUserID(c), bookID, true); err != nil {
		respondInternalError(c, err, "adding favorite")
		return
	}

	respondSuccess(c, "favorite added")
}

// Remove unmarks a favorite. Removing a non-favorite is a no-op.
func (fc *FavoritesController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookID")
	if !ok {
		return
	}

	if err := fc.store.SetFavorite(GetUserID(c), bookID, false); err != nil {
		respondInternalError(c, err, "removing favorite")
		return
	}

	respondSuccess(c, "favorite removed")
}
