package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/covers"
	"github.com/alwznx/pustaka/internal/database/books"
)

// CoversController serves catalog cover images from the local cache.
type CoversController struct {
	cache *covers.Cache
	books BooksStore
}

func NewCoversController(cache *covers.Cache, booksStore BooksStore) *CoversController {
	return &CoversController{
		cache: cache,
		books: booksStore,
	}
}

// Get streams the book's cover image, fetching it into the cache on first
// access. Books without a cover URL get a 404.
func (cc *CoversController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := cc.books.GetBookByID(id)
	if err != nil {
		if errors.Is(err, books.ErrBookNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "getting book")
		return
	}

	if book.CoverURL == "" {
		respondNotFound(c, "cover")
		return
	}

	path, err := cc.cache.GetCover(book.ID, book.CoverURL)
	if err != nil || path == "" {
		// Upstream fetch failed; the client can fall back to the raw URL.
		c.Redirect(302, book.CoverURL)
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.File(path)
}
