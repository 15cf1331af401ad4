package http

import (
	"github.com/gin-gonic/gin"

	"github.com/alwznx/pustaka/internal/database/loans"
)

// CommunityStore provides the leaderboard aggregates over the loan archive.
type CommunityStore interface {
	TopBorrowers(limit int) ([]loans.BorrowerRank, error)
	TrendingBooks(limit int) ([]loans.BookRank, error)
}

// CommunityController serves the leaderboards. Both rankings count the full
// loan archive, returned loans included.
type CommunityController struct {
	store CommunityStore
	size  int
}

func NewCommunityController(store CommunityStore, size int) *CommunityController {
	if size <= 0 {
		size = 10
	}
	return &CommunityController{
		store: store,
		size:  size,
	}
}

// TopBorrowers ranks readers by their all-time loan count.
func (cc *CommunityController) TopBorrowers(c *gin.Context) {
	ranks, err := cc.store.TopBorrowers(cc.size)
	if err != nil {
		respondInternalError(c, err, "ranking borrowers")
		return
	}

	c.JSON(200, gin.H{"borrowers": ranks})
}

// TrendingBooks ranks books by how often they have ever been borrowed.
func (cc *CommunityController) TrendingBooks(c *gin.Context) {
	ranks, err := cc.store.TrendingBooks(cc.size)
	if err != nil {
		respondInternalError(c, err, "ranking books")
		return
	}

	c.JSON(200, gin.H{"books": ranks})
}
