// Package catalog holds the coin data sources and the search, filter and
// sort logic behind the dashboard and explore views.
package catalog

import (
	"context"
	"errors"

	"github.com/wnt/memeforge/internal/models"
)

var (
	// ErrCoinNotFound is returned when no coin has the requested ID
	ErrCoinNotFound = errors.New("coin not found")

	// ErrInvalidCoin is returned when a coin cannot be stored
	ErrInvalidCoin = errors.New("invalid coin")

	// ErrInvalidQuery is returned for malformed search parameters
	ErrInvalidQuery = errors.New("invalid query")
)

// Source provides coin records to the views. The fixture-backed MemorySource
// and the database-backed store are interchangeable.
type Source interface {
	// ListCoins returns every coin.
	ListCoins(ctx context.Context) ([]models.Coin, error)

	// GetCoin returns a single coin. Returns ErrCoinNotFound if it does not exist.
	GetCoin(ctx context.Context, id string) (models.Coin, error)

	// ListByCreator returns the coins created by the given account address.
	ListByCreator(ctx context.Context, creator string) ([]models.Coin, error)

	// SaveCoin inserts or replaces a coin.
	SaveCoin(ctx context.Context, coin models.Coin) error

	// ToggleLike flips the liked flag and adjusts the like count.
	ToggleLike(ctx context.Context, id string) (models.Coin, error)
}

// ToggleLike flips the liked flag on c and moves the like count with it
func ToggleLike(c *models.Coin) {
	if c.IsLiked {
		c.Likes--
	} else {
		c.Likes++
	}
	c.IsLiked = !c.IsLiked
}
