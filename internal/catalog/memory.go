package catalog

import (
	"context"
	"slices"
	"sync"

	"github.com/wnt/memeforge/internal/models"
)

// MemorySource is an in-memory implementation of Source
type MemorySource struct {
	mu    sync.RWMutex
	order []string
	coins map[string]models.Coin
}

// NewMemorySource creates a source seeded with the given coins
func NewMemorySource(seed []models.Coin) *MemorySource {
	s := &MemorySource{coins: make(map[string]models.Coin, len(seed))}
	for _, c := range seed {
		s.put(c)
	}
	return s
}

// NewFixtureSource creates a source seeded with the community fixtures
func NewFixtureSource() *MemorySource {
	return NewMemorySource(CommunityFixtures())
}

func (s *MemorySource) put(c models.Coin) {
	if _, exists := s.coins[c.ID]; !exists {
		s.order = append(s.order, c.ID)
	}
	s.coins[c.ID] = c
}

// ListCoins returns all coins in insertion order
func (s *MemorySource) ListCoins(_ context.Context) ([]models.Coin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Coin, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.coins[id])
	}
	return out, nil
}

// GetCoin returns a coin by ID. Returns ErrCoinNotFound if not exists.
func (s *MemorySource) GetCoin(_ context.Context, id string) (models.Coin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.coins[id]
	if !ok {
		return models.Coin{}, ErrCoinNotFound
	}
	return c, nil
}

// ListByCreator returns the coins created by creator in insertion order
func (s *MemorySource) ListByCreator(ctx context.Context, creator string) ([]models.Coin, error) {
	all, err := s.ListCoins(ctx)
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(all, func(c models.Coin) bool { return c.Creator != creator }), nil
}

// SaveCoin inserts or replaces a coin
func (s *MemorySource) SaveCoin(_ context.Context, coin models.Coin) error {
	if coin.ID == "" {
		return ErrInvalidCoin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(coin)
	return nil
}

// ToggleLike flips the liked flag on a coin. Returns ErrCoinNotFound if not exists.
func (s *MemorySource) ToggleLike(_ context.Context, id string) (models.Coin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.coins[id]
	if !ok {
		return models.Coin{}, ErrCoinNotFound
	}
	ToggleLike(&c)
	s.coins[id] = c
	return c, nil
}
