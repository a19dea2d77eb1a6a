package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/metrics"
	"github.com/wnt/memeforge/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CoinStore is a catalog.Source backed by the coins table
type CoinStore struct {
	db *gorm.DB
}

// NewCoinStore wraps an open database
func NewCoinStore(db *gorm.DB) *CoinStore {
	return &CoinStore{db: db}
}

// ListCoins returns every coin, oldest first
func (s *CoinStore) ListCoins(ctx context.Context) ([]models.Coin, error) {
	var coins []models.Coin
	err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&coins).Error
	record("select", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins: %w", err)
	}
	return coins, nil
}

// GetCoin returns a single coin by ID
func (s *CoinStore) GetCoin(ctx context.Context, id string) (models.Coin, error) {
	var coin models.Coin
	err := s.db.WithContext(ctx).First(&coin, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record("select", nil)
		return models.Coin{}, catalog.ErrCoinNotFound
	}
	record("select", err)
	if err != nil {
		return models.Coin{}, fmt.Errorf("failed to get coin %s: %w", id, err)
	}
	return coin, nil
}

// ListByCreator returns the coins created by an account, oldest first
func (s *CoinStore) ListByCreator(ctx context.Context, creator string) ([]models.Coin, error) {
	var coins []models.Coin
	err := s.db.WithContext(ctx).
		Where("creator = ?", creator).
		Order("created_at ASC, id ASC").
		Find(&coins).Error
	record("select", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list coins for %s: %w", creator, err)
	}
	return coins, nil
}

// SaveCoin inserts the coin or overwrites the row with the same ID
func (s *CoinStore) SaveCoin(ctx context.Context, coin models.Coin) error {
	if coin.ID == "" {
		return catalog.ErrInvalidCoin
	}
	if !coin.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", catalog.ErrInvalidCoin, coin.Status)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&coin).Error
	record("upsert", err)
	if err != nil {
		return fmt.Errorf("failed to save coin %s: %w", coin.ID, err)
	}
	return nil
}

// ToggleLike flips the liked flag and adjusts the like count in one transaction
func (s *CoinStore) ToggleLike(ctx context.Context, id string) (models.Coin, error) {
	var coin models.Coin
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&coin, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return catalog.ErrCoinNotFound
			}
			return err
		}

		catalog.ToggleLike(&coin)
		return tx.Model(&coin).Updates(map[string]interface{}{
			"likes":    coin.Likes,
			"is_liked": coin.IsLiked,
		}).Error
	})
	if errors.Is(err, catalog.ErrCoinNotFound) {
		record("update", nil)
		return models.Coin{}, err
	}
	record("update", err)
	if err != nil {
		return models.Coin{}, fmt.Errorf("failed to toggle like on %s: %w", id, err)
	}
	return coin, nil
}

func record(operation string, err error) {
	if err != nil {
		metrics.RecordDatabaseOperation(operation, "failed")
		return
	}
	metrics.RecordDatabaseOperation(operation, "success")
}
