package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/wnt/memeforge/internal/models"
)

// CommunityFixtures returns the sample community listings shown on the explore view
func CommunityFixtures() []models.Coin {
	return []models.Coin{
		{
			ID:              "1",
			Name:            "DogeMoon",
			Symbol:          "DOGE",
			Description:     "The ultimate moon mission token for the Doge community",
			Creator:         "0x1234...5678",
			ContractAddress: "0x1234567890abcdef1234567890abcdef12345678",
			TotalSupply:     1000000,
			Decimals:        8,
			Status:          models.CoinStatusActive,
			Category:        models.CategoryMeme,
			Price:           0.000123,
			PriceChange24h:  15.6,
			MarketCap:       123000,
			Volume24h:       45600,
			Holders:         1250,
			Likes:           89,
			IsVerified:      true,
			CreatedAt:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:              "2",
			Name:            "CatCoin",
			Symbol:          "CAT",
			Description:     "Purr-fect community token for cat lovers worldwide",
			Creator:         "0xabcd...ef12",
			ContractAddress: "0xabcdef1234567890abcdef1234567890abcdef12",
			TotalSupply:     500000,
			Decimals:        8,
			Status:          models.CoinStatusDeployed,
			Category:        models.CategoryCommunity,
			Price:           0.000456,
			PriceChange24h:  -8.2,
			MarketCap:       228000,
			Volume24h:       78900,
			Holders:         890,
			Likes:           156,
			IsLiked:         true,
			IsVerified:      true,
			CreatedAt:       time.Date(2024, 1, 10, 14, 20, 0, 0, time.UTC),
		},
		{
			ID:              "3",
			Name:            "PepeToken",
			Symbol:          "PEPE",
			Description:     "The legendary Pepe meme token",
			Creator:         "0x9876...5432",
			ContractAddress: "0x9876543210fedcba9876543210fedcba98765432",
			TotalSupply:     1000000000,
			Decimals:        8,
			Status:          models.CoinStatusActive,
			Category:        models.CategoryMeme,
			Price:           0.000789,
			PriceChange24h:  45.2,
			MarketCap:       789000,
			Volume24h:       234000,
			Holders:         3200,
			Likes:           342,
			IsVerified:      true,
			CreatedAt:       time.Date(2024, 1, 8, 9, 15, 0, 0, time.UTC),
		},
		{
			ID:              "4",
			Name:            "SpaceToken",
			Symbol:          "SPACE",
			Description:     "Exploring the final frontier of DeFi",
			Creator:         "0xfedc...ba98",
			ContractAddress: "0xfedcba9876543210fedcba9876543210fedcba98",
			TotalSupply:     100000000,
			Decimals:        9,
			Status:          models.CoinStatusActive,
			Category:        models.CategoryGaming,
			Price:           0.001234,
			PriceChange24h:  23.1,
			MarketCap:       456000,
			Volume24h:       123000,
			Holders:         2100,
			Likes:           78,
			CreatedAt:       time.Date(2024, 1, 12, 16, 45, 0, 0, time.UTC),
		},
	}
}

// DashboardFixtures returns the two sample coins a creator sees on the
// dashboard. Creator is left empty; SeedDashboard fills it in.
func DashboardFixtures() []models.Coin {
	return []models.Coin{
		{
			ID:              "dashboard-1",
			Name:            "DogeMoon",
			Symbol:          "DOGE",
			Description:     "The ultimate moon mission token",
			TotalSupply:     1000000,
			Status:          models.CoinStatusActive,
			ContractAddress: "0x1234567890abcdef1234567890abcdef12345678",
			Price:           0.000123,
			MarketCap:       123000,
			Volume24h:       45600,
			Holders:         1250,
			CreatedAt:       time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			ID:              "dashboard-2",
			Name:            "CatCoin",
			Symbol:          "CAT",
			Description:     "Purr-fect community token",
			TotalSupply:     500000,
			Status:          models.CoinStatusDeployed,
			ContractAddress: "0xabcdef1234567890abcdef1234567890abcdef12",
			Price:           0.000456,
			MarketCap:       228000,
			Volume24h:       78900,
			Holders:         890,
			CreatedAt:       time.Date(2024, 1, 10, 14, 20, 0, 0, time.UTC),
		},
	}
}

// SeedDashboard stores the dashboard fixtures as coins created by creator
func SeedDashboard(ctx context.Context, src Source, creator string) error {
	for _, c := range DashboardFixtures() {
		c.Creator = creator
		c.Category = models.CategoryMeme
		c.Decimals = 8
		if err := src.SaveCoin(ctx, c); err != nil {
			return fmt.Errorf("failed to seed coin %s: %w", c.ID, err)
		}
	}
	return nil
}
