package models

import (
	"time"

	"github.com/wnt/memeforge/internal/tokenomics"
)

// CoinStatus is the lifecycle state of a coin
type CoinStatus string

const (
	CoinStatusGenerated CoinStatus = "Generated"
	CoinStatusDeployed  CoinStatus = "Deployed"
	CoinStatusActive    CoinStatus = "Active"
	CoinStatusPaused    CoinStatus = "Paused"
)

// Valid reports whether s is a known status
func (s CoinStatus) Valid() bool {
	switch s {
	case CoinStatusGenerated, CoinStatusDeployed, CoinStatusActive, CoinStatusPaused:
		return true
	}
	return false
}

// Coin categories shown on the explore view
const (
	CategoryMeme      = "Meme"
	CategoryCommunity = "Community"
	CategoryGaming    = "Gaming"
)

// Coin represents a meme coin, either generated locally or listed by the community
type Coin struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"`
	Name            string     `gorm:"size:50;not null" json:"name"`
	Symbol          string     `gorm:"size:10;index;not null" json:"symbol"`
	Description     string     `gorm:"size:500" json:"description"`
	Creator         string     `gorm:"size:64;index" json:"creator"`
	ContractAddress string     `gorm:"size:64;uniqueIndex" json:"contractAddress"`
	TotalSupply     int64      `json:"totalSupply"`
	Decimals        int        `json:"decimals"`
	Status          CoinStatus `gorm:"size:20;index;default:'Generated'" json:"status"`
	Category        string     `gorm:"size:32;index" json:"category"`

	Tokenomics tokenomics.Allocation `gorm:"embedded;embeddedPrefix:tokenomics_" json:"tokenomics"`

	// Market data
	Price          float64 `json:"price"`
	PriceChange24h float64 `json:"priceChange24h"`
	MarketCap      float64 `json:"marketCap"`
	Volume24h      float64 `json:"volume24h"`
	Holders        int     `json:"holders"`
	Likes          int     `json:"likes"`
	IsLiked        bool    `json:"isLiked"`
	IsVerified     bool    `json:"isVerified"`

	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	DeployedAt *time.Time `json:"deployedAt,omitempty"`
}
