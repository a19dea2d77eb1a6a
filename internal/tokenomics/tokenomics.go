// Package tokenomics splits a coin's total supply across the fixed allocation buckets.
package tokenomics

import (
	"errors"
	"fmt"

	"github.com/wnt/memeforge/internal/config"
)

// ErrNonPositiveSupply is returned when the total supply is zero or negative
var ErrNonPositiveSupply = errors.New("total supply must be positive")

// ErrInvalidDistribution is returned when percentages are negative or do not sum to 100
var ErrInvalidDistribution = errors.New("invalid tokenomics distribution")

// Distribution holds whole-percent shares per bucket
type Distribution struct {
	LiquidityPool    int64 `json:"liquidityPool"`
	CommunityRewards int64 `json:"communityRewards"`
	TeamTokens       int64 `json:"teamTokens"`
	Marketing        int64 `json:"marketing"`
	Development      int64 `json:"development"`
}

// Default is the 40/25/15/10/10 distribution every generated coin uses unless configured otherwise
var Default = Distribution{
	LiquidityPool:    40,
	CommunityRewards: 25,
	TeamTokens:       15,
	Marketing:        10,
	Development:      10,
}

// FromConfig converts the configured percentages into a Distribution
func FromConfig(t config.Tokenomics) Distribution {
	return Distribution{
		LiquidityPool:    int64(t.LiquidityPool),
		CommunityRewards: int64(t.CommunityRewards),
		TeamTokens:       int64(t.TeamTokens),
		Marketing:        int64(t.Marketing),
		Development:      int64(t.Development),
	}
}

// Validate checks that every share is non-negative and the shares sum to 100
func (d Distribution) Validate() error {
	sum := int64(0)
	for _, pct := range []int64{d.LiquidityPool, d.CommunityRewards, d.TeamTokens, d.Marketing, d.Development} {
		if pct < 0 {
			return fmt.Errorf("%w: negative percentage %d", ErrInvalidDistribution, pct)
		}
		sum += pct
	}
	if sum != 100 {
		return fmt.Errorf("%w: percentages sum to %d", ErrInvalidDistribution, sum)
	}
	return nil
}

// Allocation is the token amount assigned to each bucket
type Allocation struct {
	LiquidityPool    int64 `json:"liquidityPool"`
	CommunityRewards int64 `json:"communityRewards"`
	TeamTokens       int64 `json:"teamTokens"`
	Marketing        int64 `json:"marketing"`
	Development      int64 `json:"development"`
}

// Total returns the sum of all buckets. It can be below the input supply
// because every bucket is floored independently.
func (a Allocation) Total() int64 {
	return a.LiquidityPool + a.CommunityRewards + a.TeamTokens + a.Marketing + a.Development
}

// Share is one labelled bucket with its fraction of the allocated total
type Share struct {
	Label      string  `json:"label"`
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Shares returns the buckets in display order with their percentage of Total
func (a Allocation) Shares() []Share {
	total := a.Total()
	shares := []Share{
		{Label: "Liquidity Pool", Amount: a.LiquidityPool},
		{Label: "Community Rewards", Amount: a.CommunityRewards},
		{Label: "Team Tokens", Amount: a.TeamTokens},
		{Label: "Marketing", Amount: a.Marketing},
		{Label: "Development", Amount: a.Development},
	}
	if total == 0 {
		return shares
	}
	for i := range shares {
		shares[i].Percentage = float64(shares[i].Amount) / float64(total) * 100
	}
	return shares
}

// Split allocates supply using the Default distribution
func Split(supply int64) (Allocation, error) {
	return SplitWith(supply, Default)
}

// SplitWith allocates floor(supply * pct / 100) to each bucket. The rounding
// loss is kept, not redistributed.
func SplitWith(supply int64, d Distribution) (Allocation, error) {
	if supply <= 0 {
		return Allocation{}, ErrNonPositiveSupply
	}
	if err := d.Validate(); err != nil {
		return Allocation{}, err
	}

	return Allocation{
		LiquidityPool:    portion(supply, d.LiquidityPool),
		CommunityRewards: portion(supply, d.CommunityRewards),
		TeamTokens:       portion(supply, d.TeamTokens),
		Marketing:        portion(supply, d.Marketing),
		Development:      portion(supply, d.Development),
	}, nil
}

// portion computes floor(supply*pct/100) without overflowing for supplies near MaxInt64
func portion(supply, pct int64) int64 {
	return (supply/100)*pct + (supply%100)*pct/100
}
