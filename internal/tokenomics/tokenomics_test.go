package tokenomics

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnt/memeforge/internal/config"
)

func TestSplit(t *testing.T) {
	t.Run("one million splits exactly", func(t *testing.T) {
		got, err := Split(1_000_000)
		require.NoError(t, err)

		assert.Equal(t, Allocation{
			LiquidityPool:    400000,
			CommunityRewards: 250000,
			TeamTokens:       150000,
			Marketing:        100000,
			Development:      100000,
		}, got)
		assert.Equal(t, int64(1_000_000), got.Total())
	})

	t.Run("flooring leaves a deficit", func(t *testing.T) {
		got, err := Split(999)
		require.NoError(t, err)

		assert.Equal(t, Allocation{
			LiquidityPool:    399,
			CommunityRewards: 249,
			TeamTokens:       149,
			Marketing:        99,
			Development:      99,
		}, got)
		assert.LessOrEqual(t, got.Total(), int64(999))
		assert.Equal(t, int64(995), got.Total())
	})

	t.Run("non-positive supply is rejected", func(t *testing.T) {
		for _, supply := range []int64{0, -1, math.MinInt64} {
			_, err := Split(supply)
			assert.ErrorIs(t, err, ErrNonPositiveSupply)
		}
	})

	t.Run("huge supply does not overflow", func(t *testing.T) {
		got, err := Split(math.MaxInt64)
		require.NoError(t, err)
		assert.Positive(t, got.LiquidityPool)
		assert.LessOrEqual(t, got.Total(), int64(math.MaxInt64))
	})
}

func TestSplitBucketsNeverExceedSupply(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	supplies := []int64{1, 2, 3, 7, 99, 100, 101, 1000, 123457}
	for i := 0; i < 500; i++ {
		supplies = append(supplies, rng.Int63n(1_000_000_000_000)+1)
	}

	for _, s := range supplies {
		got, err := Split(s)
		require.NoError(t, err)

		for _, bucket := range []int64{got.LiquidityPool, got.CommunityRewards, got.TeamTokens, got.Marketing, got.Development} {
			assert.GreaterOrEqual(t, bucket, int64(0), "supply %d", s)
			assert.LessOrEqual(t, bucket, s, "supply %d", s)
		}
		assert.LessOrEqual(t, got.Total(), s, "supply %d", s)
	}
}

func TestSplitWith(t *testing.T) {
	tests := []struct {
		name    string
		dist    Distribution
		wantErr bool
	}{
		{name: "default", dist: Default},
		{name: "all to liquidity", dist: Distribution{LiquidityPool: 100}},
		{name: "sum below 100", dist: Distribution{LiquidityPool: 50, Marketing: 10}, wantErr: true},
		{name: "negative share", dist: Distribution{LiquidityPool: 110, Marketing: -10}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitWith(10_000, tt.dist)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidDistribution)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestFromConfig(t *testing.T) {
	dist := FromConfig(config.Tokenomics{LiquidityPool: 40, CommunityRewards: 25, TeamTokens: 15, Marketing: 10, Development: 10})
	assert.Equal(t, Default, dist)
}

func TestShares(t *testing.T) {
	alloc, err := Split(1_000_000)
	require.NoError(t, err)

	shares := alloc.Shares()
	require.Len(t, shares, 5)
	assert.Equal(t, "Liquidity Pool", shares[0].Label)
	assert.InDelta(t, 40.0, shares[0].Percentage, 1e-9)
	assert.InDelta(t, 10.0, shares[4].Percentage, 1e-9)

	empty := Allocation{}.Shares()
	assert.Zero(t, empty[0].Percentage)
}
