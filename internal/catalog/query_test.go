package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnt/memeforge/internal/models"
)

func names(coins []models.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.Name
	}
	return out
}

func TestFilter(t *testing.T) {
	t.Run("search is case-insensitive over name", func(t *testing.T) {
		got := Filter(DashboardFixtures(), Query{Search: "cat"})
		assert.Equal(t, []string{"CatCoin"}, names(got))

		got = Filter(DashboardFixtures(), Query{Search: "CAT"})
		assert.Equal(t, []string{"CatCoin"}, names(got))
	})

	t.Run("search matches symbol and description", func(t *testing.T) {
		assert.Equal(t, []string{"PepeToken"}, names(Filter(CommunityFixtures(), Query{Search: "pepe"})))
		assert.Equal(t, []string{"SpaceToken"}, names(Filter(CommunityFixtures(), Query{Search: "frontier"})))
	})

	t.Run("category filter with empty search", func(t *testing.T) {
		got := Filter(CommunityFixtures(), Query{Category: models.CategoryMeme})
		assert.Equal(t, []string{"DogeMoon", "PepeToken"}, names(got))
		for _, c := range got {
			assert.Equal(t, models.CategoryMeme, c.Category)
		}
	})

	t.Run("all and empty filters match everything", func(t *testing.T) {
		assert.Len(t, Filter(CommunityFixtures(), Query{Category: "all", Status: "all"}), 4)
		assert.Len(t, Filter(CommunityFixtures(), Query{}), 4)
	})

	t.Run("status filter", func(t *testing.T) {
		got := Filter(DashboardFixtures(), Query{Status: string(models.CoinStatusDeployed)})
		assert.Equal(t, []string{"CatCoin"}, names(got))
	})

	t.Run("search and filter combine", func(t *testing.T) {
		got := Filter(CommunityFixtures(), Query{Search: "token", Category: models.CategoryMeme})
		assert.Equal(t, []string{"DogeMoon", "PepeToken"}, names(got))

		assert.Empty(t, Filter(CommunityFixtures(), Query{Search: "cat", Category: models.CategoryMeme}))
	})
}

func TestSort(t *testing.T) {
	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortMarketCap, []string{"PepeToken", "SpaceToken", "CatCoin", "DogeMoon"}},
		{SortTrending, []string{"PepeToken", "CatCoin", "DogeMoon", "SpaceToken"}},
		{SortPriceHigh, []string{"SpaceToken", "PepeToken", "CatCoin", "DogeMoon"}},
		{SortPriceLow, []string{"DogeMoon", "CatCoin", "PepeToken", "SpaceToken"}},
		{SortVolume, []string{"PepeToken", "SpaceToken", "CatCoin", "DogeMoon"}},
		{SortHolders, []string{"PepeToken", "SpaceToken", "DogeMoon", "CatCoin"}},
		{SortNewest, []string{"DogeMoon", "SpaceToken", "CatCoin", "PepeToken"}},
		{SortNone, []string{"DogeMoon", "CatCoin", "PepeToken", "SpaceToken"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			coins := CommunityFixtures()
			Sort(coins, tt.key)
			assert.Equal(t, tt.want, names(coins))
		})
	}
}

func TestSortIsStable(t *testing.T) {
	coins := CommunityFixtures()
	for i := range coins {
		coins[i].Likes = 10
	}
	Sort(coins, SortTrending)
	assert.Equal(t, []string{"DogeMoon", "CatCoin", "PepeToken", "SpaceToken"}, names(coins))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	coins := CommunityFixtures()
	got := Apply(coins, Query{SortBy: SortMarketCap})

	assert.Equal(t, []string{"PepeToken", "SpaceToken", "CatCoin", "DogeMoon"}, names(got))
	assert.Equal(t, []string{"DogeMoon", "CatCoin", "PepeToken", "SpaceToken"}, names(coins))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("Market-Cap")
	require.NoError(t, err)
	assert.Equal(t, SortMarketCap, key)

	key, err = ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortNone, key)

	_, err = ParseSortKey("alphabetical")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}
