package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/models"
	"github.com/wnt/memeforge/internal/tokenomics"
)

func newTestStore(t *testing.T) *CoinStore {
	t.Helper()
	db, err := Open(sqlite.Open(filepath.Join(t.TempDir(), "coins.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return NewCoinStore(db)
}

func testCoin(id, creator string, createdAt time.Time) models.Coin {
	allocation, _ := tokenomics.Split(1_000_000)
	return models.Coin{
		ID:              id,
		Name:            "Coin " + id,
		Symbol:          "C" + id,
		Description:     "test coin",
		Creator:         creator,
		ContractAddress: "mint-" + id,
		TotalSupply:     1_000_000,
		Decimals:        8,
		Status:          models.CoinStatusGenerated,
		Category:        models.CategoryMeme,
		Tokenomics:      allocation,
		CreatedAt:       createdAt,
	}
}

func TestCoinStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCoin(ctx, testCoin("a", "alice", created)))

	coin, err := store.GetCoin(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "Coin a", coin.Name)
	assert.Equal(t, int64(400_000), coin.Tokenomics.LiquidityPool)
	assert.Equal(t, int64(100_000), coin.Tokenomics.Development)
	assert.True(t, created.Equal(coin.CreatedAt))
	assert.Nil(t, coin.DeployedAt)

	_, err = store.GetCoin(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrCoinNotFound)
}

func TestCoinStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	coin := testCoin("a", "alice", time.Now().UTC())
	require.NoError(t, store.SaveCoin(ctx, coin))

	deployed := time.Now().UTC()
	coin.Status = models.CoinStatusDeployed
	coin.DeployedAt = &deployed
	require.NoError(t, store.SaveCoin(ctx, coin))

	got, err := store.GetCoin(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, models.CoinStatusDeployed, got.Status)
	require.NotNil(t, got.DeployedAt)

	all, err := store.ListCoins(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCoinStore_RejectsInvalidCoins(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.SaveCoin(ctx, models.Coin{}), catalog.ErrInvalidCoin)

	coin := testCoin("a", "alice", time.Now())
	coin.Status = "Burned"
	assert.ErrorIs(t, store.SaveCoin(ctx, coin), catalog.ErrInvalidCoin)
}

func TestCoinStore_Listing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveCoin(ctx, testCoin("c", "alice", base.Add(2*time.Hour))))
	require.NoError(t, store.SaveCoin(ctx, testCoin("a", "alice", base)))
	require.NoError(t, store.SaveCoin(ctx, testCoin("b", "bob", base.Add(time.Hour))))

	all, err := store.ListCoins(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(all))

	mine, err := store.ListByCreator(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(mine))

	none, err := store.ListByCreator(ctx, "carol")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestCoinStore_ToggleLike(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	coin := testCoin("a", "alice", time.Now().UTC())
	coin.Likes = 10
	require.NoError(t, store.SaveCoin(ctx, coin))

	liked, err := store.ToggleLike(ctx, "a")
	require.NoError(t, err)
	assert.True(t, liked.IsLiked)
	assert.Equal(t, 11, liked.Likes)

	unliked, err := store.ToggleLike(ctx, "a")
	require.NoError(t, err)
	assert.False(t, unliked.IsLiked)
	assert.Equal(t, 10, unliked.Likes)

	stored, err := store.GetCoin(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Likes)

	_, err = store.ToggleLike(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrCoinNotFound)
}

func TestCoinStore_ServesCatalogQueries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	for _, c := range catalog.CommunityFixtures() {
		require.NoError(t, store.SaveCoin(ctx, c))
	}

	coins, err := store.ListCoins(ctx)
	require.NoError(t, err)

	gaming := catalog.Apply(coins, catalog.Query{Category: models.CategoryGaming})
	require.Len(t, gaming, 1)
	assert.Equal(t, models.CategoryGaming, gaming[0].Category)
}

func ids(coins []models.Coin) []string {
	out := make([]string, len(coins))
	for i, c := range coins {
		out[i] = c.ID
	}
	return out
}
