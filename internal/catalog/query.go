package catalog

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/wnt/memeforge/internal/models"
)

// FilterAll matches every category or status
const FilterAll = "all"

// SortKey selects the ordering applied after filtering
type SortKey string

const (
	SortNone      SortKey = ""
	SortTrending  SortKey = "trending"
	SortPriceHigh SortKey = "price-high"
	SortPriceLow  SortKey = "price-low"
	SortMarketCap SortKey = "market-cap"
	SortVolume    SortKey = "volume"
	SortHolders   SortKey = "holders"
	SortNewest    SortKey = "newest"
)

// SortKeys lists the keys accepted by ParseSortKey
var SortKeys = []SortKey{SortTrending, SortPriceHigh, SortPriceLow, SortMarketCap, SortVolume, SortHolders, SortNewest}

// ParseSortKey validates a user supplied sort key. Empty input means no sorting.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return SortNone, nil
	}
	key := SortKey(strings.ToLower(s))
	if slices.Contains(SortKeys, key) {
		return key, nil
	}
	return SortNone, fmt.Errorf("%w: unknown sort key %q", ErrInvalidQuery, s)
}

// Query describes a search over a coin list
type Query struct {
	Search   string
	Category string
	Status   string
	SortBy   SortKey
}

// Matches reports whether coin passes the search text and the category/status filters
func (q Query) Matches(coin models.Coin) bool {
	if !matchesFilter(q.Category, coin.Category) || !matchesFilter(q.Status, string(coin.Status)) {
		return false
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(coin.Name), needle) ||
		strings.Contains(strings.ToLower(coin.Symbol), needle) ||
		strings.Contains(strings.ToLower(coin.Description), needle)
}

func matchesFilter(filter, value string) bool {
	return filter == "" || strings.EqualFold(filter, FilterAll) || filter == value
}

// Filter returns the coins matching q, preserving input order
func Filter(coins []models.Coin, q Query) []models.Coin {
	out := make([]models.Coin, 0, len(coins))
	for _, c := range coins {
		if q.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders coins in place by key. Ties keep their relative order and
// SortNone leaves the slice untouched.
func Sort(coins []models.Coin, key SortKey) {
	cmpFn := comparator(key)
	if cmpFn == nil {
		return
	}
	slices.SortStableFunc(coins, cmpFn)
}

func comparator(key SortKey) func(a, b models.Coin) int {
	switch key {
	case SortTrending:
		return func(a, b models.Coin) int { return cmp.Compare(b.Likes, a.Likes) }
	case SortPriceHigh:
		return func(a, b models.Coin) int { return cmp.Compare(b.Price, a.Price) }
	case SortPriceLow:
		return func(a, b models.Coin) int { return cmp.Compare(a.Price, b.Price) }
	case SortMarketCap:
		return func(a, b models.Coin) int { return cmp.Compare(b.MarketCap, a.MarketCap) }
	case SortVolume:
		return func(a, b models.Coin) int { return cmp.Compare(b.Volume24h, a.Volume24h) }
	case SortHolders:
		return func(a, b models.Coin) int { return cmp.Compare(b.Holders, a.Holders) }
	case SortNewest:
		return func(a, b models.Coin) int { return b.CreatedAt.Compare(a.CreatedAt) }
	}
	return nil
}

// Apply filters then sorts a copy of coins; the input slice is not modified
func Apply(coins []models.Coin, q Query) []models.Coin {
	out := Filter(coins, q)
	Sort(out, q.SortBy)
	return out
}
