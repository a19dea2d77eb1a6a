package catalog

import "github.com/wnt/memeforge/internal/models"

// Summary aggregates the headline numbers of the dashboard
type Summary struct {
	TotalCoins     int     `json:"totalCoins"`
	TotalMarketCap float64 `json:"totalMarketCap"`
	TotalVolume    float64 `json:"totalVolume"`
	TotalHolders   int     `json:"totalHolders"`
}

// Summarize totals market cap, volume and holders over coins
func Summarize(coins []models.Coin) Summary {
	s := Summary{TotalCoins: len(coins)}
	for _, c := range coins {
		s.TotalMarketCap += c.MarketCap
		s.TotalVolume += c.Volume24h
		s.TotalHolders += c.Holders
	}
	return s
}

// Stat is one labelled figure on the landing page
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// HomeStats returns the static landing page statistics
func HomeStats() []Stat {
	return []Stat{
		{Label: "Total Coins Generated", Value: "1,234"},
		{Label: "Active Users", Value: "5.2K"},
		{Label: "Total Volume", Value: "$2.5M"},
		{Label: "Countries", Value: "42"},
	}
}

// Feature is one selling point on the landing page
type Feature struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HomeFeatures returns the landing page feature list
func HomeFeatures() []Feature {
	return []Feature{
		{Title: "Instant Generation", Description: "Create a meme coin from a short form in seconds"},
		{Title: "Secure & Audited", Description: "Coins are issued from your own connected wallet"},
		{Title: "Smart Tokenomics", Description: "Supply is split automatically across liquidity, community, team, marketing and development"},
		{Title: "Community Driven", Description: "Browse, search and like coins launched by other creators"},
	}
}
