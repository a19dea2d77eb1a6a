package server

import (
	"net/http"
	"strings"

	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/generator"
	"github.com/wnt/memeforge/internal/models"
	"github.com/wnt/memeforge/internal/tokenomics"
	"github.com/wnt/memeforge/internal/wallet"
)

type homeView struct {
	Stats    []catalog.Stat    `json:"stats"`
	Features []catalog.Feature `json:"features"`
	Session  wallet.Session    `json:"session"`
}

type limitsView struct {
	MinTotalSupply       int64 `json:"minTotalSupply"`
	MaxTotalSupply       int64 `json:"maxTotalSupply"`
	MinNameLength        int   `json:"minNameLength"`
	MaxNameLength        int   `json:"maxNameLength"`
	MinSymbolLength      int   `json:"minSymbolLength"`
	MaxSymbolLength      int   `json:"maxSymbolLength"`
	MinDescriptionLength int   `json:"minDescriptionLength"`
	MaxDescriptionLength int   `json:"maxDescriptionLength"`
}

type generatorView struct {
	Session     wallet.Session          `json:"session"`
	Network     string                  `json:"network"`
	ExplorerURL string                  `json:"explorerUrl"`
	Decimals    []int                   `json:"decimals"`
	Defaults    generator.Draft         `json:"defaults"`
	Limits      limitsView              `json:"limits"`
	Tokenomics  tokenomics.Distribution `json:"tokenomics"`
}

type dashboardView struct {
	Session wallet.Session  `json:"session"`
	Coins   []models.Coin   `json:"coins"`
	Summary catalog.Summary `json:"summary"`
}

type exploreView struct {
	Coins      []models.Coin     `json:"coins"`
	SortBy     catalog.SortKey   `json:"sortBy"`
	SortKeys   []catalog.SortKey `json:"sortKeys"`
	Categories []string          `json:"categories"`
}

var exploreCategories = []string{catalog.FilterAll, models.CategoryMeme, models.CategoryCommunity, models.CategoryGaming}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, homeView{
		Stats:    catalog.HomeStats(),
		Features: catalog.HomeFeatures(),
		Session:  wallet.MustFromContext(r.Context()).Session(),
	})
}

func (s *Server) handleGeneratorView(w http.ResponseWriter, r *http.Request) {
	l := s.generator.Limits()
	writeJSON(w, http.StatusOK, generatorView{
		Session:     wallet.MustFromContext(r.Context()).Session(),
		Network:     s.cfg.Network,
		ExplorerURL: s.cfg.ExplorerURL,
		Decimals:    generator.AllowedDecimals,
		Defaults: generator.Draft{
			TotalSupply: generator.DefaultTotalSupply,
			Decimals:    generator.DefaultDecimals,
		},
		Limits: limitsView{
			MinTotalSupply:       l.MinTotalSupply,
			MaxTotalSupply:       l.MaxTotalSupply,
			MinNameLength:        l.MinNameLength,
			MaxNameLength:        l.MaxNameLength,
			MinSymbolLength:      l.MinSymbolLength,
			MaxSymbolLength:      l.MaxSymbolLength,
			MinDescriptionLength: l.MinDescriptionLength,
			MaxDescriptionLength: l.MaxDescriptionLength,
		},
		Tokenomics: s.generator.Distribution(),
	})
}

// handleDashboard lists the connected account's coins. The summary covers all
// of them; search and status only narrow the list.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	session := wallet.MustFromContext(r.Context()).Session()
	if !session.Connected() {
		s.respondError(w, generator.ErrWalletNotConnected)
		return
	}

	coins, err := s.source.ListByCreator(r.Context(), session.Account.Address)
	if err != nil {
		s.respondError(w, err)
		return
	}

	q := r.URL.Query()
	filtered := catalog.Apply(coins, catalog.Query{
		Search: q.Get("q"),
		Status: q.Get("status"),
	})

	writeJSON(w, http.StatusOK, dashboardView{
		Session: session,
		Coins:   nonNil(filtered),
		Summary: catalog.Summarize(coins),
	})
}

// handleExplore lists every coin, trending first unless another sort is asked for
func (s *Server) handleExplore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	sortBy := catalog.SortTrending
	if raw := strings.TrimSpace(q.Get("sort")); raw != "" {
		key, err := catalog.ParseSortKey(raw)
		if err != nil {
			s.respondError(w, err)
			return
		}
		sortBy = key
	}

	coins, err := s.source.ListCoins(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, exploreView{
		Coins: nonNil(catalog.Apply(coins, catalog.Query{
			Search:   q.Get("q"),
			Category: q.Get("category"),
			SortBy:   sortBy,
		})),
		SortBy:     sortBy,
		SortKeys:   catalog.SortKeys,
		Categories: exploreCategories,
	})
}

func nonNil(coins []models.Coin) []models.Coin {
	if coins == nil {
		return []models.Coin{}
	}
	return coins
}
