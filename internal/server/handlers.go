package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/wnt/memeforge/internal/generator"
	"github.com/wnt/memeforge/internal/tokenomics"
	"github.com/wnt/memeforge/internal/wallet"
)

type connectRequest struct {
	Wallet string `json:"wallet"`
}

type tokenomicsResponse struct {
	Supply       int64                   `json:"supply"`
	Distribution tokenomics.Distribution `json:"distribution"`
	Allocation   tokenomics.Allocation   `json:"allocation"`
	Allocated    int64                   `json:"allocated"`
	Shares       []tokenomics.Share      `json:"shares"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wallet.MustFromContext(r.Context()).Session())
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, wallet.MustFromContext(r.Context()).Session().Wallets)
}

func (s *Server) handleConnect(w http.ResponseWriter, r *http.Request) {
	var req connectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	name := strings.TrimSpace(req.Wallet)
	if name == "" {
		writeError(w, http.StatusBadRequest, "wallet is required")
		return
	}

	facade := wallet.MustFromContext(r.Context())
	if err := facade.SelectWallet(r.Context(), name); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facade.Session())
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	facade := wallet.MustFromContext(r.Context())
	if err := facade.Disconnect(r.Context()); err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, facade.Session())
}

func (s *Server) handleTokenomics(w http.ResponseWriter, r *http.Request) {
	supply := generator.DefaultTotalSupply
	if raw := r.URL.Query().Get("supply"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "supply must be an integer")
			return
		}
		supply = parsed
	}

	distribution := s.generator.Distribution()
	allocation, err := tokenomics.SplitWith(supply, distribution)
	if err != nil {
		s.respondError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenomicsResponse{
		Supply:       supply,
		Distribution: distribution,
		Allocation:   allocation,
		Allocated:    allocation.Total(),
		Shares:       allocation.Shares(),
	})
}

// handleGenerate queues a generate task. Omitted supply and decimals take the form defaults.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var draft generator.Draft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if draft.TotalSupply == 0 {
		draft.TotalSupply = generator.DefaultTotalSupply
	}
	if draft.Decimals == 0 {
		draft.Decimals = generator.DefaultDecimals
	}

	task, err := s.generator.Generate(r.Context(), s.creator(r), draft)
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

func (s *Server) handleGetCoin(w http.ResponseWriter, r *http.Request) {
	coin, err := s.source.GetCoin(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coin)
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	task, err := s.generator.Deploy(r.Context(), s.creator(r), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, task)
}

func (s *Server) handleLike(w http.ResponseWriter, r *http.Request) {
	coin, err := s.source.ToggleLike(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coin)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.generator.Task(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.generator.Cancel(mux.Vars(r)["id"])
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.workers == nil {
		writeError(w, http.StatusServiceUnavailable, "worker pool not running")
		return
	}
	stats, err := s.workers.Stats(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// creator returns the connected account address, or "" when no wallet is connected
func (s *Server) creator(r *http.Request) string {
	session := wallet.MustFromContext(r.Context()).Session()
	if !session.Connected() {
		return ""
	}
	return session.Account.Address
}
