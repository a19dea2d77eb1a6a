package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/generator"
	"github.com/wnt/memeforge/internal/tokenomics"
	"github.com/wnt/memeforge/internal/wallet"
	"github.com/wnt/memeforge/internal/wallet/keypair"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// respondError maps domain errors onto HTTP statuses
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var verr *generator.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Field: verr.Field})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrCoinNotFound),
		errors.Is(err, generator.ErrTaskNotFound),
		errors.Is(err, keypair.ErrUnknownWallet):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrInvalidQuery),
		errors.Is(err, catalog.ErrInvalidCoin),
		errors.Is(err, tokenomics.ErrNonPositiveSupply):
		status = http.StatusBadRequest
	case errors.Is(err, generator.ErrNotCreator):
		status = http.StatusForbidden
	case errors.Is(err, generator.ErrWalletNotConnected),
		errors.Is(err, generator.ErrInvalidTransition),
		errors.Is(err, generator.ErrTaskFinished),
		errors.Is(err, keypair.ErrWalletNotInstalled),
		errors.Is(err, wallet.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, generator.ErrThrottled):
		status = http.StatusTooManyRequests
	case errors.Is(err, wallet.ErrNoAdapter):
		status = http.StatusServiceUnavailable
	case errors.Is(err, wallet.ErrConnectFailed):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error().Err(err).Msg("Request failed")
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
