package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/metrics"
)

// Facade is the application-wide read model and action surface over an Adapter
type Facade struct {
	adapter Adapter
	logger  zerolog.Logger

	mu      sync.RWMutex
	status  Status
	wallet  string
	account Account
	attempt uint64
	abort   context.CancelFunc // cancels the connect call in flight
}

// NewFacade creates a façade over adapter. A nil adapter yields a façade that
// always reports a disconnected, empty session.
func NewFacade(adapter Adapter, baseLogger zerolog.Logger) *Facade {
	f := &Facade{
		adapter: adapter,
		logger:  logger.WithComponent(baseLogger, "wallet_session"),
		status:  StatusDisconnected,
	}

	// Mirror a connection the adapter already holds, e.g. restored on startup
	if adapter != nil {
		if state := adapter.Snapshot(); state.Connected && state.Account.Address != "" {
			f.status = StatusConnected
			f.wallet = state.Wallet
			f.account = state.Account
		}
	}
	metrics.SetSessionStatus(f.status.gaugeValue())

	return f
}

// Session returns the current snapshot. It never fails.
func (f *Facade) Session() Session {
	f.mu.RLock()
	s := Session{
		Status:  f.status,
		Wallet:  f.wallet,
		Account: f.account,
	}
	f.mu.RUnlock()

	if f.adapter != nil {
		s.Wallets = append([]Option(nil), f.adapter.Snapshot().Wallets...)
	}
	if s.Wallets == nil {
		s.Wallets = []Option{}
	}
	return s
}

// SelectWallet asks the adapter to connect with the named wallet. The session
// moves to connecting, then to connected on success or back to disconnected on
// failure. A later call supersedes an attempt still in flight; the superseded
// call returns ErrSuperseded and its outcome is discarded. Adapter failures are
// wrapped in ErrConnectFailed.
func (f *Facade) SelectWallet(ctx context.Context, name string) error {
	if f.adapter == nil {
		return ErrNoAdapter
	}

	connectCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	f.mu.Lock()
	f.attempt++
	attempt := f.attempt
	f.abortConnect()
	f.abort = cancel
	f.setStatus(StatusConnecting)
	f.wallet = name
	f.account = Account{}
	f.mu.Unlock()

	walletLogger := logger.WithWallet(f.logger, name)
	walletLogger.Info().Msg("Connecting wallet")

	account, err := f.adapter.Connect(connectCtx, name)
	if err == nil && account.Address == "" {
		err = ErrEmptyAccount
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if attempt != f.attempt {
		metrics.RecordWalletConnection(name, "superseded")
		walletLogger.Debug().Msg("Discarding superseded connection attempt")
		return ErrSuperseded
	}
	f.abort = nil

	if err != nil {
		f.setStatus(StatusDisconnected)
		f.wallet = ""
		f.account = Account{}
		metrics.RecordWalletConnection(name, "failed")
		walletLogger.Warn().Err(err).Msg("Wallet connection failed")
		return fmt.Errorf("%w: %s: %w", ErrConnectFailed, name, err)
	}

	f.setStatus(StatusConnected)
	f.account = account
	metrics.RecordWalletConnection(name, "connected")
	walletLogger.Info().Str("account", account.Address).Msg("Wallet connected")
	return nil
}

// Disconnect ends the active connection and clears the account. Calling it
// while already disconnected does nothing.
func (f *Facade) Disconnect(ctx context.Context) error {
	f.mu.Lock()
	if f.status == StatusDisconnected {
		f.mu.Unlock()
		return nil
	}
	// Invalidate any connection attempt still in flight
	f.attempt++
	f.abortConnect()
	name := f.wallet
	f.setStatus(StatusDisconnected)
	f.wallet = ""
	f.account = Account{}
	f.mu.Unlock()

	if f.adapter == nil {
		return nil
	}

	if err := f.adapter.Disconnect(ctx); err != nil {
		f.logger.Warn().Err(err).Str("wallet", name).Msg("Wallet adapter failed to disconnect")
		return fmt.Errorf("failed to disconnect wallet %s: %w", name, err)
	}

	f.logger.Info().Str("wallet", name).Msg("Wallet disconnected")
	return nil
}

// AutoConnect selects the named wallet once at startup. Failures are logged
// and leave the session disconnected.
func (f *Facade) AutoConnect(ctx context.Context, name string) {
	if name == "" || f.Session().Status != StatusDisconnected {
		return
	}
	if err := f.SelectWallet(ctx, name); err != nil {
		f.logger.Warn().Err(err).Str("wallet", name).Msg("Auto-connect failed")
	}
}

// abortConnect must be called with mu held
func (f *Facade) abortConnect() {
	if f.abort != nil {
		f.abort()
		f.abort = nil
	}
}

// setStatus must be called with mu held
func (f *Facade) setStatus(s Status) {
	f.status = s
	metrics.SetSessionStatus(s.gaugeValue())
}
