// Package keypair provides a wallet.Adapter backed by Solana keygen files on
// local disk. Each supported wallet name maps to <dir>/<name>.json.
package keypair

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
	solanaclient "github.com/wnt/memeforge/internal/solana"
	"github.com/wnt/memeforge/internal/wallet"
)

var (
	// ErrUnknownWallet is returned for a wallet name outside the supported list
	ErrUnknownWallet = errors.New("unknown wallet")

	// ErrWalletNotInstalled is returned when the wallet's keyfile is missing
	ErrWalletNotInstalled = errors.New("wallet not installed")
)

// BalanceChecker verifies that an account is reachable on the configured cluster
type BalanceChecker interface {
	GetBalance(ctx context.Context, address string) (uint64, error)
}

// Adapter connects wallets by loading their keypair from disk
type Adapter struct {
	dir           string
	names         []string
	icons         map[string]string
	checker       BalanceChecker
	createMissing bool
	logger        zerolog.Logger

	mu      sync.RWMutex
	wallet  string
	account wallet.Account
	attempt uint64
}

// Option configures an Adapter
type Option func(*Adapter)

// WithIcons sets icon URLs per wallet name
func WithIcons(icons map[string]string) Option {
	return func(a *Adapter) {
		a.icons = icons
	}
}

// WithBalanceChecker verifies every connected account against the cluster
func WithBalanceChecker(c BalanceChecker) Option {
	return func(a *Adapter) {
		a.checker = c
	}
}

// WithCreateMissing generates a keyfile for a supported wallet on its first
// connect instead of reporting it as not installed
func WithCreateMissing() Option {
	return func(a *Adapter) {
		a.createMissing = true
	}
}

// New creates an adapter offering names, with keyfiles looked up in dir
func New(dir string, names []string, baseLogger zerolog.Logger, opts ...Option) *Adapter {
	a := &Adapter{
		dir:    dir,
		names:  append([]string(nil), names...),
		logger: logger.WithComponent(baseLogger, "keypair_adapter"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot lists the supported wallets with their install state and the current connection
func (a *Adapter) Snapshot() wallet.AdapterState {
	options := make([]wallet.Option, 0, len(a.names))
	for _, name := range a.names {
		state := wallet.ReadyNotDetected
		if _, err := os.Stat(a.keyfile(name)); err == nil {
			state = wallet.ReadyInstalled
		} else if a.createMissing {
			state = wallet.ReadyLoadable
		}
		options = append(options, wallet.Option{
			Name:       name,
			Icon:       a.icons[name],
			ReadyState: state,
		})
	}

	a.mu.RLock()
	defer a.mu.RUnlock()
	return wallet.AdapterState{
		Wallets:   options,
		Connected: a.account.Address != "",
		Wallet:    a.wallet,
		Account:   a.account,
	}
}

// Connect loads the wallet's keypair and derives its account address. Starting
// a connect drops the current connection; a connect that was overtaken by a
// later Connect or Disconnect, or whose context ends, never commits.
func (a *Adapter) Connect(ctx context.Context, name string) (wallet.Account, error) {
	a.mu.Lock()
	if err := ctx.Err(); err != nil {
		a.mu.Unlock()
		return wallet.Account{}, err
	}
	a.attempt++
	attempt := a.attempt
	a.wallet = ""
	a.account = wallet.Account{}
	a.mu.Unlock()

	canonical, ok := a.lookup(name)
	if !ok {
		return wallet.Account{}, fmt.Errorf("%w: %s", ErrUnknownWallet, name)
	}

	key, err := a.loadKey(canonical)
	if err != nil {
		return wallet.Account{}, err
	}
	account := wallet.Account{Address: key.PublicKey().String()}

	if a.checker != nil {
		lamports, err := a.checker.GetBalance(ctx, account.Address)
		if err != nil {
			return wallet.Account{}, fmt.Errorf("failed to verify account %s: %w", account.Address, err)
		}
		balance := solanaclient.LamportsToSOL(lamports)
		account.Balance = &balance
		a.logger.Debug().
			Str("wallet", canonical).
			Str("account", account.Address).
			Uint64("lamports", lamports).
			Msg("Verified account on cluster")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if attempt != a.attempt {
		return wallet.Account{}, fmt.Errorf("%w: %s", wallet.ErrSuperseded, canonical)
	}
	if err := ctx.Err(); err != nil {
		return wallet.Account{}, err
	}
	a.wallet = canonical
	a.account = account

	return account, nil
}

// Disconnect forgets the connected account and invalidates connects in flight
func (a *Adapter) Disconnect(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.attempt++
	a.wallet = ""
	a.account = wallet.Account{}
	return nil
}

func (a *Adapter) loadKey(name string) (solana.PrivateKey, error) {
	path := a.keyfile(name)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat keyfile: %w", err)
		}
		if !a.createMissing {
			return nil, fmt.Errorf("%w: %s", ErrWalletNotInstalled, name)
		}
		return a.createKey(name, path)
	}

	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair for %s: %w", name, err)
	}
	return key, nil
}

// createKey writes a new keypair to path in solana-keygen format
func (a *Adapter) createKey(name, path string) (solana.PrivateKey, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate keypair for %s: %w", name, err)
	}

	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to encode keypair for %s: %w", name, err)
	}

	if err := os.MkdirAll(a.dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create wallet directory: %w", err)
	}
	// O_EXCL keeps a concurrent connect from overwriting a key just written
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return a.loadKey(name)
		}
		return nil, fmt.Errorf("failed to create keyfile for %s: %w", name, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write keyfile for %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to write keyfile for %s: %w", name, err)
	}

	a.logger.Info().Str("wallet", name).Str("account", key.PublicKey().String()).Msg("Created keyfile")
	return key, nil
}

func (a *Adapter) lookup(name string) (string, bool) {
	for _, n := range a.names {
		if strings.EqualFold(n, name) {
			return n, true
		}
	}
	return "", false
}

func (a *Adapter) keyfile(name string) string {
	return filepath.Join(a.dir, strings.ToLower(name)+".json")
}
