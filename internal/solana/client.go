package solana

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/metrics"
	"github.com/wnt/memeforge/internal/rpc"
)

// ErrInvalidAddress is returned for strings that are not base58 public keys
var ErrInvalidAddress = errors.New("invalid solana address")

// DefaultTimeout bounds a single RPC call
const DefaultTimeout = 30 * time.Second

// Client reads account state from the Solana cluster through an RPC pool
type Client struct {
	pool    *rpc.Pool
	timeout time.Duration
	logger  zerolog.Logger
}

// NewClient creates a new Solana client over pool
func NewClient(pool *rpc.Pool, timeout time.Duration, baseLogger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		pool:    pool,
		timeout: timeout,
		logger:  logger.WithComponent(baseLogger, "solana_client"),
	}
}

// GetBalance returns the finalized lamport balance of address
func (c *Client) GetBalance(ctx context.Context, address string) (uint64, error) {
	pubkey, err := ParseAddress(address)
	if err != nil {
		return 0, err
	}

	endpoint, err := c.pool.Acquire(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to acquire RPC endpoint: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	result, err := endpoint.Client.GetBalance(callCtx, pubkey, solanarpc.CommitmentFinalized)
	if err != nil {
		metrics.RecordRPCRequest("failed")
		c.pool.ReportFailure(endpoint.URL, 30*time.Second)
		return 0, fmt.Errorf("failed to get balance for %s: %w", address, err)
	}

	metrics.RecordRPCRequest("success")
	c.pool.MarkHealthy(endpoint.URL)

	endpointLogger := logger.WithRPCEndpoint(c.logger, endpoint.URL)
	endpointLogger.Debug().
		Str("address", address).
		Uint64("lamports", result.Value).
		Msg("Fetched balance")

	return result.Value, nil
}

// ParseAddress validates a base58 encoded public key
func ParseAddress(address string) (solana.PublicKey, error) {
	pubkey, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %s", ErrInvalidAddress, address)
	}
	return pubkey, nil
}

// NewMintAddress returns a fresh, random mint account address
func NewMintAddress() string {
	return solana.NewWallet().PublicKey().String()
}

// LamportsToSOL converts lamports to SOL
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}
