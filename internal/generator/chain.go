package generator

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/models"
	"github.com/wnt/memeforge/internal/solana"
)

// Chain performs the network side of generating and deploying a coin
type Chain interface {
	// Mint reserves a mint account for a new coin and returns its address.
	Mint(ctx context.Context, draft Draft) (string, error)

	// Deploy publishes a generated coin.
	Deploy(ctx context.Context, coin models.Coin) error
}

// Simulator is a Chain that only waits. No transaction is sent anywhere.
type Simulator struct {
	GenerateDelay time.Duration
	DeployDelay   time.Duration
	Gas           config.Gas
	logger        zerolog.Logger
}

// NewSimulator builds a simulated chain from the configured delays and gas settings
func NewSimulator(cfg config.Config, baseLogger zerolog.Logger) *Simulator {
	return &Simulator{
		GenerateDelay: cfg.GenerateDelay,
		DeployDelay:   cfg.DeployDelay,
		Gas:           cfg.Gas,
		logger:        logger.WithComponent(baseLogger, "chain_simulator"),
	}
}

// Mint waits GenerateDelay and returns a fresh random mint address
func (s *Simulator) Mint(ctx context.Context, draft Draft) (string, error) {
	if err := sleep(ctx, s.GenerateDelay); err != nil {
		return "", err
	}
	address := solana.NewMintAddress()
	s.logger.Debug().Str("symbol", draft.Symbol).Str("mint", address).Msg("Simulated mint")
	return address, nil
}

// Deploy waits DeployDelay
func (s *Simulator) Deploy(ctx context.Context, coin models.Coin) error {
	if err := sleep(ctx, s.DeployDelay); err != nil {
		return err
	}
	s.logger.Debug().
		Str("coin_id", coin.ID).
		Int("max_gas_amount", s.Gas.MaxGasAmount).
		Int("gas_unit_price", s.Gas.GasUnitPrice).
		Msg("Simulated deployment")
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
