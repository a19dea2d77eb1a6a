package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configKeys = []string{
	"NETWORK", "RPC_ENDPOINTS_DEVNET", "RPC_ENDPOINTS_TESTNET", "RPC_ENDPOINTS_MAINNET",
	"EXPLORER_URL", "MAX_GAS_AMOUNT", "GAS_UNIT_PRICE", "TRANSACTION_TIMEOUT",
	"SUPPORTED_WALLETS", "WALLET_DIR", "AUTO_CONNECT_WALLET", "CREATE_MISSING_WALLETS",
	"TOKENOMICS_LIQUIDITY_POOL", "TOKENOMICS_COMMUNITY_REWARDS", "TOKENOMICS_TEAM_TOKENS",
	"TOKENOMICS_MARKETING", "TOKENOMICS_DEVELOPMENT", "MIN_TOTAL_SUPPLY", "MAX_TOTAL_SUPPLY",
	"GENERATE_DELAY", "DEPLOY_DELAY", "DATA_SOURCE", "DB_HOST", "DB_USER", "DB_PASSWORD",
	"DB_NAME", "DB_PORT", "DB_SSL_MODE", "QUEUE_BACKEND", "REDIS_URL",
	"MIN_WORKERS", "MAX_WORKERS", "HTTP_ADDR", "METRICS_PORT", "LOG_LEVEL",
}

// clearEnv blanks every variable Load reads; empty values fall back to defaults
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults are applied", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, NetworkDevnet, cfg.Network)
		assert.Equal(t, []string{"https://api.devnet.solana.com"}, cfg.RPCEndpointsForNetwork())
		assert.True(t, cfg.IsTestnet())
		assert.Equal(t, 20000, cfg.Gas.MaxGasAmount)
		assert.Equal(t, 100, cfg.Gas.GasUnitPrice)
		assert.Equal(t, 30*time.Second, cfg.TransactionTimeout)
		assert.Equal(t, 2*time.Second, cfg.GenerateDelay)
		assert.Equal(t, 3*time.Second, cfg.DeployDelay)
		assert.Equal(t, Tokenomics{40, 25, 15, 10, 10}, cfg.Tokenomics)
		assert.Equal(t, DefaultLimits(), cfg.Limits)
		assert.Equal(t, DefaultSupportedWallets, cfg.SupportedWallets)
		assert.Equal(t, "memory", cfg.DataSource)
		assert.Equal(t, "memory", cfg.QueueBackend)
		assert.Equal(t, 1, cfg.MinWorkers)
		assert.Equal(t, 4, cfg.MaxWorkers)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "9100", cfg.MetricsPort)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.CreateMissingWallets)
	})

	t.Run("successful load with custom vars", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NETWORK", "mainnet")
		t.Setenv("RPC_ENDPOINTS_MAINNET", "https://api.mainnet-beta.solana.com, https://rpc.ankr.com/solana")
		t.Setenv("SUPPORTED_WALLETS", "phantom,solflare")
		t.Setenv("AUTO_CONNECT_WALLET", "Phantom")
		t.Setenv("GENERATE_DELAY", "10ms")
		t.Setenv("DATA_SOURCE", "postgres")
		t.Setenv("DB_NAME", "memeforge")
		t.Setenv("QUEUE_BACKEND", "redis")
		t.Setenv("MIN_WORKERS", "2")
		t.Setenv("MAX_WORKERS", "10")
		t.Setenv("LOG_LEVEL", "debug")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, NetworkMainnet, cfg.Network)
		assert.False(t, cfg.IsTestnet())
		assert.Equal(t, []string{"https://api.mainnet-beta.solana.com", "https://rpc.ankr.com/solana"}, cfg.RPCEndpointsForNetwork())
		assert.Equal(t, []string{"phantom", "solflare"}, cfg.SupportedWallets)
		assert.Equal(t, 10*time.Millisecond, cfg.GenerateDelay)
		assert.Equal(t, 2, cfg.MinWorkers)
		assert.Equal(t, 10, cfg.MaxWorkers)
		assert.Contains(t, cfg.PostgresDSN(), "dbname=memeforge")
	})

	t.Run("invalid network", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("NETWORK", "localnet")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid NETWORK")
	})

	t.Run("tokenomics must sum to 100", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TOKENOMICS_MARKETING", "20")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "must sum to 100")
	})

	t.Run("postgres requires a database name", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DATA_SOURCE", "postgres")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "DB_NAME is required")
	})

	t.Run("unsupported auto connect wallet", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SUPPORTED_WALLETS", "phantom")
		t.Setenv("AUTO_CONNECT_WALLET", "solflare")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not a supported wallet")
	})

	t.Run("missing wallets are created on test networks only", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CREATE_MISSING_WALLETS", "true")

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.CreateMissingWallets)

		t.Setenv("NETWORK", "mainnet")
		_, err = Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "CREATE_MISSING_WALLETS")

		t.Setenv("CREATE_MISSING_WALLETS", "maybe")
		_, err = Load()
		assert.Error(t, err)
	})

	t.Run("invalid worker configuration", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("MIN_WORKERS", "10")
		t.Setenv("MAX_WORKERS", "5")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "MAX_WORKERS must be greater than or equal to MIN_WORKERS")
	})

	t.Run("invalid delay", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("DEPLOY_DELAY", "soon")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid DEPLOY_DELAY")
	})

	t.Run("invalid log level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("LOG_LEVEL", "invalid")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid LOG_LEVEL")
	})
}
