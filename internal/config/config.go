package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Supported networks
const (
	NetworkDevnet  = "devnet"
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
)

// Storage and queue backends
const (
	DataSourceMemory   = "memory"
	DataSourcePostgres = "postgres"

	QueueBackendMemory = "memory"
	QueueBackendRedis  = "redis"
)

// DefaultSupportedWallets lists the wallet providers offered when SUPPORTED_WALLETS is unset
var DefaultSupportedWallets = []string{
	"phantom",
	"solflare",
	"backpack",
	"glow",
	"slope",
	"exodus",
	"trust",
	"coinbase",
	"ledger",
	"okx",
}

var defaultRPCEndpoints = map[string]string{
	NetworkDevnet:  "https://api.devnet.solana.com",
	NetworkTestnet: "https://api.testnet.solana.com",
	NetworkMainnet: "https://api.mainnet-beta.solana.com",
}

var defaultExplorerURLs = map[string]string{
	NetworkDevnet:  "https://explorer.solana.com/address?cluster=devnet",
	NetworkTestnet: "https://explorer.solana.com/address?cluster=testnet",
	NetworkMainnet: "https://explorer.solana.com/address",
}

// Tokenomics holds the default supply distribution in whole percent
type Tokenomics struct {
	LiquidityPool    int
	CommunityRewards int
	TeamTokens       int
	Marketing        int
	Development      int
}

// Limits holds the accepted bounds for coin draft fields
type Limits struct {
	MinTotalSupply       int64
	MaxTotalSupply       int64
	MinNameLength        int
	MaxNameLength        int
	MinSymbolLength      int
	MaxSymbolLength      int
	MinDescriptionLength int
	MaxDescriptionLength int
}

// Gas holds the gas settings attached to deployments
type Gas struct {
	MaxGasAmount int
	GasUnitPrice int
}

// Config holds all configuration for memeforge
type Config struct {
	// Network configuration
	Network      string
	RPCEndpoints map[string][]string
	ExplorerURL  string

	// Chain interaction
	Gas                Gas
	TransactionTimeout time.Duration

	// Wallet configuration
	SupportedWallets     []string
	WalletDir            string
	AutoConnectWallet    string
	// CreateMissingWallets lets test networks generate a keyfile on first connect
	CreateMissingWallets bool

	// Coin generation
	Tokenomics    Tokenomics
	Limits        Limits
	GenerateDelay time.Duration
	DeployDelay   time.Duration

	// Data source: memory or postgres
	DataSource string

	// Database configuration
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	// Queue configuration: memory or redis
	QueueBackend string
	RedisURL     string

	// Worker configuration
	MinWorkers int
	MaxWorkers int

	// HTTP configuration
	HTTPAddr    string
	MetricsPort string

	// Logging configuration
	LogLevel string
}

// Load reads configuration from environment variables and validates it
func Load() (Config, error) {
	cfg := Config{
		Network:           strings.ToLower(getEnv("NETWORK", NetworkDevnet)),
		WalletDir:         getEnv("WALLET_DIR", "wallets"),
		AutoConnectWallet: getEnv("AUTO_CONNECT_WALLET", ""),
		DataSource:        strings.ToLower(getEnv("DATA_SOURCE", DataSourceMemory)),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBUser:            getEnv("DB_USER", ""),
		DBPassword:        getEnv("DB_PASSWORD", ""),
		DBName:            getEnv("DB_NAME", ""),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBSSLMode:         getEnv("DB_SSL_MODE", "disable"),
		QueueBackend:      strings.ToLower(getEnv("QUEUE_BACKEND", QueueBackendMemory)),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		HTTPAddr:          getEnv("HTTP_ADDR", ":8080"),
		MetricsPort:       getEnv("METRICS_PORT", "9100"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		SupportedWallets:  splitList(getEnv("SUPPORTED_WALLETS", "")),
	}
	if len(cfg.SupportedWallets) == 0 {
		cfg.SupportedWallets = append([]string(nil), DefaultSupportedWallets...)
	}

	// Parse RPC endpoints for every network
	cfg.RPCEndpoints = make(map[string][]string, len(defaultRPCEndpoints))
	for network, endpoint := range defaultRPCEndpoints {
		key := "RPC_ENDPOINTS_" + strings.ToUpper(network)
		endpoints := splitList(getEnv(key, endpoint))
		cfg.RPCEndpoints[network] = endpoints
	}
	cfg.ExplorerURL = getEnv("EXPLORER_URL", defaultExplorerURLs[cfg.Network])

	var err error
	if cfg.CreateMissingWallets, err = parseBoolEnv("CREATE_MISSING_WALLETS", false); err != nil {
		return cfg, fmt.Errorf("invalid CREATE_MISSING_WALLETS: %w", err)
	}
	if cfg.Gas.MaxGasAmount, err = parseIntEnv("MAX_GAS_AMOUNT", 20000); err != nil {
		return cfg, fmt.Errorf("invalid MAX_GAS_AMOUNT: %w", err)
	}
	if cfg.Gas.GasUnitPrice, err = parseIntEnv("GAS_UNIT_PRICE", 100); err != nil {
		return cfg, fmt.Errorf("invalid GAS_UNIT_PRICE: %w", err)
	}
	if cfg.TransactionTimeout, err = parseDurationEnv("TRANSACTION_TIMEOUT", 30*time.Second); err != nil {
		return cfg, fmt.Errorf("invalid TRANSACTION_TIMEOUT: %w", err)
	}
	if cfg.GenerateDelay, err = parseDurationEnv("GENERATE_DELAY", 2*time.Second); err != nil {
		return cfg, fmt.Errorf("invalid GENERATE_DELAY: %w", err)
	}
	if cfg.DeployDelay, err = parseDurationEnv("DEPLOY_DELAY", 3*time.Second); err != nil {
		return cfg, fmt.Errorf("invalid DEPLOY_DELAY: %w", err)
	}

	// Parse tokenomics distribution
	tokenomicsFields := []struct {
		key   string
		def   int
		field *int
	}{
		{"TOKENOMICS_LIQUIDITY_POOL", 40, &cfg.Tokenomics.LiquidityPool},
		{"TOKENOMICS_COMMUNITY_REWARDS", 25, &cfg.Tokenomics.CommunityRewards},
		{"TOKENOMICS_TEAM_TOKENS", 15, &cfg.Tokenomics.TeamTokens},
		{"TOKENOMICS_MARKETING", 10, &cfg.Tokenomics.Marketing},
		{"TOKENOMICS_DEVELOPMENT", 10, &cfg.Tokenomics.Development},
	}
	for _, f := range tokenomicsFields {
		if *f.field, err = parseIntEnv(f.key, f.def); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", f.key, err)
		}
	}

	cfg.Limits = DefaultLimits()
	if cfg.Limits.MaxTotalSupply, err = parseInt64Env("MAX_TOTAL_SUPPLY", cfg.Limits.MaxTotalSupply); err != nil {
		return cfg, fmt.Errorf("invalid MAX_TOTAL_SUPPLY: %w", err)
	}
	if cfg.Limits.MinTotalSupply, err = parseInt64Env("MIN_TOTAL_SUPPLY", cfg.Limits.MinTotalSupply); err != nil {
		return cfg, fmt.Errorf("invalid MIN_TOTAL_SUPPLY: %w", err)
	}

	// Parse worker configuration
	cfg.MinWorkers, err = parseIntEnv("MIN_WORKERS", 1)
	if err != nil {
		return cfg, fmt.Errorf("invalid MIN_WORKERS: %w", err)
	}

	cfg.MaxWorkers, err = parseIntEnv("MAX_WORKERS", 4)
	if err != nil {
		return cfg, fmt.Errorf("invalid MAX_WORKERS: %w", err)
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// DefaultLimits returns the draft field bounds used by the generator form
func DefaultLimits() Limits {
	return Limits{
		MinTotalSupply:       1000,
		MaxTotalSupply:       1_000_000_000_000,
		MinNameLength:        1,
		MaxNameLength:        50,
		MinSymbolLength:      1,
		MaxSymbolLength:      10,
		MinDescriptionLength: 1,
		MaxDescriptionLength: 500,
	}
}

// RPCEndpointsForNetwork returns the RPC endpoints of the active network
func (c Config) RPCEndpointsForNetwork() []string {
	return c.RPCEndpoints[c.Network]
}

// IsTestnet reports whether the active network is a test network
func (c Config) IsTestnet() bool {
	return c.Network == NetworkDevnet || c.Network == NetworkTestnet
}

// PostgresDSN builds the gorm postgres DSN from the DB settings
func (c Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode,
	)
}

// validate checks that the configuration is valid
func (c Config) validate() error {
	switch c.Network {
	case NetworkDevnet, NetworkTestnet, NetworkMainnet:
	default:
		return fmt.Errorf("invalid NETWORK: %s (must be one of: devnet, testnet, mainnet)", c.Network)
	}

	if len(c.RPCEndpointsForNetwork()) == 0 {
		return fmt.Errorf("at least one RPC endpoint is required for network %s", c.Network)
	}

	if len(c.SupportedWallets) == 0 {
		return fmt.Errorf("SUPPORTED_WALLETS must not be empty")
	}

	if c.AutoConnectWallet != "" && !c.SupportsWallet(c.AutoConnectWallet) {
		return fmt.Errorf("AUTO_CONNECT_WALLET %q is not a supported wallet", c.AutoConnectWallet)
	}

	if c.CreateMissingWallets && !c.IsTestnet() {
		return fmt.Errorf("CREATE_MISSING_WALLETS is only allowed on devnet and testnet")
	}

	t := c.Tokenomics
	for _, pct := range []int{t.LiquidityPool, t.CommunityRewards, t.TeamTokens, t.Marketing, t.Development} {
		if pct < 0 {
			return fmt.Errorf("tokenomics percentages must not be negative")
		}
	}
	if sum := t.LiquidityPool + t.CommunityRewards + t.TeamTokens + t.Marketing + t.Development; sum != 100 {
		return fmt.Errorf("tokenomics percentages must sum to 100, got %d", sum)
	}

	if c.Limits.MinTotalSupply < 1 {
		return fmt.Errorf("MIN_TOTAL_SUPPLY must be at least 1")
	}
	if c.Limits.MaxTotalSupply < c.Limits.MinTotalSupply {
		return fmt.Errorf("MAX_TOTAL_SUPPLY must be greater than or equal to MIN_TOTAL_SUPPLY")
	}

	if c.GenerateDelay < 0 || c.DeployDelay < 0 {
		return fmt.Errorf("GENERATE_DELAY and DEPLOY_DELAY must not be negative")
	}

	switch c.DataSource {
	case DataSourceMemory:
	case DataSourcePostgres:
		if c.DBName == "" {
			return fmt.Errorf("DB_NAME is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("invalid DATA_SOURCE: %s (must be one of: memory, postgres)", c.DataSource)
	}

	switch c.QueueBackend {
	case QueueBackendMemory:
	case QueueBackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when QUEUE_BACKEND=redis")
		}
	default:
		return fmt.Errorf("invalid QUEUE_BACKEND: %s (must be one of: memory, redis)", c.QueueBackend)
	}

	if c.MinWorkers < 1 {
		return fmt.Errorf("MIN_WORKERS must be at least 1")
	}

	if c.MaxWorkers < c.MinWorkers {
		return fmt.Errorf("MAX_WORKERS must be greater than or equal to MIN_WORKERS")
	}

	validLogLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
		"fatal": true,
		"panic": true,
	}

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid LOG_LEVEL: %s (must be one of: trace, debug, info, warn, error, fatal, panic)", c.LogLevel)
	}

	return nil
}

// SupportsWallet reports whether name is one of the configured wallet providers
func (c Config) SupportsWallet(name string) bool {
	for _, w := range c.SupportedWallets {
		if strings.EqualFold(w, name) {
			return true
		}
	}
	return false
}

// getEnv retrieves an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv parses an integer environment variable with a default value
func parseIntEnv(key string, defaultValue int) (int, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(str)
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(str)
}

func parseInt64Env(key string, defaultValue int64) (int64, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return strconv.ParseInt(str, 10, 64)
}

// parseDurationEnv parses a Go duration string such as "2s" or "500ms"
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	str := os.Getenv(key)
	if str == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(str)
}

// splitList splits a comma-separated value and drops empty entries
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
