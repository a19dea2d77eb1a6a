package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/wnt/memeforge/internal/catalog"
	"github.com/wnt/memeforge/internal/config"
	"github.com/wnt/memeforge/internal/database"
	"github.com/wnt/memeforge/internal/generator"
	"github.com/wnt/memeforge/internal/logger"
	"github.com/wnt/memeforge/internal/queue"
	"github.com/wnt/memeforge/internal/rpc"
	"github.com/wnt/memeforge/internal/server"
	"github.com/wnt/memeforge/internal/solana"
	"github.com/wnt/memeforge/internal/wallet"
	"github.com/wnt/memeforge/internal/wallet/keypair"
	"github.com/wnt/memeforge/internal/worker"
)

func main() {
	// Parse command-line arguments
	envFile := flag.String("envFile", ".env", "Path to .env file")
	flag.Parse()

	// Load environment variables from the specified file
	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("No .env file found at %s, using environment variables", *envFile)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	baseLogger := logger.New(cfg.LogLevel)
	if err := run(cfg, baseLogger); err != nil {
		baseLogger.Fatal().Err(err).Msg("memeforge stopped with error")
	}
}

func run(cfg config.Config, baseLogger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	baseLogger.Info().
		Str("network", cfg.Network).
		Str("data_source", cfg.DataSource).
		Str("queue_backend", cfg.QueueBackend).
		Msg("Starting memeforge")

	pool, err := rpc.NewPool(cfg.RPCEndpointsForNetwork(), baseLogger)
	if err != nil {
		return err
	}
	client := solana.NewClient(pool, cfg.TransactionTimeout, baseLogger)

	adapterOpts := []keypair.Option{keypair.WithBalanceChecker(client)}
	if cfg.CreateMissingWallets {
		adapterOpts = append(adapterOpts, keypair.WithCreateMissing())
	}
	adapter := keypair.New(cfg.WalletDir, cfg.SupportedWallets, baseLogger, adapterOpts...)
	facade := wallet.NewFacade(adapter, baseLogger)
	facade.AutoConnect(ctx, cfg.AutoConnectWallet)

	source, closeSource, err := newSource(cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	// Give the auto-connected demo account a populated dashboard
	if session := facade.Session(); session.Connected() && cfg.DataSource == config.DataSourceMemory {
		if err := catalog.SeedDashboard(ctx, source, session.Account.Address); err != nil {
			return err
		}
	}

	q, err := newQueue(cfg, baseLogger)
	if err != nil {
		return err
	}
	defer q.Close()

	gen, err := generator.NewService(cfg, source, q, generator.NewSimulator(cfg, baseLogger), baseLogger,
		generator.WithThrottle(5, 10))
	if err != nil {
		return err
	}

	manager := worker.NewManager(worker.NewConfig(cfg), q, gen, baseLogger)
	if err := manager.Start(ctx); err != nil {
		return err
	}
	defer manager.Stop()

	go serveMetrics(cfg.MetricsPort, baseLogger)

	return server.New(cfg, facade, source, gen, manager, baseLogger).ListenAndServe(ctx)
}

// newSource picks the coin store. The memory source starts with the community fixtures.
func newSource(cfg config.Config) (catalog.Source, func(), error) {
	if cfg.DataSource != config.DataSourcePostgres {
		return catalog.NewFixtureSource(), func() {}, nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	return database.NewCoinStore(db), func() { _ = database.Close(db) }, nil
}

func newQueue(cfg config.Config, baseLogger zerolog.Logger) (queue.Queue, error) {
	if cfg.QueueBackend != config.QueueBackendRedis {
		return queue.NewMemoryQueue(), nil
	}
	return queue.NewRedisQueue(cfg.RedisURL, baseLogger)
}

func serveMetrics(port string, baseLogger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	baseLogger.Info().Str("port", port).Msg("Metrics server listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		baseLogger.Error().Err(err).Msg("Metrics server failed")
	}
}
