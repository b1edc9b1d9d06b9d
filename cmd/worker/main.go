// Command worker relays outbox events and sweeps expired reservations for
// deployments backed by MySQL.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	cartapp "posimarket/application/cart"
	"posimarket/cmd"
	"posimarket/config"
	"posimarket/domain/shared"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Printf("Worker startup failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := parseConfigPath()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Worker.Enabled {
		logger.Info("Outbox worker is disabled by config; exiting")
		return nil
	}
	if !cfg.UsesMySQL() {
		logger.Info("In-memory store selected; the API process runs the worker itself")
		return nil
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	infra, err := cmd.OpenInfrastructure(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer infra.Close()

	worker, closeWorker, err := cmd.NewOutboxWorker(cfg, infra.Outbox)
	if err != nil {
		return fmt.Errorf("failed to create outbox worker: %w", err)
	}
	defer closeWorker()

	carts := cartapp.NewApplicationService(infra.UnitOfWork, infra.CartLines, infra.Products, infra.Users,
		shared.SystemClock{}, cfg.Reservation.TTL)
	go cmd.RunSweeper(ctx, carts, cfg.Worker.SweepInterval)

	logger.Info("Outbox worker started",
		zap.Duration("poll_interval", cfg.Worker.PollInterval),
		zap.Int("batch_size", cfg.Worker.BatchSize),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("sweep_interval", cfg.Worker.SweepInterval),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("outbox worker exited with error: %w", err)
	}

	logger.Info("Outbox worker stopped")
	return nil
}

func parseConfigPath() string {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()
	return configPath
}
