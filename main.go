package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"posimarket/cmd"
	"posimarket/config"
	"posimarket/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(&cfg.Log, cfg.App.Env); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	app, err := cmd.NewBuilder(cfg).Build(context.Background())
	if err != nil {
		logger.Fatal("Failed to build application", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		logger.Fatal("Application stopped with error", zap.Error(err))
	}
}
