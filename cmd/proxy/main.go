package main

import (
	"context"
	"log"
	"os"

	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/app/cli"
	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/bootstrap"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/config"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	b := &bootstrap.Bootstrap{}
	if err := b.Init(ctx, bootstrap.BootstrapConfig{Config: cfg, Logger: appLogger}); err != nil {
		appLogger.Error(err, logger.Field{Key: "action", Value: "bootstrap"})
		os.Exit(1)
	}
	defer b.Close()

	appLogger.Info("orderbook proxy started",
		logger.Field{Key: "app", Value: cfg.App.Name},
		logger.Field{Key: "environment", Value: cfg.App.Environment},
		logger.Field{Key: "source_driver", Value: cfg.Source.Driver},
		logger.Field{Key: "cache_capacity", Value: cfg.Cache.Capacity},
	)

	// Results go to stdout, logs to stderr.
	runner := cli.NewRunner(b.Engine, b.Cache, appLogger, os.Stdin, os.Stdout)
	if err := runner.Run(ctx); err != nil {
		appLogger.Error(err, logger.Field{Key: "action", Value: "query_processing"})
		os.Exit(1)
	}
}
