package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/AarjavPatni/orderbook-proxy-api-server/internal/app/ingest"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/config"
	"github.com/AarjavPatni/orderbook-proxy-api-server/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	fillIngest, err := ingest.InitFillIngest(ctx, *cfg, appLogger)
	if err != nil {
		appLogger.Error(err, logger.Field{Key: "action", Value: "init_fill_ingest"})
		os.Exit(1)
	}
	defer fillIngest.Close()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	wg := sync.WaitGroup{}
	wg.Add(2)
	go func() {
		defer wg.Done()
		fillIngest.Consumer.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		fillIngest.Consumer.Subscribe(ctx)
	}()

	<-quit

	appLogger.Info("shutting down fill ingest")
	cancel()
	fillIngest.Consumer.Stop()

	appLogger.Info("fill ingest stopped")
}
