package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Checker-Finance/maturity-client/internal/config"
	"github.com/Checker-Finance/maturity-client/internal/mockapi"
	"github.com/Checker-Finance/maturity-client/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// --- Load configuration ---
	cfg := config.Load()

	logger.Init("mock-api", cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [mock-api]...")

	// --- In-memory backend ---
	store := mockapi.NewStore()
	app := mockapi.NewApp(mockapi.NewHandler(logger.L(), store))

	go func() {
		logg.Infof("HTTP API listening on :%d (demo login %s / %s)", cfg.MockAPIPort, mockapi.DemoEmail, mockapi.DemoPassword)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.MockAPIPort)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	<-ctx.Done()
	stop()
	logg.Info("shutting down [mock-api]...")
	if err := app.Shutdown(); err != nil {
		logg.Warnw("fiber.shutdown_failed", "error", err)
	}
}
