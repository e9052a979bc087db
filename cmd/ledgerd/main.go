package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/app"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/config"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
)

func main() {
	envFile := flag.String("config", "", "env file to load (default is .env)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log, err := logger.NewWithLevel(cfg.LogLevel)
	if err != nil {
		l := logger.New()
		l.Fatal().Err(err).Msg("Invalid log level")
	}

	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	session, err := app.New(ctx, cfg, logger.FromContext(ctx))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open ledger")
	}

	log = session.Log
	log.Info().
		Str("user_key", session.Ledger.Key()).
		Str("timezone", cfg.Location.String()).
		Msg("Starting ledger daemon")

	done := make(chan error, 1)
	go func() { done <- session.Scheduler.Run(ctx) }()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down ledger daemon...")

	// Cancel context to stop the scheduler
	cancel()
	if err := <-done; err != nil {
		log.Error().Err(err).Msg("Scheduler exited with error")
	}

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Drain pending snapshot writes before the backend closes
	if err := session.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during graceful shutdown")
	}

	log.Info().Msg("Ledger daemon exited")
}
