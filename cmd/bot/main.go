package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"socrates/engine"
	"socrates/internal"
	"socrates/matching"
	"socrates/messenger"
	"socrates/moderation"
	"socrates/observability"
	"socrates/repositories"
	"socrates/runtime"
	"socrates/runtime/workers"
	"socrates/store"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Bot terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so every defer executes before exit.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, fmt.Errorf("config validation: %w", err)
	}

	mask, err := internal.MaskRune(config.CensorMask)
	if err != nil {
		return exitConfig, err
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Relay journal (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
	if err != nil {
		return exitRuntime, fmt.Errorf("journal database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	journal := repositories.NewRelayJournal(db, logger)

	// 3. Core wiring: store, matchmaker, sessions, scheduler, engine
	moderator, err := moderation.NewModerator(moderation.DefaultWords(), mask)
	if err != nil {
		return exitRuntime, fmt.Errorf("moderator build failed: %w", err)
	}

	participants := store.NewParticipantStore()
	matchmaker := matching.NewMatchmaker(participants)
	notifier := messenger.NewGraphClient(logger, config.GraphBaseURL, config.PageAccessToken)
	sessions := matching.NewSessionManager(logger, participants, matchmaker, notifier, journal, moderator)
	scheduler := matching.NewTimeoutScheduler(logger, participants)
	defer scheduler.Stop()

	stats := observability.NewEngineStats()
	conv := engine.New(logger, participants, sessions, scheduler, notifier, stats,
		config.NoMatchTimeout, config.SessionTTL)

	sup := workers.NewSupervisor(logger)
	orchestrator := runtime.NewOrchestrator(logger, sup, conv, stats,
		config.NumberOfWorkers, config.BufferSize, config.HeartbeatInterval)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 2)

	// 5. Start the engine workers
	go func() {
		logger.Info("Starting orchestrator...")
		if err := orchestrator.Start(ctx); err != nil {
			errChan <- fmt.Errorf("orchestrator error: %w", err)
		}
	}()

	// 6. Webhook server
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	messenger.NewWebhook(logger, config.VerifyToken, orchestrator).Register(router)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: router,
	}
	go func() {
		logger.Info("Webhook is listening", "port", config.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("webhook server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	logger.Info("Shutting down gracefully...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	orchestrator.Stop()
	logger.Info("Program stopped cleanly")

	return exitOK, nil
}
