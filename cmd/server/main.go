package main

import (
	"context"
	"event-lab/api"
	"event-lab/auth"
	"event-lab/cache"
	"event-lab/contract"
	"event-lab/internal"
	"event-lab/repositories"
	"event-lab/services"
	"event-lab/sink"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// This pattern is preferred over calling os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.LoggerFromLevel(config.LogLevel)

	// 2. Storage: in-memory by default, badger when a filepath is set
	store := cache.NewMemoryCache()
	sinks := []contract.NotificationSink{sink.NewLogNotifier(log)}

	var repository repositories.IEventRepository
	if config.BadgerFilepath != nil {
		db, err := badger.Open(badger.DefaultOptions(*config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return fmt.Errorf("database opening failed: %w", err)
		}
		// Defer will be executed before run() returns anything to main()
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repository = repositories.NewBadgerEventRepository(db, log)
		sinks = append(sinks, sink.NewAuditSink(db, log))
	} else {
		repository = repositories.NewEventRepository(log)
	}

	// 3. Services & transport
	eventService := services.NewEventService(repository, store, log, sinks...)
	summaryService := services.NewSummaryService(store, log,
		config.SummaryCacheTTL, config.SummaryMinDelay, config.SummaryMaxDelay)
	verifier := auth.NewVerifier(config.JWTSecret, config.AdminToken)
	server := api.NewServer(log, eventService, summaryService, verifier)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: server.Handler(),
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	// Use an error channel to capture ListenAndServe issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
