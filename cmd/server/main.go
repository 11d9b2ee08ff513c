/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the staff ledger server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, then environment)
  2. Apply command-line overrides
  3. Build the zap logger
  4. Open the SQLite store
  5. Wire facade, directory, and ledgers (ledgers notify the facade)
  6. Start the alert scanner
  7. Configure HTTP router and start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides HTTP_PORT)
  -db      SQLite database path (overrides DB_PATH)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Stop the alert scanner
  4. Close database connection

EXAMPLES:
  ./server -db="./data/staff.db"
  ./server -db=":memory:" -port=3000
  APP_TIMEZONE=America/Sao_Paulo LOG_ENCODING=console ./server

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
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

	"go.uber.org/zap"

	"github.com/warp/staff-ledger/absence"
	"github.com/warp/staff-ledger/api"
	"github.com/warp/staff-ledger/config"
	"github.com/warp/staff-ledger/entitlement"
	"github.com/warp/staff-ledger/generic"
	"github.com/warp/staff-ledger/logger"
	"github.com/warp/staff-ledger/staff"
	"github.com/warp/staff-ledger/store/sqlite"
	"github.com/warp/staff-ledger/swap"
	"github.com/warp/staff-ledger/vacation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags
	port := flag.String("port", cfg.HTTP.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()
	cfg.HTTP.Port = *port
	cfg.Database.Path = *dbPath

	zl, err := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		// os.Exit skips deferred calls, so flush first.
		zl.Error("server exited with error", zap.Error(err))
		_ = zl.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	clock := generic.ClockIn(loc)

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()
	store.WithLocation(loc).WithClock(clock)

	// Domain wiring: every ledger reports mutations to the facade.
	service := staff.NewService(store, zl)
	service.Generator = entitlement.Generator{UrgencyWindowDays: cfg.Alerts.UrgencyWindowDays}
	service.Clock = clock

	directory := staff.NewDirectory(store, service, zl)
	directory.Location = loc
	vacations := vacation.NewLedger(store, service, zl)
	vacations.Location = loc
	absences := absence.NewLedger(store, service, zl)
	absences.Location = loc
	swaps := swap.NewLedger(store, service, zl)
	swaps.Location = loc
	swaps.Clock = clock

	handler := api.NewHandler(directory, service, vacations, absences, swaps, zl)
	handler.Location = loc

	scanner := api.NewAlertScanner(service, zl)
	scanner.Enabled = cfg.Alerts.ScanEnabled
	scanner.CheckInterval = cfg.Alerts.ScanInterval
	if scanner.Enabled {
		handler.Scanner = scanner
	}
	scanner.Start()
	defer scanner.Stop()

	router := api.NewRouter(handler, api.RouterOptions{CORSOrigins: cfg.HTTP.CORSOrigins, Logger: zl})

	server := &http.Server{
		Addr:         cfg.Address(),
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  2 * cfg.HTTP.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", server.Addr),
			zap.String("db", cfg.Database.Path),
			zap.String("timezone", loc.String()),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	zl.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return err
	}

	zl.Info("server stopped")
	return nil
}
