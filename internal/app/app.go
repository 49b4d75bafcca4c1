// Package app assembles the ingestion daemon: storage backend,
// scheduled ingestion, optional run journal, and the status server,
// with a single graceful-shutdown path.
package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/skewt/avwxingest/internal/controllers/statusserver"
	"github.com/skewt/avwxingest/internal/journal"
	"github.com/skewt/avwxingest/internal/log"
	"github.com/skewt/avwxingest/internal/managers"
	"github.com/skewt/avwxingest/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	version        string
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, version string, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		version:        version,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize the storage manager
	storageManager, err := managers.NewStorageManager(ctx, &cfg.Storage, a.logger)
	if err != nil {
		return err
	}
	defer storageManager.Close()

	// Initialize the ingestion manager
	ingestManager, err := managers.NewIngestManager(&cfg.Ingest, storageManager.Store, a.logger)
	if err != nil {
		return err
	}

	// Attach the run journal when one is configured. A configured
	// journal that cannot be reached at startup is a fatal
	// misconfiguration; once running, journal errors only log.
	var runJournal *journal.Journal
	if connString := cfg.Journal.GetConnectionString(); connString != "" {
		runJournal, err = journal.New(connString, a.logger)
		if err != nil {
			return err
		}
		defer runJournal.Close()
		ingestManager.SetJournal(runJournal)
	}

	if err := ingestManager.StartScheduledIngestion(); err != nil {
		return err
	}

	// Start the status server when configured
	if cfg.Status != nil {
		statusController, err := statusserver.NewController(ctx, &wg, *cfg.Status,
			statusserver.Deps{
				Orchestrators: ingestManager.Orchestrators(),
				Uploader:      ingestManager.Uploader(),
				Journal:       runJournal,
				Version:       a.version,
			}, a.logger)
		if err != nil {
			return err
		}
		if err := statusController.StartController(); err != nil {
			return err
		}
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Drain in-flight ingestion before cancelling the shared context so
	// the status server stays up while workers finish.
	ingestManager.Shutdown()

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
