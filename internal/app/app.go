// Package app wires configuration into a ready ledger session shared by
// the command-line tools.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/config"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv/boltkv"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv/gcskv"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv/sqlitekv"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/ledger"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/materializer"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/report"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/validate"
)

// App is one user's open ledger with its readers and writers.
type App struct {
	Config       *config.Config
	Log          zerolog.Logger
	KV           kv.Store
	Ledger       *ledger.Store
	Validator    *validate.Validator
	Aggregator   *report.Aggregator
	Materializer *materializer.Materializer
	Scheduler    *materializer.Scheduler
}

// OpenStore opens the key-value backend selected by cfg.
func OpenStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), nil
	case config.BackendBolt:
		return boltkv.Open(cfg.Storage.BoltPath)
	case config.BackendSQLite:
		return sqlitekv.Open(cfg.Storage.SQLitePath)
	case config.BackendGCS:
		return gcskv.New(ctx, cfg.Storage.GCSBucket, cfg.Storage.GCSFolder, cfg.Storage.GCSCredentials)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// New validates cfg, opens the backend and loads the configured user's ledger.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}
	mode, err := materializer.ParseMode(cfg.Materialize.Mode)
	if err != nil {
		return nil, fmt.Errorf("app.New: %w", err)
	}

	log = logger.WithFields(log, map[string]interface{}{
		"backend": cfg.Storage.Backend,
		"mode":    string(mode),
	})

	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("app.New: open %s backend: %w", cfg.Storage.Backend, err)
	}

	l, err := ledger.Open(ctx, store, cfg.User, ledger.Options{
		KeyPrefix:   cfg.KeyPrefix,
		Location:    cfg.Location,
		Logger:      log,
		SaveRetries: cfg.Storage.SaveRetries,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("app.New: %w", err)
	}

	validator := validate.New(validate.Config{
		LargeAmount:     cfg.Validation.LargeAmount,
		DuplicateWindow: cfg.Validation.DuplicateWindow,
	}, cfg.Location, nil)

	mat := materializer.New(l, mode, cfg.Location, log)

	return &App{
		Config:       cfg,
		Log:          log,
		KV:           store,
		Ledger:       l,
		Validator:    validator,
		Aggregator:   report.NewAggregator(l, cfg.Location, nil),
		Materializer: mat,
		Scheduler:    materializer.NewScheduler(mat, cfg.Location, log),
	}, nil
}

// Namespaces lists the ledger keys present in the backend, when it can list.
func (a *App) Namespaces(ctx context.Context) ([]string, error) {
	lister, ok := a.KV.(kv.Lister)
	if !ok {
		return nil, fmt.Errorf("%s backend cannot list keys", a.Config.Storage.Backend)
	}
	return lister.Keys(ctx, a.Config.KeyPrefix)
}

// Close drains pending snapshot writes and closes the backend.
func (a *App) Close(ctx context.Context) error {
	return errors.Join(a.Ledger.Close(ctx), a.KV.Close())
}
