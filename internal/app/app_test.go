package app

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/config"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
)

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.User = "alice"
	cfg.Location = time.UTC
	cfg.Storage.Backend = backend
	cfg.Storage.BoltPath = filepath.Join(t.TempDir(), "ledger.db")
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "ledger.sqlite")
	return cfg
}

func TestNewPersistsAcrossSessions(t *testing.T) {
	for _, backend := range []string{config.BackendBolt, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)
			log := zerolog.New(io.Discard)

			first, err := New(ctx, cfg, log)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			tx := domain.NewTransaction(time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), time.UTC, 42, domain.KindIncome, domain.CategoryOther, "gift")
			if _, err := first.Ledger.Commit(ctx, tx); err != nil {
				t.Fatalf("Commit() error = %v", err)
			}
			if err := first.Close(ctx); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			second, err := New(ctx, cfg, log)
			if err != nil {
				t.Fatalf("New() reopen error = %v", err)
			}
			defer second.Close(ctx)

			if got, ok := second.Ledger.Get(tx.ID); !ok || got.Description != "gift" {
				t.Errorf("reloaded record = %+v, %v", got, ok)
			}
			keys, err := second.Namespaces(ctx)
			if err != nil {
				t.Fatalf("Namespaces() error = %v", err)
			}
			if len(keys) != 1 || keys[0] != "SavedTransactions_alice" {
				t.Errorf("Namespaces() = %v", keys)
			}
		})
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t, config.BackendGCS)
	if _, err := New(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Error("New() with gcs and no bucket should fail")
	}

	cfg = testConfig(t, config.BackendMemory)
	cfg.Materialize.Mode = "weekly"
	if _, err := New(context.Background(), cfg, zerolog.New(io.Discard)); err == nil {
		t.Error("New() with unknown materialize mode should fail")
	}
}

func TestSchedulerTickNowPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t, config.BackendMemory)
	session, err := New(ctx, cfg, zerolog.New(io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer session.Close(ctx)

	if _, ok := session.Ledger.PersistenceStatus(ctx); ok {
		t.Error("PersistenceStatus() reported a write before any mutation")
	}

	start := domain.StartOfDay(time.Now(), time.UTC).AddDate(0, 0, -3)
	rent := domain.NewTransaction(start, time.UTC, 10, domain.KindExpense, domain.CategoryFood, "coffee").WithRecurrence(1, nil)
	if _, err := session.Ledger.Commit(ctx, rent); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	created, err := session.Scheduler.TickNow(ctx)
	if err != nil {
		t.Fatalf("TickNow() error = %v", err)
	}
	if len(created) != 3 {
		t.Errorf("TickNow() created %d records, want 3", len(created))
	}
	if err := session.Ledger.Flush(ctx); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	job, ok := session.Ledger.PersistenceStatus(ctx)
	if !ok {
		t.Fatal("PersistenceStatus() found no job after a tick")
	}
	if job.Status != jobs.JobStatusCompleted || job.Type != jobs.JobTypeSaveSnapshot {
		t.Errorf("latest job = %s %s, want completed save_snapshot", job.Type, job.Status)
	}
}

func TestSessionLoggerCarriesBackendAndMode(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	session, err := New(ctx, testConfig(t, config.BackendMemory), zerolog.New(&buf))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer session.Close(ctx)

	l := logger.FromContext(logger.WithContext(ctx, session.Log))
	l.Info().Msg("hello")
	out := buf.String()
	for _, want := range []string{`"backend":"memory"`, `"mode":"interval"`, `"message":"hello"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %s", out, want)
		}
	}
}
