package sqlitekv

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/kv"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(ctx, "SavedTransactions_"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, "SavedTransactions_", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "SavedTransactions_", []byte("v2")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, "SavedTransactions_")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, want v2", got)
	}

	if err := s.Put(ctx, "SavedTransactions_bob", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "Other_bob", []byte("[]")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	keys, err := s.Keys(ctx, "SavedTransactions_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, want 2 keys", keys)
	}

	if err := s.Delete(ctx, "SavedTransactions_"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "SavedTransactions_"); !errors.Is(err, kv.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestKeysWithNonASCIIPrefix(t *testing.T) {
	ctx := context.Background()
	s, err := Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	for _, k := range []string{"Überweisung_bob", "Überweisung_alice", "Ueberweisung_carol", "SavedTransactions_bob"} {
		if err := s.Put(ctx, k, []byte("[]")); err != nil {
			t.Fatalf("Put %q: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx, "Überweisung_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	want := []string{"Überweisung_alice", "Überweisung_bob"}
	if len(keys) != len(want) {
		t.Fatalf("Keys() = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys()[%d] = %q, want %q", i, keys[i], want[i])
		}
	}

	all, err := s.Keys(ctx, "")
	if err != nil {
		t.Fatalf("Keys(\"\"): %v", err)
	}
	if len(all) != 4 {
		t.Errorf("Keys(\"\") = %v, want 4 keys", all)
	}
}
