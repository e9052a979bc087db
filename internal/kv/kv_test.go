package kv

import (
	"context"
	"errors"
	"testing"
)

func TestKey(t *testing.T) {
	if got := Key("SavedTransactions_", "ann@example.com"); got != "SavedTransactions_ann@example.com" {
		t.Errorf("Key() = %q", got)
	}
	if got := Key("SavedTransactions_", ""); got != "SavedTransactions_" {
		t.Errorf("Key() with empty user = %q", got)
	}
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	value := []byte("v1")
	if err := m.Put(ctx, "k", value); err != nil {
		t.Fatalf("Put: %v", err)
	}
	value[0] = 'x'

	got, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v1" {
		t.Errorf("Get() = %q, want v1 (value must be copied on Put)", got)
	}

	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete of missing key: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	for _, k := range []string{"SavedTransactions_b", "other", "SavedTransactions_a"} {
		if err := m.Put(ctx, k, []byte("[]")); err != nil {
			t.Fatalf("Put(%q): %v", k, err)
		}
	}

	keys, err := m.Keys(ctx, "SavedTransactions_")
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "SavedTransactions_a" || keys[1] != "SavedTransactions_b" {
		t.Errorf("Keys() = %v", keys)
	}
}
