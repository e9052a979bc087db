package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSnapshotRoundTrip(t *testing.T) {
	loc := time.UTC
	notes := "monthly rent"
	end := time.Date(2026, 6, 1, 0, 0, 0, 0, loc)
	series := uuid.New()

	rent := NewTransaction(time.Date(2026, 1, 1, 15, 30, 0, 0, loc), loc, 1200, KindExpense, CategoryHousing, "Rent").
		WithRecurrence(30, &end)
	rent.Notes = &notes
	salary := NewTransaction(time.Date(2026, 1, 3, 0, 0, 0, 0, loc), loc, 3000, KindIncome, CategorySalary, "Salary")
	copyOf := NewTransaction(time.Date(2026, 1, 31, 0, 0, 0, 0, loc), loc, 1200, KindExpense, CategoryHousing, "Rent").
		WithRecurrence(30, &end)
	copyOf.SeriesID = &series

	in := []Transaction{rent, salary, copyOf}
	data, err := EncodeSnapshot(in)
	if err != nil {
		t.Fatalf("EncodeSnapshot: %v", err)
	}
	if !strings.Contains(string(data), `"date":"2026-01-01"`) {
		t.Errorf("expected calendar-day date in snapshot, got %s", data)
	}

	out, err := DecodeSnapshot(data, loc)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("got %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if !in[i].Equal(out[i]) {
			t.Errorf("record %d mismatch:\n in: %+v\nout: %+v", i, in[i], out[i])
		}
	}
}

func TestDecodeSnapshotAcceptsLegacyTimestampsAndType(t *testing.T) {
	loc := time.UTC
	data := []byte(`[{"id":"8E5B2F0C-3F55-4D1A-9A57-3A2C1F0E9B11","date":"2025-04-19T13:45:00Z","amount":12.5,"type":"expense","category":"food","description":"lunch","isRecurring":false}]`)

	out, err := DecodeSnapshot(data, loc)
	if err != nil {
		t.Fatalf("DecodeSnapshot: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	if out[0].Kind != KindExpense {
		t.Errorf("Kind = %q, want expense", out[0].Kind)
	}
	want := time.Date(2025, 4, 19, 0, 0, 0, 0, loc)
	if !out[0].Date.Equal(want) {
		t.Errorf("Date = %v, want %v", out[0].Date, want)
	}
}

func TestDecodeSnapshotRejectsCorruptData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "{{{"},
		{"bad date", `[{"id":"8e5b2f0c-3f55-4d1a-9a57-3a2c1f0e9b11","date":"yesterday","amount":1,"kind":"income","category":"salary","description":"x","isRecurring":false}]`},
		{"bad kind", `[{"id":"8e5b2f0c-3f55-4d1a-9a57-3a2c1f0e9b11","date":"2026-01-01","amount":1,"kind":"transfer","category":"salary","description":"x","isRecurring":false}]`},
		{"bad category", `[{"id":"8e5b2f0c-3f55-4d1a-9a57-3a2c1f0e9b11","date":"2026-01-01","amount":1,"kind":"income","category":"gifts","description":"x","isRecurring":false}]`},
		{"amount out of float range", `[{"id":"8e5b2f0c-3f55-4d1a-9a57-3a2c1f0e9b11","date":"2026-01-01","amount":1e999,"kind":"income","category":"salary","description":"x","isRecurring":false}]`},
		{"huge interval", `[{"id":"8e5b2f0c-3f55-4d1a-9a57-3a2c1f0e9b11","date":"2026-01-01","amount":1,"kind":"expense","category":"housing","description":"x","isRecurring":true,"recurrenceInterval":4611686018427387904}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeSnapshot([]byte(tt.data), time.UTC); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
