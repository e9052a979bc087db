package domain

import (
	"errors"
	"testing"
	"time"
)

func TestNewTransactionNormalizesDate(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	tx := NewTransaction(time.Date(2026, 3, 10, 23, 59, 0, 0, loc), loc, 10, KindExpense, CategoryFood, "dinner")

	want := time.Date(2026, 3, 10, 0, 0, 0, 0, loc)
	if !tx.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", tx.Date, want)
	}
	if tx.IsRecurring || tx.IsAnchor() {
		t.Error("expected a one-time transaction")
	}
}

func TestParseKindAndCategory(t *testing.T) {
	if k, err := ParseKind(" Income "); err != nil || k != KindIncome {
		t.Errorf("ParseKind = %q, %v", k, err)
	}
	if _, err := ParseKind("refund"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
	if c, err := ParseCategory("HealthCare"); err != nil || c != CategoryHealthcare {
		t.Errorf("ParseCategory = %q, %v", c, err)
	}
	if _, err := ParseCategory("pets"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
	if len(Categories) != 10 {
		t.Errorf("expected 10 categories, got %d", len(Categories))
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	start := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	got := AddDays(start, 2)
	want := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("AddDays = %v, want %v", got, want)
	}
}

func TestSignedAmountAndClone(t *testing.T) {
	end := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tx := NewTransaction(end, time.UTC, 40, KindExpense, CategoryUtilities, "power").WithRecurrence(30, &end)
	if tx.SignedAmount() != -40 {
		t.Errorf("SignedAmount = %v, want -40", tx.SignedAmount())
	}

	c := tx.Clone()
	*c.RecurrenceInterval = 7
	if tx.Interval() != 30 {
		t.Error("Clone shares the interval pointer")
	}
}

func TestWarningMessages(t *testing.T) {
	tests := []struct {
		w    Warning
		want string
	}{
		{Warning{Kind: WarningFutureDated}, "This transaction is dated in the future"},
		{Warning{Kind: WarningUnusuallyLarge, Amount: 6000}, "This is an unusually large transaction (6000.00)"},
		{Warning{Kind: WarningDuplicate}, "This appears to be a duplicate transaction"},
	}
	for _, tt := range tests {
		if got := tt.w.Message(); got != tt.want {
			t.Errorf("Message() = %q, want %q", got, tt.want)
		}
	}
}
