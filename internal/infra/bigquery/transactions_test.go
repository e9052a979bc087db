package bigquery

import (
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

func TestNewTransactionRow(t *testing.T) {
	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)
	notes := "landlord"
	rent := domain.NewTransaction(jan1, time.UTC, 950.25, domain.KindExpense, domain.CategoryHousing, "rent").WithRecurrence(30, &end)
	rent.Notes = &notes
	exported := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

	row := NewTransactionRow("SavedTransactions_alice", rent, true, exported)

	if row.TransactionID != rent.ID.String() || row.LedgerKey != "SavedTransactions_alice" {
		t.Errorf("ids = %q %q", row.TransactionID, row.LedgerKey)
	}
	if row.TransactionDate != (civil.Date{Year: 2026, Month: time.January, Day: 1}) {
		t.Errorf("TransactionDate = %v", row.TransactionDate)
	}
	if row.Amount.Cmp(big.NewRat(95025, 100)) != 0 {
		t.Errorf("Amount = %v, want 950.25", row.Amount.FloatString(2))
	}
	if row.SignedAmount.Cmp(big.NewRat(-95025, 100)) != 0 {
		t.Errorf("SignedAmount = %v, want -950.25", row.SignedAmount.FloatString(2))
	}
	if !row.Notes.Valid || row.Notes.StringVal != notes {
		t.Errorf("Notes = %+v", row.Notes)
	}
	if !row.RecurrenceInterval.Valid || row.RecurrenceInterval.Int64 != 30 {
		t.Errorf("RecurrenceInterval = %+v", row.RecurrenceInterval)
	}
	if !row.RecurrenceEndDate.Valid || row.RecurrenceEndDate.Date.String() != "2026-06-30" {
		t.Errorf("RecurrenceEndDate = %+v", row.RecurrenceEndDate)
	}
	if row.SeriesID.Valid || row.IsVirtual {
		t.Errorf("stored anchor row has series=%+v virtual=%v", row.SeriesID, row.IsVirtual)
	}
}

func TestBuildRowsMarksVirtual(t *testing.T) {
	day := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	series := uuid.New()
	stored := domain.NewTransaction(day, time.UTC, 10, domain.KindIncome, domain.CategoryOther, "refund")
	virtual := domain.NewTransaction(day, time.UTC, 10, domain.KindExpense, domain.CategoryOther, "fee")
	virtual.SeriesID = &series

	isStored := func(tx domain.Transaction) bool { return tx.ID == stored.ID }
	rows := BuildRows("k", []domain.Transaction{stored, virtual}, isStored, time.Now())

	if len(rows) != 2 {
		t.Fatalf("len = %d", len(rows))
	}
	if rows[0].IsVirtual || !rows[1].IsVirtual {
		t.Errorf("virtual flags = %v %v, want false true", rows[0].IsVirtual, rows[1].IsVirtual)
	}
	if !rows[1].SeriesID.Valid || rows[1].SeriesID.StringVal != series.String() {
		t.Errorf("SeriesID = %+v", rows[1].SeriesID)
	}
	if rows[0].InsertID() == rows[1].InsertID() {
		t.Error("insert ids collide")
	}
}

func TestBuildRowsNilStoredTreatsAllAsStored(t *testing.T) {
	tx := domain.NewTransaction(time.Now(), time.UTC, 1, domain.KindIncome, domain.CategoryOther, "x")
	rows := BuildRows("k", []domain.Transaction{tx}, nil, time.Now())
	if rows[0].IsVirtual {
		t.Error("row marked virtual with nil stored func")
	}
}
