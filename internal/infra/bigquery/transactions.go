package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// TransactionRow is one exported ledger transaction, stored or virtual.
type TransactionRow struct {
	LedgerKey     string              `bigquery:"ledger_key"`     // REQUIRED
	TransactionID string              `bigquery:"transaction_id"` // REQUIRED
	SeriesID      bigquery.NullString `bigquery:"series_id"`      // NULLABLE, set on materialized copies

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED

	Amount       *big.Rat `bigquery:"amount"`        // REQUIRED NUMERIC, always positive
	SignedAmount *big.Rat `bigquery:"signed_amount"` // REQUIRED NUMERIC

	Kind        string              `bigquery:"kind"`        // REQUIRED
	Category    string              `bigquery:"category"`    // REQUIRED
	Description string              `bigquery:"description"` // REQUIRED
	Notes       bigquery.NullString `bigquery:"notes"`       // NULLABLE

	IsRecurring        bool               `bigquery:"is_recurring"`
	RecurrenceInterval bigquery.NullInt64 `bigquery:"recurrence_interval"` // NULLABLE
	RecurrenceEndDate  bigquery.NullDate  `bigquery:"recurrence_end_date"` // NULLABLE

	// IsVirtual marks occurrences derived from an anchor but not stored.
	IsVirtual bool `bigquery:"is_virtual"`

	ExportedTS time.Time `bigquery:"exported_ts"` // REQUIRED
}

// NewTransactionRow maps a ledger transaction to its export row.
// stored distinguishes ledger records from virtual occurrences.
func NewTransactionRow(ledgerKey string, tx domain.Transaction, stored bool, exportedAt time.Time) *TransactionRow {
	amount := decimal.NewFromFloat(tx.Amount)
	signed := amount
	if tx.Kind == domain.KindExpense {
		signed = amount.Neg()
	}

	row := &TransactionRow{
		LedgerKey:       ledgerKey,
		TransactionID:   tx.ID.String(),
		TransactionDate: civil.DateOf(tx.Date),
		Amount:          amount.Rat(),
		SignedAmount:    signed.Rat(),
		Kind:            string(tx.Kind),
		Category:        string(tx.Category),
		Description:     tx.Description,
		IsRecurring:     tx.IsRecurring,
		IsVirtual:       !stored,
		ExportedTS:      exportedAt.UTC(),
	}
	if tx.SeriesID != nil {
		row.SeriesID = bigquery.NullString{StringVal: tx.SeriesID.String(), Valid: true}
	}
	if tx.Notes != nil {
		row.Notes = bigquery.NullString{StringVal: *tx.Notes, Valid: true}
	}
	if tx.RecurrenceInterval != nil {
		row.RecurrenceInterval = bigquery.NullInt64{Int64: int64(*tx.RecurrenceInterval), Valid: true}
	}
	if tx.RecurrenceEndDate != nil {
		row.RecurrenceEndDate = bigquery.NullDate{Date: civil.DateOf(*tx.RecurrenceEndDate), Valid: true}
	}
	return row
}

// InsertID identifies a row across repeated exports so streaming inserts
// of the same transaction are deduplicated.
func (r *TransactionRow) InsertID() string {
	return r.LedgerKey + "/" + r.TransactionID + "/" + r.TransactionDate.String()
}
