package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// snapshotRecord is the persisted shape of a Transaction.
type snapshotRecord struct {
	ID                 uuid.UUID  `json:"id"`
	Date               string     `json:"date"`
	Amount             float64    `json:"amount"`
	Kind               Kind       `json:"kind,omitempty"`
	LegacyType         Kind       `json:"type,omitempty"` // written by older clients
	Category           Category   `json:"category"`
	Description        string     `json:"description"`
	Notes              *string    `json:"notes,omitempty"`
	IsRecurring        bool       `json:"isRecurring"`
	RecurrenceInterval *int       `json:"recurrenceInterval,omitempty"`
	RecurrenceEndDate  *string    `json:"recurrenceEndDate,omitempty"`
	SeriesID           *uuid.UUID `json:"seriesId,omitempty"`
}

// EncodeSnapshot serializes records in order with calendar-day dates.
func EncodeSnapshot(records []Transaction) ([]byte, error) {
	out := make([]snapshotRecord, 0, len(records))
	for _, t := range records {
		rec := snapshotRecord{
			ID:                 t.ID,
			Date:               FormatDay(t.Date),
			Amount:             t.Amount,
			Kind:               t.Kind,
			Category:           t.Category,
			Description:        t.Description,
			Notes:              t.Notes,
			IsRecurring:        t.IsRecurring,
			RecurrenceInterval: t.RecurrenceInterval,
			SeriesID:           t.SeriesID,
		}
		if t.RecurrenceEndDate != nil {
			end := FormatDay(*t.RecurrenceEndDate)
			rec.RecurrenceEndDate = &end
		}
		out = append(out, rec)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("EncodeSnapshot: marshal: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a snapshot document, placing every date at
// midnight in loc.
func DecodeSnapshot(data []byte, loc *time.Location) ([]Transaction, error) {
	var recs []snapshotRecord
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("DecodeSnapshot: unmarshal: %w", err)
	}

	out := make([]Transaction, 0, len(recs))
	for i, rec := range recs {
		date, err := ParseDay(rec.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("DecodeSnapshot: record %d date %q: %w", i, rec.Date, err)
		}
		kind := rec.Kind
		if kind == "" {
			kind = rec.LegacyType
		}
		if !kind.Valid() {
			return nil, fmt.Errorf("DecodeSnapshot: record %d: %w: %q", i, ErrUnknownKind, kind)
		}
		if !rec.Category.Valid() {
			return nil, fmt.Errorf("DecodeSnapshot: record %d: %w: %q", i, ErrUnknownCategory, rec.Category)
		}
		if math.IsNaN(rec.Amount) || math.IsInf(rec.Amount, 0) {
			return nil, fmt.Errorf("DecodeSnapshot: record %d: amount %v is not finite", i, rec.Amount)
		}
		if rec.RecurrenceInterval != nil && *rec.RecurrenceInterval > MaxRecurrenceInterval {
			return nil, fmt.Errorf("DecodeSnapshot: record %d: recurrence interval %d exceeds %d days", i, *rec.RecurrenceInterval, MaxRecurrenceInterval)
		}

		t := Transaction{
			ID:                 rec.ID,
			Date:               date,
			Amount:             rec.Amount,
			Kind:               kind,
			Category:           rec.Category,
			Description:        rec.Description,
			Notes:              rec.Notes,
			IsRecurring:        rec.IsRecurring,
			RecurrenceInterval: rec.RecurrenceInterval,
			SeriesID:           rec.SeriesID,
		}
		if rec.RecurrenceEndDate != nil {
			end, err := ParseDay(*rec.RecurrenceEndDate, loc)
			if err != nil {
				return nil, fmt.Errorf("DecodeSnapshot: record %d end date %q: %w", i, *rec.RecurrenceEndDate, err)
			}
			t.RecurrenceEndDate = &end
		}
		out = append(out, t)
	}
	return out, nil
}
