package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownKind is returned when a kind string is outside the closed set.
	ErrUnknownKind = errors.New("unknown transaction kind")
	// ErrUnknownCategory is returned when a category string is outside the closed set.
	ErrUnknownCategory = errors.New("unknown transaction category")
)

// MaxRecurrenceInterval is the longest accepted gap between occurrences, in days.
const MaxRecurrenceInterval = 36500

// Kind tells whether a transaction adds to or subtracts from the balance.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Category is one of the ten fixed transaction categories.
type Category string

const (
	CategorySalary         Category = "salary"
	CategoryInvestment     Category = "investment"
	CategoryFood           Category = "food"
	CategoryTransportation Category = "transportation"
	CategoryHousing        Category = "housing"
	CategoryUtilities      Category = "utilities"
	CategoryEntertainment  Category = "entertainment"
	CategoryHealthcare     Category = "healthcare"
	CategoryShopping       Category = "shopping"
	CategoryOther          Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySalary,
	CategoryInvestment,
	CategoryFood,
	CategoryTransportation,
	CategoryHousing,
	CategoryUtilities,
	CategoryEntertainment,
	CategoryHealthcare,
	CategoryShopping,
	CategoryOther,
}

// ParseKind converts user input into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}

// Valid reports whether k is in the closed set.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseCategory converts user input into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
	return c, nil
}

// Valid reports whether c is in the closed set.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is a single stored or derived ledger entry.
// Values are treated as immutable: edits replace the whole record.
type Transaction struct {
	ID          uuid.UUID
	Date        time.Time // midnight of the calendar day
	Amount      float64
	Kind        Kind
	Category    Category
	Description string
	Notes       *string

	IsRecurring        bool
	RecurrenceInterval *int       // days between occurrences
	RecurrenceEndDate  *time.Time // midnight of the last allowed day

	// SeriesID is the anchor id for records created by the materializer.
	SeriesID *uuid.UUID
}

// NewTransaction builds a one-time record with a fresh id and its date
// normalized to midnight in loc.
func NewTransaction(date time.Time, loc *time.Location, amount float64, kind Kind, category Category, description string) Transaction {
	return Transaction{
		ID:          uuid.New(),
		Date:        StartOfDay(date, loc),
		Amount:      amount,
		Kind:        kind,
		Category:    category,
		Description: description,
	}
}

// WithRecurrence returns a copy of t marked as a recurring anchor.
func (t Transaction) WithRecurrence(intervalDays int, endDate *time.Time) Transaction {
	t.IsRecurring = true
	t.RecurrenceInterval = &intervalDays
	if endDate != nil {
		end := StartOfDay(*endDate, t.Date.Location())
		t.RecurrenceEndDate = &end
	} else {
		t.RecurrenceEndDate = nil
	}
	return t
}

// IsAnchor reports whether t starts a recurring series that can be expanded.
func (t Transaction) IsAnchor() bool {
	return t.IsRecurring && t.RecurrenceInterval != nil && *t.RecurrenceInterval >= 1 && t.SeriesID == nil
}

// Interval returns the recurrence interval in days, or zero.
func (t Transaction) Interval() int {
	if t.RecurrenceInterval == nil {
		return 0
	}
	return *t.RecurrenceInterval
}

// FiniteAmount reports whether the amount is a real number.
func (t Transaction) FiniteAmount() bool {
	return !math.IsNaN(t.Amount) && !math.IsInf(t.Amount, 0)
}

// SignedAmount is +amount for income and -amount for expense.
func (t Transaction) SignedAmount() float64 {
	if t.Kind == KindIncome {
		return t.Amount
	}
	return -t.Amount
}

// Clone returns a deep copy so callers cannot alias pointer fields.
func (t Transaction) Clone() Transaction {
	if t.Notes != nil {
		n := *t.Notes
		t.Notes = &n
	}
	if t.RecurrenceInterval != nil {
		i := *t.RecurrenceInterval
		t.RecurrenceInterval = &i
	}
	if t.RecurrenceEndDate != nil {
		e := *t.RecurrenceEndDate
		t.RecurrenceEndDate = &e
	}
	if t.SeriesID != nil {
		s := *t.SeriesID
		t.SeriesID = &s
	}
	return t
}

// Equal compares every field, treating dates by instant.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date.Equal(o.Date) &&
		t.Amount == o.Amount &&
		t.Kind == o.Kind &&
		t.Category == o.Category &&
		t.Description == o.Description &&
		equalPtr(t.Notes, o.Notes) &&
		t.IsRecurring == o.IsRecurring &&
		equalPtr(t.RecurrenceInterval, o.RecurrenceInterval) &&
		equalTimePtr(t.RecurrenceEndDate, o.RecurrenceEndDate) &&
		equalPtr(t.SeriesID, o.SeriesID)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
