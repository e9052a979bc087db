package validate

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

var (
	// ErrInvalidAmount blocks commits whose amount is not a positive real number.
	ErrInvalidAmount = errors.New("amount must be a finite number greater than zero")
	// ErrEmptyDescription blocks commits without a description.
	ErrEmptyDescription = errors.New("description is required")
	// ErrInvalidInterval blocks recurring commits whose interval is outside
	// [1, domain.MaxRecurrenceInterval].
	ErrInvalidInterval = errors.New("recurrence interval must be between one day and one hundred years")
)

const (
	// DefaultLargeAmount is the amount above which a transaction is flagged.
	DefaultLargeAmount = 5000.0
	// DefaultDuplicateWindow is how close two dates must be to count as duplicates.
	DefaultDuplicateWindow = 24 * time.Hour
)

// Config holds the advisory thresholds. Values are fixed for the life of a Validator.
type Config struct {
	LargeAmount     float64
	DuplicateWindow time.Duration
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		LargeAmount:     DefaultLargeAmount,
		DuplicateWindow: DefaultDuplicateWindow,
	}
}

// Validator flags advisory warnings on candidate transactions.
type Validator struct {
	cfg Config
	loc *time.Location
	now func() time.Time
}

// New creates a Validator. A nil now uses time.Now; a nil loc uses time.Local.
func New(cfg Config, loc *time.Location, now func() time.Time) *Validator {
	if cfg.LargeAmount <= 0 {
		cfg.LargeAmount = DefaultLargeAmount
	}
	if cfg.DuplicateWindow <= 0 {
		cfg.DuplicateWindow = DefaultDuplicateWindow
	}
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{cfg: cfg, loc: loc, now: now}
}

// Config returns the thresholds in use.
func (v *Validator) Config() Config {
	return v.cfg
}

// Validate returns the warnings for candidate against the stored records,
// always in the order future-dated, unusually large, duplicate.
func (v *Validator) Validate(candidate domain.Transaction, existing []domain.Transaction) []domain.Warning {
	var warnings []domain.Warning

	today := domain.StartOfDay(v.now(), v.loc)
	if domain.StartOfDay(candidate.Date, v.loc).After(today) {
		warnings = append(warnings, domain.Warning{Kind: domain.WarningFutureDated})
	}

	if candidate.Amount > v.cfg.LargeAmount {
		warnings = append(warnings, domain.Warning{Kind: domain.WarningUnusuallyLarge, Amount: candidate.Amount})
	}

	if v.IsDuplicate(candidate, existing) {
		warnings = append(warnings, domain.Warning{Kind: domain.WarningDuplicate})
	}

	return warnings
}

// IsDuplicate reports whether another stored record has the same amount,
// kind, category and description within the duplicate window.
// A record never duplicates itself.
func (v *Validator) IsDuplicate(candidate domain.Transaction, existing []domain.Transaction) bool {
	day := calendarDay(candidate.Date, v.loc)
	for _, e := range existing {
		if e.ID == candidate.ID {
			continue
		}
		diff := calendarDay(e.Date, v.loc).Sub(day)
		if diff < 0 {
			diff = -diff
		}
		if diff > v.cfg.DuplicateWindow {
			continue
		}
		if e.Amount == candidate.Amount &&
			e.Kind == candidate.Kind &&
			e.Category == candidate.Category &&
			e.Description == candidate.Description {
			return true
		}
	}
	return false
}

// calendarDay maps t's local day onto a UTC midnight so day distances are
// whole multiples of 24h regardless of DST.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CheckCommit enforces the blocking preconditions for storing tx.
// Any error means the commit must not happen.
func CheckCommit(tx domain.Transaction) error {
	var errs []error
	if !tx.FiniteAmount() || tx.Amount <= 0 {
		errs = append(errs, fmt.Errorf("%w: got %v", ErrInvalidAmount, tx.Amount))
	}
	if strings.TrimSpace(tx.Description) == "" {
		errs = append(errs, ErrEmptyDescription)
	}
	if !tx.Kind.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", domain.ErrUnknownKind, tx.Kind))
	}
	if !tx.Category.Valid() {
		errs = append(errs, fmt.Errorf("%w: %q", domain.ErrUnknownCategory, tx.Category))
	}
	if tx.IsRecurring {
		if n := tx.Interval(); n < 1 || n > domain.MaxRecurrenceInterval {
			errs = append(errs, fmt.Errorf("%w: got %d", ErrInvalidInterval, n))
		}
	}
	return errors.Join(errs...)
}
