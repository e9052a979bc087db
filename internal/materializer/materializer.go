// Package materializer turns due recurring occurrences into stored records.
package materializer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/ledger"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/recurrence"
)

// Mode selects how due occurrences are detected.
type Mode string

const (
	// ModeInterval materializes each grid date once, with its own date,
	// catching up any days the process missed.
	ModeInterval Mode = "interval"
	// ModeDaily compares the stored date with today minus the interval and
	// materializes a copy dated today on every tick once that holds.
	ModeDaily Mode = "daily"
)

// ParseMode converts a configuration value into a Mode. Empty means ModeInterval.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeInterval, nil
	case ModeInterval, ModeDaily:
		return m, nil
	default:
		return "", fmt.Errorf("unknown materialize mode %q", s)
	}
}

// Ledger is the mutation path the materializer writes through.
type Ledger interface {
	Mutate(ctx context.Context, fn func(m *ledger.Tx) error) error
}

// Materializer evaluates every recurring record on each tick.
type Materializer struct {
	ledger Ledger
	mode   Mode
	loc    *time.Location
	log    zerolog.Logger
}

// New creates a Materializer. A nil loc uses time.Local.
func New(l Ledger, mode Mode, loc *time.Location, log zerolog.Logger) *Materializer {
	if mode == "" {
		mode = ModeInterval
	}
	if loc == nil {
		loc = time.Local
	}
	return &Materializer{
		ledger: l,
		mode:   mode,
		loc:    loc,
		log:    log.With().Str("component", "materializer").Str("mode", string(mode)).Logger(),
	}
}

// Mode returns the detection mode in use.
func (m *Materializer) Mode() Mode { return m.mode }

// Tick materializes everything due as of now inside a single ledger
// mutation and returns the created records.
func (m *Materializer) Tick(ctx context.Context, now time.Time) ([]domain.Transaction, error) {
	today := domain.StartOfDay(now, m.loc)

	var created []domain.Transaction
	err := m.ledger.Mutate(ctx, func(tx *ledger.Tx) error {
		created = created[:0]
		switch m.mode {
		case ModeDaily:
			created = m.daily(tx, today)
		default:
			created = m.interval(tx, today)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("materializer.Tick: %w", err)
	}

	for _, c := range created {
		m.log.Info().
			Str("anchor_id", seriesOf(c).String()).
			Str("id", c.ID.String()).
			Str("date", domain.FormatDay(c.Date)).
			Float64("amount", c.Amount).
			Msg("Materialized recurring transaction")
	}
	if len(created) == 0 {
		m.log.Debug().Str("today", domain.FormatDay(today)).Msg("Nothing due")
	}
	return created, nil
}

// interval creates one record per grid date after the latest existing
// copy of each anchor, up to today and the recurrence end date.
func (m *Materializer) interval(tx *ledger.Tx, today time.Time) []domain.Transaction {
	records := tx.Records()

	// Only copies on the series grid advance it. Copies written in daily
	// mode carry random ids and off-grid dates.
	latest := make(map[uuid.UUID]time.Time)
	for _, r := range records {
		if r.SeriesID == nil || r.ID != recurrence.OccurrenceID(*r.SeriesID, r.Date) {
			continue
		}
		if last, ok := latest[*r.SeriesID]; !ok || r.Date.After(last) {
			latest[*r.SeriesID] = r.Date
		}
	}

	var created []domain.Transaction
	for _, anchor := range records {
		if !anchor.IsAnchor() {
			continue
		}
		last := anchor.Date
		if l, ok := latest[anchor.ID]; ok && l.After(last) {
			last = l
		}
		until := today
		if anchor.RecurrenceEndDate != nil {
			until = domain.MinDay(until, *anchor.RecurrenceEndDate)
		}

		for _, d := range recurrence.Dates(anchor, last, until) {
			id := recurrence.OccurrenceID(anchor.ID, d)
			if _, exists := tx.Find(id); exists {
				continue
			}
			created = append(created, tx.Create(copyOf(anchor, anchor.ID, id, d)))
		}
	}
	return created
}

// daily applies the threshold check to every recurring record as it was
// when the tick started, copies included.
func (m *Materializer) daily(tx *ledger.Tx, today time.Time) []domain.Transaction {
	var created []domain.Transaction
	for _, r := range tx.Records() {
		interval := r.Interval()
		if !r.IsRecurring || interval < 1 {
			continue
		}
		threshold := domain.AddDays(today, -interval)
		if r.Date.After(threshold) {
			continue
		}
		if r.RecurrenceEndDate != nil && today.After(*r.RecurrenceEndDate) {
			continue
		}
		created = append(created, tx.Create(copyOf(r, seriesOf(r), uuid.New(), today)))
	}
	return created
}

func copyOf(src domain.Transaction, series, id uuid.UUID, day time.Time) domain.Transaction {
	c := src.Clone()
	c.ID = id
	c.Date = day
	c.IsRecurring = true
	c.SeriesID = &series
	return c
}

func seriesOf(r domain.Transaction) uuid.UUID {
	if r.SeriesID != nil {
		return *r.SeriesID
	}
	return r.ID
}
