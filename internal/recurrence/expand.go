// Package recurrence derives the virtual occurrences of recurring anchors.
package recurrence

import (
	"time"

	"github.com/google/uuid"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Options control how far an expansion may reach.
type Options struct {
	// CapToToday truncates the window so no occurrence is later than Today.
	CapToToday bool
	// Today is midnight of the current day. Required when CapToToday is set.
	Today time.Time
}

// OccurrenceID is the identifier of the occurrence of anchor on day.
// It is stable for a given anchor and day and never equals the anchor id.
func OccurrenceID(anchorID uuid.UUID, day time.Time) uuid.UUID {
	return uuid.NewSHA1(anchorID, []byte(domain.FormatDay(day)))
}

// EffectiveEnd is the last day an expansion over w may emit.
func EffectiveEnd(anchor domain.Transaction, w Window, opts Options) time.Time {
	end := w.End
	if opts.CapToToday {
		end = domain.MinDay(end, opts.Today)
	}
	if anchor.RecurrenceEndDate != nil {
		end = domain.MinDay(end, *anchor.RecurrenceEndDate)
	}
	return end
}

// Expand returns the virtual occurrences of anchor that fall in w, in
// ascending date order. The anchor's own date is never emitted.
// Non-anchors and windows ending before they start yield nil.
func Expand(anchor domain.Transaction, w Window, opts Options) []domain.Transaction {
	interval := anchor.Interval()
	if !anchor.IsRecurring || interval < 1 || w.End.Before(w.Start) {
		return nil
	}
	if anchor.RecurrenceEndDate != nil && anchor.RecurrenceEndDate.Before(w.Start) {
		return nil
	}

	end := EffectiveEnd(anchor, w, opts)

	days := gridDays(anchor.Date, interval, w.Start, end)
	if len(days) == 0 {
		return nil
	}
	out := make([]domain.Transaction, 0, len(days))
	for _, day := range days {
		out = append(out, occurrence(anchor, day))
	}
	return out
}

// Dates lists the derived dates after from, up to and including until,
// on the anchor's interval grid.
func Dates(anchor domain.Transaction, from, until time.Time) []time.Time {
	interval := anchor.Interval()
	if interval < 1 {
		return nil
	}
	return gridDays(anchor.Date, interval, domain.AddDays(from, 1), until)
}

// gridDays returns anchor + k*interval days for every k >= 1 that lands
// in [first, last]. The first k is computed directly so the cost is
// bounded by the number of results, whatever the interval.
func gridDays(anchor time.Time, interval int, first, last time.Time) []time.Time {
	base := domain.DayNumber(anchor)
	lo := domain.DayNumber(first) - base
	hi := domain.DayNumber(last) - base
	step := int64(interval)
	if step < 1 || hi < step || hi < lo {
		return nil
	}
	k := int64(1)
	if lo > step {
		k = (lo + step - 1) / step
	}
	var out []time.Time
	for ; k*step <= hi; k++ {
		out = append(out, domain.AddDays(anchor, int(k*step)))
	}
	return out
}

func occurrence(anchor domain.Transaction, day time.Time) domain.Transaction {
	occ := anchor.Clone()
	occ.ID = OccurrenceID(anchor.ID, day)
	occ.Date = day
	occ.IsRecurring = true
	occ.SeriesID = nil
	return occ
}
