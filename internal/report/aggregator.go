// Package report folds stored records and the virtual occurrences of their
// recurring anchors into balances, summaries and date-range listings.
// Every call recomputes from the current records; nothing is cached.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/recurrence"
)

// Source supplies a consistent copy of the stored records.
type Source interface {
	Records() []domain.Transaction
}

// Summary holds income and expense totals, both non-negative.
type Summary struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Net is income minus expense.
func (s Summary) Net() decimal.Decimal {
	return s.Income.Sub(s.Expense)
}

// CategoryTotal is the summary of one category over a range.
type CategoryTotal struct {
	Category domain.Category
	Count    int
	Summary
}

// DailyTotal is the summary of one calendar day over a range.
type DailyTotal struct {
	Date  time.Time
	Count int
	Summary
}

// Aggregator answers read-only questions about a ledger.
type Aggregator struct {
	src Source
	loc *time.Location
	now func() time.Time
}

// NewAggregator creates an Aggregator. A nil now uses time.Now; a nil loc uses time.Local.
func NewAggregator(src Source, loc *time.Location, now func() time.Time) *Aggregator {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Aggregator{src: src, loc: loc, now: now}
}

func (a *Aggregator) today() time.Time {
	return domain.StartOfDay(a.now(), a.loc)
}

// CurrentBalance is the signed sum of everything effective as of today.
func (a *Aggregator) CurrentBalance() decimal.Decimal {
	return a.IncomeExpenseSummary().Net()
}

// IncomeExpenseSummary totals income and expense separately over stored
// records dated today or earlier plus any occurrence landing exactly today.
func (a *Aggregator) IncomeExpenseSummary() Summary {
	return summarize(a.effective())
}

func (a *Aggregator) effective() []domain.Transaction {
	today := a.today()
	records := a.src.Records()

	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if !r.Date.After(today) {
			out = append(out, r)
		}
	}
	w := recurrence.Window{Start: today, End: today}
	return append(out, a.virtual(records, w, recurrence.Options{CapToToday: true, Today: today})...)
}

// TransactionsInRange lists stored records dated within [start, end] and
// the virtual occurrences falling in the same range, by ascending date.
// Future occurrences are included. Ties keep stored records first, in
// insertion order.
func (a *Aggregator) TransactionsInRange(start, end time.Time) []domain.Transaction {
	start = domain.StartOfDay(start, a.loc)
	end = domain.StartOfDay(end, a.loc)
	if end.Before(start) {
		return []domain.Transaction{}
	}

	records := a.src.Records()
	out := make([]domain.Transaction, 0, len(records))
	for _, r := range records {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	out = append(out, a.virtual(records, recurrence.Window{Start: start, End: end}, recurrence.Options{Today: a.today()})...)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// virtual expands every anchor over w, dropping occurrences already
// materialized as stored records.
func (a *Aggregator) virtual(records []domain.Transaction, w recurrence.Window, opts recurrence.Options) []domain.Transaction {
	stored := make(map[uuid.UUID]struct{}, len(records))
	for _, r := range records {
		stored[r.ID] = struct{}{}
	}

	var out []domain.Transaction
	for _, r := range records {
		if !r.IsAnchor() {
			continue
		}
		for _, occ := range recurrence.Expand(r, w, opts) {
			if _, dup := stored[occ.ID]; dup {
				continue
			}
			out = append(out, occ)
		}
	}
	return out
}

// TransactionsByCategory returns the stored records in category, in
// insertion order. Virtual occurrences are not included.
func (a *Aggregator) TransactionsByCategory(category domain.Category) []domain.Transaction {
	var out []domain.Transaction
	for _, r := range a.src.Records() {
		if r.Category == category {
			out = append(out, r)
		}
	}
	return out
}

// CategoryTotals summarizes TransactionsInRange per category. Categories
// without transactions are omitted; the rest follow domain.Categories order.
func (a *Aggregator) CategoryTotals(start, end time.Time) []CategoryTotal {
	byCategory := make(map[domain.Category][]domain.Transaction)
	for _, tx := range a.TransactionsInRange(start, end) {
		byCategory[tx.Category] = append(byCategory[tx.Category], tx)
	}

	var out []CategoryTotal
	for _, c := range domain.Categories {
		txs, ok := byCategory[c]
		if !ok {
			continue
		}
		out = append(out, CategoryTotal{Category: c, Count: len(txs), Summary: summarize(txs)})
	}
	return out
}

// DailyTotals summarizes TransactionsInRange per day with activity.
func (a *Aggregator) DailyTotals(start, end time.Time) []DailyTotal {
	var out []DailyTotal
	for _, tx := range a.TransactionsInRange(start, end) {
		if n := len(out); n == 0 || !out[n-1].Date.Equal(tx.Date) {
			out = append(out, DailyTotal{Date: tx.Date, Summary: Summary{Income: decimal.Zero, Expense: decimal.Zero}})
		}
		last := &out[len(out)-1]
		last.Count++
		last.Summary = last.Summary.add(tx)
	}
	return out
}

func summarize(txs []domain.Transaction) Summary {
	s := Summary{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range txs {
		s = s.add(tx)
	}
	return s
}

func (s Summary) add(tx domain.Transaction) Summary {
	amount := decimal.NewFromFloat(tx.Amount)
	switch tx.Kind {
	case domain.KindIncome:
		s.Income = s.Income.Add(amount)
	case domain.KindExpense:
		s.Expense = s.Expense.Add(amount)
	}
	return s
}
