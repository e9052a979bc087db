package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// txFlags are the transaction fields shared by add, edit and validate.
type txFlags struct {
	date        string
	amount      float64
	kind        string
	category    string
	description string
	notes       string
	every       int
	until       string
	force       bool
}

func (f *txFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date YYYY-MM-DD (default today)")
	cmd.Flags().Float64Var(&f.amount, "amount", 0, "positive amount")
	cmd.Flags().StringVar(&f.kind, "kind", "expense", "income or expense")
	cmd.Flags().StringVar(&f.category, "category", "other", "category: "+categoryList())
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.notes, "notes", "", "optional notes")
	cmd.Flags().IntVar(&f.every, "every", 0, "repeat every N days")
	cmd.Flags().StringVar(&f.until, "until", "", "last day of the recurrence YYYY-MM-DD")
}

// apply writes the flags the user set onto tx. With all true every flag is
// applied, as for a new transaction.
func (f *txFlags) apply(cmd *cobra.Command, tx domain.Transaction, all bool) (domain.Transaction, error) {
	changed := func(name string) bool { return all || cmd.Flags().Changed(name) }
	loc := session.Config.Location

	if changed("date") {
		d, err := parseDayOrToday(f.date)
		if err != nil {
			return tx, err
		}
		tx.Date = d
	}
	if changed("amount") {
		tx.Amount = f.amount
	}
	if changed("kind") {
		k, err := domain.ParseKind(f.kind)
		if err != nil {
			return tx, err
		}
		tx.Kind = k
	}
	if changed("category") {
		c, err := domain.ParseCategory(f.category)
		if err != nil {
			return tx, err
		}
		tx.Category = c
	}
	if changed("description") {
		tx.Description = f.description
	}
	if changed("notes") {
		if f.notes == "" {
			tx.Notes = nil
		} else {
			n := f.notes
			tx.Notes = &n
		}
	}
	if changed("every") || changed("until") {
		interval := f.every
		if !changed("every") {
			interval = tx.Interval()
		}
		if interval == 0 {
			tx.IsRecurring = false
			tx.RecurrenceInterval = nil
			tx.RecurrenceEndDate = nil
			return tx, nil
		}
		var end *time.Time
		if f.until != "" {
			d, err := domain.ParseDay(f.until, loc)
			if err != nil {
				return tx, fmt.Errorf("invalid --until %q (want YYYY-MM-DD)", f.until)
			}
			end = &d
		} else if !changed("until") {
			end = tx.RecurrenceEndDate
		}
		tx = tx.WithRecurrence(interval, end)
	}
	return tx, nil
}

func parseDayOrToday(value string) (time.Time, error) {
	loc := session.Config.Location
	if value == "" {
		return domain.StartOfDay(time.Now(), loc), nil
	}
	d, err := domain.ParseDay(value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", value)
	}
	return d, nil
}

func categoryList() string {
	names := make([]string, 0, len(domain.Categories))
	for _, c := range domain.Categories {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}

// printTransactions writes a table of txs to stdout.
func printTransactions(txs []domain.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tKIND\tCATEGORY\tAMOUNT\tDESCRIPTION\tRECURRENCE\tID")
	for _, tx := range txs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\t%s\n",
			domain.FormatDay(tx.Date), tx.Kind, tx.Category, tx.Amount, tx.Description, recurrenceLabel(tx), tx.ID)
	}
	w.Flush()
}

func recurrenceLabel(tx domain.Transaction) string {
	if !tx.IsRecurring || tx.Interval() < 1 {
		return "-"
	}
	label := fmt.Sprintf("every %dd", tx.Interval())
	if tx.RecurrenceEndDate != nil {
		label += " until " + domain.FormatDay(*tx.RecurrenceEndDate)
	}
	if tx.SeriesID != nil {
		label += " (copy)"
	}
	return label
}

func printWarnings(warnings []domain.Warning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w.Message())
	}
}
