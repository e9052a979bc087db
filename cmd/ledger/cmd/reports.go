package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

var (
	reportFrom string
	reportTo   string
	reportBy   string
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the current balance",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Balance: %s\n", session.Aggregator.CurrentBalance().StringFixed(2))
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show total income and expenses to date",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s := session.Aggregator.IncomeExpenseSummary()
		fmt.Printf("Income:   %s\n", s.Income.StringFixed(2))
		fmt.Printf("Expenses: %s\n", s.Expense.StringFixed(2))
		fmt.Printf("Net:      %s\n", s.Net().StringFixed(2))
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "List transactions in a date range, including recurring occurrences",
	Long: `List stored transactions and recurring occurrences dated within
[--from, --to], oldest first. Future occurrences are included.

Use --by category or --by day for totals instead of the full listing.

Example:
  ledger report --from 2026-01-01 --to 2026-01-31
  ledger report --from 2026-01-01 --to 2026-12-31 --by category`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		from, to, err := reportRange()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		defer w.Flush()

		switch reportBy {
		case "":
			printTransactions(session.Aggregator.TransactionsInRange(from, to))
		case "category":
			fmt.Fprintln(w, "CATEGORY\tCOUNT\tINCOME\tEXPENSE\tNET")
			for _, c := range session.Aggregator.CategoryTotals(from, to) {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", c.Category, c.Count, c.Income.StringFixed(2), c.Expense.StringFixed(2), c.Net().StringFixed(2))
			}
		case "day":
			fmt.Fprintln(w, "DATE\tCOUNT\tINCOME\tEXPENSE\tNET")
			for _, d := range session.Aggregator.DailyTotals(from, to) {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", domain.FormatDay(d.Date), d.Count, d.Income.StringFixed(2), d.Expense.StringFixed(2), d.Net().StringFixed(2))
			}
		default:
			return fmt.Errorf("unknown --by %q (want category or day)", reportBy)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{reportCmd, exportCmd} {
		c.Flags().StringVar(&reportFrom, "from", "", "first day YYYY-MM-DD (required)")
		c.Flags().StringVar(&reportTo, "to", "", "last day YYYY-MM-DD (default today)")
		_ = c.MarkFlagRequired("from")
	}
	reportCmd.Flags().StringVar(&reportBy, "by", "", "group totals by category or day")
}

func reportRange() (from, to time.Time, err error) {
	from, err = parseDayOrToday(reportFrom)
	if err != nil {
		return from, to, err
	}
	to, err = parseDayOrToday(reportTo)
	if err != nil {
		return from, to, err
	}
	if to.Before(from) {
		return from, to, fmt.Errorf("--to %s is before --from %s", domain.FormatDay(to), domain.FormatDay(from))
	}
	return from, to, nil
}
