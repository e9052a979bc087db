package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	infraBQ "github.com/akhilapnuri/FinancialTrackerApp/internal/infra/bigquery"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/jobs"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
)

var clearYes bool

var materializeCmd = &cobra.Command{
	Use:   "materialize",
	Short: "Store recurring occurrences that are due today",
	Long: `Run one materialization tick now, the same as ledgerd does at midnight.

In interval mode (the default) every missed occurrence up to today is
stored once with its own date. In daily mode every recurring record whose
date is at least one interval ago produces a copy dated today.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		created, err := session.Scheduler.TickNow(cmd.Context())
		if err != nil {
			return err
		}
		if len(created) == 0 {
			fmt.Println("Nothing due.")
			return nil
		}
		fmt.Printf("Materialized %d transaction(s) in %s mode:\n", len(created), session.Materializer.Mode())
		printTransactions(created)
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every transaction and the stored snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearYes {
			return fmt.Errorf("refusing to clear %s without --yes", session.Ledger.Key())
		}
		ctx := cmd.Context()
		n := session.Ledger.Len()
		if err := session.Ledger.Clear(ctx); err != nil {
			return err
		}
		fmt.Printf("Cleared %d transaction(s) from %s\n", n, session.Ledger.Key())
		if err := session.Ledger.Flush(ctx); err != nil {
			return err
		}
		printPersistence(session.Ledger.PersistenceStatus(ctx))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export-bq",
	Short: "Export a date-range report to BigQuery",
	Long: `Stream the transactions of a date range, recurring occurrences
included, into the BigQuery table named by LEDGER_BQ_PROJECT,
LEDGER_BQ_DATASET and LEDGER_BQ_TABLE. The table is created if missing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := session.Config
		if err := cfg.ValidateBigQuery(); err != nil {
			return err
		}
		from, to, err := reportRange()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		exporter, err := infraBQ.NewBigQueryReportExporter(ctx, infraBQ.Config{
			ProjectID:       cfg.BigQuery.Project,
			DatasetID:       cfg.BigQuery.Dataset,
			TableID:         cfg.BigQuery.Table,
			CredentialsFile: cfg.BigQuery.Credentials,
		})
		if err != nil {
			return err
		}
		defer exporter.Close()

		txs := session.Aggregator.TransactionsInRange(from, to)
		stored := func(tx domain.Transaction) bool {
			_, ok := session.Ledger.Get(tx.ID)
			return ok
		}
		n, err := exporter.Export(ctx, session.Ledger.Key(), txs, stored)
		if err != nil {
			return err
		}
		log := logger.FromContext(ctx)
		log.Info().Int("rows", n).Str("table", cfg.BigQuery.Project+"."+cfg.BigQuery.Dataset+"."+cfg.BigQuery.Table).Msg("Report exported")
		fmt.Printf("Exported %d row(s).\n", n)
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the ledger key, record count and snapshot state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := session.Ledger.Flush(ctx); err != nil {
			return err
		}
		fmt.Printf("Ledger:   %s\n", session.Ledger.Key())
		fmt.Printf("Backend:  %s\n", session.Config.Storage.Backend)
		fmt.Printf("Records:  %d\n", session.Ledger.Len())
		fmt.Printf("Mode:     %s\n", session.Materializer.Mode())
		printPersistence(session.Ledger.PersistenceStatus(ctx))
		return nil
	},
}

// printPersistence reports the latest snapshot write of this session.
func printPersistence(job *jobs.SnapshotJob, ok bool) {
	if !ok {
		fmt.Println("Snapshot: no writes this session")
		return
	}
	line := fmt.Sprintf("Snapshot: %s %s at version %d", job.Type, job.Status, job.Version)
	if job.CompletedAt != nil {
		line += " (" + job.CompletedAt.Format(time.RFC3339) + ")"
	}
	fmt.Println(line)
	if job.Error != "" {
		fmt.Printf("          last error: %s\n", job.Error)
	}
}

var namespacesCmd = &cobra.Command{
	Use:   "namespaces",
	Short: "List the ledgers stored in the backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := session.Namespaces(cmd.Context())
		if err != nil {
			return err
		}
		for _, k := range keys {
			fmt.Println(k)
		}
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "confirm clearing the ledger")
}
