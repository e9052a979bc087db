// Package cmd provides CLI commands for the ledger tool.
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/app"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/config"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
)

var (
	cfgFile string
	user    string
	debug   bool

	session *app.App
	log     zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Track one-time and recurring transactions",
	Long: `ledger manages a single user's transaction ledger: one-time and
recurring income and expenses, balances, summaries and date-range reports.

Recurring transactions are expanded on the fly in reports and can be
materialized into stored records with the materialize command or the
ledgerd daemon.

Example:
  ledger add --amount 12.50 --kind expense --category food --description lunch
  ledger add --amount 900 --kind expense --category housing --description rent --every 30
  ledger report --from 2026-01-01 --to 2026-03-31 --by category`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" {
			return nil
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if user != "" {
			cfg.User = user
		}
		if debug {
			cfg.LogLevel = "debug"
		}

		log, err = logger.NewWithLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		ctx := logger.WithContext(cmd.Context(), log)
		cmd.SetContext(ctx)

		session, err = app.New(ctx, cfg, log)
		if err != nil {
			return fmt.Errorf("failed to open ledger: %w", err)
		}
		log = session.Log
		cmd.SetContext(logger.WithContext(ctx, log))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeSession()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		// PersistentPostRun is skipped when a command fails.
		_ = closeSession()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file to load (default is .env)")
	rootCmd.PersistentFlags().StringVar(&user, "user", "", "ledger user identity (overrides LEDGER_USER)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(materializeCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(namespacesCmd)
	rootCmd.AddCommand(statusCmd)
}

// closeSession waits for snapshot writes so nothing is lost on exit.
func closeSession() error {
	if session == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err := session.Close(ctx)
	session = nil
	if err != nil {
		log.Error().Err(err).Msg("Failed to persist ledger before exit")
	}
	return err
}
