package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/logger"
	"github.com/akhilapnuri/FinancialTrackerApp/internal/validate"
)

var errHasWarnings = errors.New("transaction has warnings; re-run with --force to save anyway")

var (
	addFlags      txFlags
	editFlags     txFlags
	validateFlags txFlags
	listCategory  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a transaction",
	Long: `Add a one-time or recurring transaction.

Warnings (future date, unusually large amount, likely duplicate) stop the
add unless --force is given. A non-positive amount or empty description
is always rejected.

Example:
  ledger add --amount 3000 --kind income --category salary --description pay --every 14`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := addFlags.apply(cmd, domain.NewTransaction(time.Now(), session.Config.Location, 0, domain.KindExpense, domain.CategoryOther, ""), true)
		if err != nil {
			return err
		}
		return commit(cmd.Context(), tx, addFlags.force)
	},
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a stored transaction",
	Long: `Change the given fields of a stored transaction. Only flags that are
set are applied; --every 0 turns a recurring transaction into a one-time one.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		existing, ok := session.Ledger.Get(id)
		if !ok {
			return fmt.Errorf("no transaction with id %s", id)
		}
		tx, err := editFlags.apply(cmd, existing, false)
		if err != nil {
			return err
		}
		return commit(cmd.Context(), tx, editFlags.force)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a stored transaction",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", args[0], err)
		}
		found, err := session.Ledger.Delete(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !found {
			fmt.Println("No matching transaction; nothing deleted.")
			return nil
		}
		fmt.Println("Deleted", id)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a transaction without saving it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tx, err := validateFlags.apply(cmd, domain.NewTransaction(time.Now(), session.Config.Location, 0, domain.KindExpense, domain.CategoryOther, ""), true)
		if err != nil {
			return err
		}
		if err := validate.CheckCommit(tx); err != nil {
			return err
		}
		warnings := session.Validator.Validate(tx, session.Ledger.Records())
		if len(warnings) == 0 {
			fmt.Println("No warnings.")
			return nil
		}
		for _, w := range warnings {
			fmt.Println(w.Message())
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transactions in insertion order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		txs := session.Ledger.Records()
		if listCategory != "" {
			c, err := domain.ParseCategory(listCategory)
			if err != nil {
				return err
			}
			txs = session.Aggregator.TransactionsByCategory(c)
		}
		printTransactions(txs)
		return nil
	},
}

func init() {
	addFlags.register(addCmd)
	addCmd.Flags().BoolVar(&addFlags.force, "force", false, "save even if there are warnings")
	editFlags.register(editCmd)
	editCmd.Flags().BoolVar(&editFlags.force, "force", false, "save even if there are warnings")
	validateFlags.register(validateCmd)
	listCmd.Flags().StringVar(&listCategory, "category", "", "only list this category")
}

// commit runs the advisory checks, then stores tx.
func commit(ctx context.Context, tx domain.Transaction, force bool) error {
	warnings := session.Validator.Validate(tx, session.Ledger.Records())
	printWarnings(warnings)
	if len(warnings) > 0 && !force {
		return errHasWarnings
	}

	stored, err := session.Ledger.Commit(ctx, tx)
	if err != nil {
		return err
	}
	log := logger.FromContext(ctx)
	log.Info().Str("id", stored.ID.String()).Str("date", domain.FormatDay(stored.Date)).Msg("Transaction saved")
	printTransactions([]domain.Transaction{stored})
	return nil
}
