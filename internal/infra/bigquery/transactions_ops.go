package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

// EnsureTransactionsTable creates the export table if it does not exist.
func EnsureTransactionsTable(ctx context.Context, table *bigquery.Table) error {
	_, err := table.Metadata(ctx)
	if err == nil {
		return nil
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Code != http.StatusNotFound {
		return fmt.Errorf("EnsureTransactionsTable: table metadata: %w", err)
	}

	schema, err := bigquery.InferSchema(TransactionRow{})
	if err != nil {
		return fmt.Errorf("EnsureTransactionsTable: infer schema: %w", err)
	}
	meta := &bigquery.TableMetadata{
		Schema: schema,
		TimePartitioning: &bigquery.TimePartitioning{
			Type:  bigquery.MonthPartitioningType,
			Field: "transaction_date",
		},
	}
	if err := table.Create(ctx, meta); err != nil {
		return fmt.Errorf("EnsureTransactionsTable: create table: %w", err)
	}
	return nil
}

// InsertTransactionsWithClient streams rows into the table using their
// insert ids for best-effort deduplication.
func InsertTransactionsWithClient(ctx context.Context, table *bigquery.Table, rows []*TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	savers := make([]*bigquery.StructSaver, 0, len(rows))
	for _, r := range rows {
		savers = append(savers, &bigquery.StructSaver{Struct: r, InsertID: r.InsertID()})
	}

	if err := table.Inserter().Put(ctx, savers); err != nil {
		return fmt.Errorf("InsertTransactions: inserting rows: %w", err)
	}
	return nil
}
