// Package bigquery exports ledger range reports to a BigQuery table.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/akhilapnuri/FinancialTrackerApp/internal/domain"
)

// ReportExporter writes transactions to an analytics sink.
type ReportExporter interface {
	Export(ctx context.Context, ledgerKey string, txs []domain.Transaction, stored func(domain.Transaction) bool) (int, error)
	Close() error
}

// Config names the destination table.
type Config struct {
	ProjectID       string
	DatasetID       string
	TableID         string
	CredentialsFile string
}

// BigQueryReportExporter is the BigQuery implementation of ReportExporter.
// It holds a shared client for its lifetime.
type BigQueryReportExporter struct {
	client *bigquery.Client
	table  *bigquery.Table
	now    func() time.Time
}

// NewBigQueryReportExporter connects to BigQuery and makes sure the table exists.
func NewBigQueryReportExporter(ctx context.Context, cfg Config) (*BigQueryReportExporter, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryReportExporter: creating client: %w", err)
	}

	table := client.DatasetInProject(cfg.ProjectID, cfg.DatasetID).Table(cfg.TableID)
	if err := EnsureTransactionsTable(ctx, table); err != nil {
		client.Close()
		return nil, fmt.Errorf("NewBigQueryReportExporter: %w", err)
	}

	return &BigQueryReportExporter{client: client, table: table, now: time.Now}, nil
}

// Export inserts one row per transaction and returns the number written.
func (e *BigQueryReportExporter) Export(ctx context.Context, ledgerKey string, txs []domain.Transaction, stored func(domain.Transaction) bool) (int, error) {
	rows := BuildRows(ledgerKey, txs, stored, e.now())
	if err := InsertTransactionsWithClient(ctx, e.table, rows); err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Close closes the BigQuery client connection.
func (e *BigQueryReportExporter) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// BuildRows maps txs to export rows. A nil stored treats every transaction as stored.
func BuildRows(ledgerKey string, txs []domain.Transaction, stored func(domain.Transaction) bool, exportedAt time.Time) []*TransactionRow {
	rows := make([]*TransactionRow, 0, len(txs))
	for _, tx := range txs {
		isStored := stored == nil || stored(tx)
		rows = append(rows, NewTransactionRow(ledgerKey, tx, isStored, exportedAt))
	}
	return rows
}

var _ ReportExporter = (*BigQueryReportExporter)(nil)
