package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finflow/internal/amqp"
	"finflow/internal/ledger"
	"finflow/internal/records"
)

// ExportWorker mirrors persisted transactions to the external ledger.
// It is driven by AMQP export messages, with a pending-export scan as a
// backup for lost messages.
type ExportWorker struct {
	store     records.TransactionStore
	ledger    ledger.Appender
	batchSize int
}

func NewExportWorker(store records.TransactionStore, appender ledger.Appender, batchSize int) *ExportWorker {
	return &ExportWorker{
		store:     store,
		ledger:    appender,
		batchSize: batchSize,
	}
}

// HandleExportMessage processes a single export message from AMQP.
func (w *ExportWorker) HandleExportMessage(ctx context.Context, msg *amqp.TransactionExportMessage) error {
	slog.InfoContext(ctx, "Processing export message", "id", msg.ID)

	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	ref, err := w.ledger.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("append to ledger: %w", err)
	}

	if err := w.store.MarkExported(ctx, tx.ID); err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}

	slog.InfoContext(ctx, "Transaction exported to ledger",
		"id", tx.ID, "row_ref", ref)
	return nil
}

// ProcessPendingExports exports any transactions the message path
// missed. This is a backup mechanism in case AMQP messages are lost.
func (w *ExportWorker) ProcessPendingExports(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list pending exports: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending exports", "count", len(pending))

	for _, tx := range pending {
		ref, err := w.ledger.Append(ctx, tx)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction",
				"id", tx.ID, "error", err)
			continue
		}
		if err := w.store.MarkExported(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction exported",
				"id", tx.ID, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Pending transaction exported", "id", tx.ID, "row_ref", ref)
	}
	return nil
}

// StartupExportCheck drains the pending-export backlog at worker
// startup, recovering from missed messages or worker downtime.
func (w *ExportWorker) StartupExportCheck(ctx context.Context) error {
	pending, err := w.store.ListPendingExport(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list pending exports for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending exports found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending exports on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, tx := range pending {
		if _, err := w.ledger.Append(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "Failed to export transaction during startup",
				"id", tx.ID, "error", err)
			errorCount++
			continue
		}
		if err := w.store.MarkExported(ctx, tx.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark transaction exported",
				"id", tx.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup export check completed",
		"total", len(pending),
		"exported", successCount,
		"errors", errorCount)
	return nil
}
