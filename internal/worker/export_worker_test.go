package worker

import (
	"context"
	"testing"

	"finflow/internal/amqp"
	"finflow/internal/core"
	ledgermem "finflow/internal/ledger/memory"
	"finflow/internal/records/memory"
)

func seedTx(t *testing.T, store *memory.Store, extID string) core.Transaction {
	t.Helper()
	tx, err := store.InsertTransaction(context.Background(), core.Transaction{
		Amount:      core.Money{Cents: 4520},
		Type:        core.Expense,
		Category:    "Transportation",
		Description: "Gas Station",
		Date:        core.NewDate(2025, 1, 14),
		ExternalID:  extID,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return tx
}

func TestHandleExportMessage(t *testing.T) {
	store := memory.New()
	led := ledgermem.New()
	w := NewExportWorker(store, led, 10)
	ctx := context.Background()

	tx := seedTx(t, store, "p1")

	if err := w.HandleExportMessage(ctx, amqp.NewTransactionExportMessage(tx.ID)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if items := led.Items(); len(items) != 1 || items[0].ExternalID != "p1" {
		t.Fatalf("ledger not written: %+v", items)
	}
	pending, _ := store.ListPendingExport(ctx, 10)
	if len(pending) != 0 {
		t.Fatalf("transaction should be marked exported, pending: %+v", pending)
	}
}

func TestHandleExportMessageUnknownID(t *testing.T) {
	w := NewExportWorker(memory.New(), ledgermem.New(), 10)
	if err := w.HandleExportMessage(context.Background(), amqp.NewTransactionExportMessage(99)); err == nil {
		t.Fatalf("expected error for unknown transaction")
	}
}

func TestProcessPendingExports(t *testing.T) {
	store := memory.New()
	led := ledgermem.New()
	w := NewExportWorker(store, led, 10)
	ctx := context.Background()

	seedTx(t, store, "p1")
	seedTx(t, store, "p2")

	if err := w.ProcessPendingExports(ctx); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(led.Items()) != 2 {
		t.Fatalf("expected 2 exported, got %d", len(led.Items()))
	}

	// Second pass finds nothing to do.
	if err := w.ProcessPendingExports(ctx); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(led.Items()) != 2 {
		t.Fatalf("pending scan must not re-export, got %d", len(led.Items()))
	}
}

func TestStartupExportCheck(t *testing.T) {
	store := memory.New()
	led := ledgermem.New()
	w := NewExportWorker(store, led, 2)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", "p3"} {
		seedTx(t, store, id)
	}

	// Startup check uses a larger batch than the periodic scan.
	if err := w.StartupExportCheck(ctx); err != nil {
		t.Fatalf("startup check: %v", err)
	}
	if len(led.Items()) != 3 {
		t.Fatalf("expected full backlog drained, got %d", len(led.Items()))
	}
}
