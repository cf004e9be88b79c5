package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
)

func validTx(extID string) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 495},
		Type:        core.Expense,
		Category:    "Food & Dining",
		Description: "Starbucks Coffee",
		Date:        core.NewDate(2025, 1, 15),
		ExternalID:  extID,
		AccountID:   "acc-1",
	}
}

func TestInsertAndListTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()

	tx, err := s.InsertTransaction(ctx, validTx("p1"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if tx.ID == 0 {
		t.Fatalf("expected assigned ID")
	}

	list, err := s.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ExternalID != "p1" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestInsertRejectsInvalid(t *testing.T) {
	s := New()
	bad := validTx("p1")
	bad.Description = ""
	_, err := s.InsertTransaction(context.Background(), bad)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !records.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestListExternalIDsSkipsEmpty(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.InsertTransaction(ctx, validTx("p1")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	manual := validTx("")
	if _, err := s.InsertTransaction(ctx, manual); err != nil {
		t.Fatalf("insert manual: %v", err)
	}

	ids, err := s.ListExternalIDs(ctx)
	if err != nil {
		t.Fatalf("list ids: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 id, got %d", len(ids))
	}
	if _, ok := ids["p1"]; !ok {
		t.Fatalf("missing p1")
	}
}

func TestPendingExportLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()
	tx1, _ := s.InsertTransaction(ctx, validTx("p1"))
	tx2, _ := s.InsertTransaction(ctx, validTx("p2"))

	pending, err := s.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := s.MarkExported(ctx, tx1.ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	pending, _ = s.ListPendingExport(ctx, 10)
	if len(pending) != 1 || pending[0].ID != tx2.ID {
		t.Fatalf("unexpected pending after mark: %+v", pending)
	}

	if err := s.MarkExported(ctx, 999); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	a, err := s.InsertAccount(ctx, core.ConnectedAccount{
		AccountExternalID: "ext-1",
		InstitutionName:   "Chase Bank",
		AccountName:       "Checking",
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if a.LastSync != nil {
		t.Fatalf("expected nil last sync on insert")
	}

	later := time.Date(2025, 2, 1, 14, 30, 0, 0, time.UTC)
	if err := s.UpdateLastSync(ctx, a.ID, later); err != nil {
		t.Fatalf("update last sync: %v", err)
	}
	got, err := s.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.LastSync == nil || !got.LastSync.Equal(later) {
		t.Fatalf("last sync not stamped: %+v", got.LastSync)
	}

	// An earlier stamp must not move the clock backwards.
	if err := s.UpdateLastSync(ctx, a.ID, later.Add(-time.Hour)); err != nil {
		t.Fatalf("update last sync (earlier): %v", err)
	}
	got, _ = s.GetAccount(ctx, a.ID)
	if got.LastSync == nil || !got.LastSync.Equal(later) {
		t.Fatalf("last sync moved backwards: %+v", got.LastSync)
	}

	if err := s.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetAccount(ctx, a.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteAccountKeepsTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()
	a, _ := s.InsertAccount(ctx, core.ConnectedAccount{
		AccountExternalID: "ext-1",
		InstitutionName:   "Chase Bank",
	})
	if _, err := s.InsertTransaction(ctx, validTx("p1")); err != nil {
		t.Fatalf("insert tx: %v", err)
	}

	if err := s.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := s.ListTransactions(ctx)
	if len(list) != 1 {
		t.Fatalf("transactions should survive disconnect, got %d", len(list))
	}
}

func TestBudgetsByPeriod(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, err := s.InsertBudget(ctx, core.Budget{Category: "Food & Dining", Limit: core.Money{Cents: 40000}, Year: 2025, Month: 1}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := s.InsertBudget(ctx, core.Budget{Category: "Shopping", Limit: core.Money{Cents: 20000}, Year: 2025, Month: 2}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	jan, err := s.ListBudgets(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(jan) != 1 || jan[0].Category != "Food & Dining" {
		t.Fatalf("unexpected budgets: %+v", jan)
	}
}

func TestReportLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	rep := core.Report{
		Name:      "Quarterly spending",
		Type:      core.ReportSummary,
		StartDate: core.NewDate(2025, 1, 1),
		EndDate:   core.NewDate(2025, 3, 31),
	}
	created, err := s.InsertReport(ctx, rep)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if created.LastRun != nil {
		t.Fatalf("new report should not carry a run stamp")
	}

	var verr *records.ValidationError
	if _, err := s.InsertReport(ctx, core.Report{Name: "bad", Type: "pie", StartDate: rep.StartDate, EndDate: rep.EndDate}); !errors.As(err, &verr) {
		t.Fatalf("expected validation error for unknown type, got %v", err)
	}

	runAt := time.Date(2025, 4, 1, 8, 0, 0, 0, time.UTC)
	if err := s.MarkReportRun(ctx, created.ID, runAt); err != nil {
		t.Fatalf("mark run: %v", err)
	}

	created.Name = "Q1 spending"
	if err := s.UpdateReport(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Q1 spending" {
		t.Errorf("name = %q", got.Name)
	}
	if got.LastRun == nil || !got.LastRun.Equal(runAt) {
		t.Errorf("editing the definition must keep the run stamp, got %v", got.LastRun)
	}

	if err := s.DeleteReport(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetReport(ctx, created.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReportsOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()

	mk := func(name string) core.Report {
		rep, err := s.InsertReport(ctx, core.Report{
			Name:      name,
			Type:      core.ReportSummary,
			StartDate: core.NewDate(2025, 1, 1),
			EndDate:   core.NewDate(2025, 1, 31),
		})
		if err != nil {
			t.Fatalf("insert %s: %v", name, err)
		}
		return rep
	}
	old := mk("old run")
	never := mk("never run")
	recent := mk("recent run")

	if err := s.MarkReportRun(ctx, old.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("mark old: %v", err)
	}
	if err := s.MarkReportRun(ctx, recent.ID, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("mark recent: %v", err)
	}

	list, err := s.ListReports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("reports = %d", len(list))
	}
	// Most recently run first, never-run reports last.
	if list[0].ID != recent.ID || list[1].ID != old.ID || list[2].ID != never.ID {
		t.Errorf("order = %q, %q, %q", list[0].Name, list[1].Name, list[2].Name)
	}
}
