package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "finflow_test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func sampleTx(extID string) core.Transaction {
	return core.Transaction{
		Amount:      core.Money{Cents: 4520},
		Type:        core.Expense,
		Category:    "Transportation",
		Description: "Gas Station",
		Date:        core.NewDate(2025, 1, 14),
		ExternalID:  extID,
		AccountID:   "acc-ext-1",
	}
}

func TestTransactionRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.InsertTransaction(ctx, sampleTx("p1"))
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := repo.GetTransaction(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Description != "Gas Station" || got.Amount.Cents != 4520 ||
		got.Type != core.Expense || got.ExternalID != "p1" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Date.Year() != 2025 || got.Date.Month() != 1 || got.Date.Day() != 14 {
		t.Fatalf("date mismatch: %v", got.Date)
	}
}

func TestExternalIDUniqueIndex(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertTransaction(ctx, sampleTx("p1")); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := repo.InsertTransaction(ctx, sampleTx("p1"))
	if err == nil {
		t.Fatalf("expected duplicate rejection")
	}
	if !records.IsValidation(err) {
		t.Fatalf("duplicate must be a per-record failure, got %v", err)
	}

	// Manual entries carry no external id and never collide.
	if _, err := repo.InsertTransaction(ctx, sampleTx("")); err != nil {
		t.Fatalf("manual insert: %v", err)
	}
	if _, err := repo.InsertTransaction(ctx, sampleTx("")); err != nil {
		t.Fatalf("second manual insert: %v", err)
	}
}

func TestListExternalIDs(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2", ""} {
		if _, err := repo.InsertTransaction(ctx, sampleTx(id)); err != nil {
			t.Fatalf("insert %q: %v", id, err)
		}
	}

	ids, err := repo.ListExternalIDs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(ids))
	}
}

func TestListTransactionsByMonth(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	jan := sampleTx("p1")
	feb := sampleTx("p2")
	feb.Date = core.NewDate(2025, 2, 3)
	for _, tx := range []core.Transaction{jan, feb} {
		if _, err := repo.InsertTransaction(ctx, tx); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	got, err := repo.ListTransactionsByMonth(ctx, 2025, 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ExternalID != "p1" {
		t.Fatalf("unexpected month listing: %+v", got)
	}
}

func TestPendingExport(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	tx1, _ := repo.InsertTransaction(ctx, sampleTx("p1"))
	tx2, _ := repo.InsertTransaction(ctx, sampleTx("p2"))

	pending, err := repo.ListPendingExport(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(pending))
	}

	if err := repo.MarkExported(ctx, tx1.ID); err != nil {
		t.Fatalf("mark exported: %v", err)
	}
	pending, _ = repo.ListPendingExport(ctx, 10)
	if len(pending) != 1 || pending[0].ID != tx2.ID {
		t.Fatalf("unexpected pending: %+v", pending)
	}

	if err := repo.MarkExported(ctx, 999); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAccountLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a, err := repo.InsertAccount(ctx, core.ConnectedAccount{
		AccountExternalID: "ext-1",
		InstitutionID:     "chase",
		InstitutionName:   "Chase Bank",
		AccountName:       "Chase Checking",
		AccountType:       "checking",
		PublicToken:       "public-x",
		AccessToken:       "access-x",
		ConnectedAt:       core.NewDate(2025, 1, 1).Time,
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := repo.GetAccount(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.InstitutionID != "chase" || got.LastSync != nil {
		t.Fatalf("unexpected account: %+v", got)
	}

	syncedAt := time.Date(2025, 1, 20, 9, 15, 0, 0, time.UTC)
	if err := repo.UpdateLastSync(ctx, a.ID, syncedAt); err != nil {
		t.Fatalf("update last sync: %v", err)
	}
	got, _ = repo.GetAccount(ctx, a.ID)
	if got.LastSync == nil || !got.LastSync.Equal(syncedAt) {
		t.Fatalf("last sync not stamped: %+v", got.LastSync)
	}

	// An earlier stamp must not move the clock backwards.
	if err := repo.UpdateLastSync(ctx, a.ID, syncedAt.Add(-time.Hour)); err != nil {
		t.Fatalf("update last sync (earlier): %v", err)
	}
	got, _ = repo.GetAccount(ctx, a.ID)
	if got.LastSync == nil || !got.LastSync.Equal(syncedAt) {
		t.Fatalf("last sync moved backwards: %+v", got.LastSync)
	}

	if err := repo.DeleteAccount(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetAccount(ctx, a.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBudgetBillGoalCRUD(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	b, err := repo.InsertBudget(ctx, core.Budget{Category: "Food & Dining", Limit: core.Money{Cents: 40000}, Year: 2025, Month: 1})
	if err != nil {
		t.Fatalf("insert budget: %v", err)
	}
	b.Limit = core.Money{Cents: 50000}
	if err := repo.UpdateBudget(ctx, b); err != nil {
		t.Fatalf("update budget: %v", err)
	}
	budgets, _ := repo.ListBudgets(ctx, 2025, 1)
	if len(budgets) != 1 || budgets[0].Limit.Cents != 50000 {
		t.Fatalf("unexpected budgets: %+v", budgets)
	}

	bill, err := repo.InsertBill(ctx, core.Bill{Name: "Internet", Amount: core.Money{Cents: 7999}, DueDay: 12, Recurring: true})
	if err != nil {
		t.Fatalf("insert bill: %v", err)
	}
	bill.Paid = true
	if err := repo.UpdateBill(ctx, bill); err != nil {
		t.Fatalf("update bill: %v", err)
	}
	bills, _ := repo.ListBills(ctx)
	if len(bills) != 1 || !bills[0].Paid || !bills[0].Recurring {
		t.Fatalf("unexpected bills: %+v", bills)
	}

	g, err := repo.InsertGoal(ctx, core.Goal{Name: "Emergency Fund", Target: core.Money{Cents: 1000000}, Deadline: core.NewDate(2026, 6, 30)})
	if err != nil {
		t.Fatalf("insert goal: %v", err)
	}
	g.Saved = core.Money{Cents: 250000}
	if err := repo.UpdateGoal(ctx, g); err != nil {
		t.Fatalf("update goal: %v", err)
	}
	goals, _ := repo.ListGoals(ctx)
	if len(goals) != 1 || goals[0].Saved.Cents != 250000 || goals[0].Deadline.Year() != 2026 {
		t.Fatalf("unexpected goals: %+v", goals)
	}

	if err := repo.DeleteBudget(ctx, b.ID); err != nil {
		t.Fatalf("delete budget: %v", err)
	}
	if err := repo.DeleteBill(ctx, bill.ID); err != nil {
		t.Fatalf("delete bill: %v", err)
	}
	if err := repo.DeleteGoal(ctx, g.ID); err != nil {
		t.Fatalf("delete goal: %v", err)
	}
}

func TestReportRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.InsertReport(ctx, core.Report{
		Name:        "Year to date",
		Description: "Monthly summaries since January",
		Type:        core.ReportSummary,
		StartDate:   core.NewDate(2025, 1, 1),
		EndDate:     core.NewDate(2025, 6, 30),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if created.ID == 0 {
		t.Fatalf("expected assigned id")
	}

	got, err := repo.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != created.Name || got.Type != core.ReportSummary {
		t.Errorf("got %+v", got)
	}
	if !got.StartDate.Equal(created.StartDate.Time) || !got.EndDate.Equal(created.EndDate.Time) {
		t.Errorf("dates = %v .. %v", got.StartDate, got.EndDate)
	}
	if got.LastRun != nil {
		t.Errorf("new report should not carry a run stamp")
	}

	runAt := time.Date(2025, 7, 1, 10, 30, 0, 0, time.UTC)
	if err := repo.MarkReportRun(ctx, created.ID, runAt); err != nil {
		t.Fatalf("mark run: %v", err)
	}

	created.Description = "Monthly summaries, first half"
	if err := repo.UpdateReport(ctx, created); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = repo.GetReport(ctx, created.ID)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.LastRun == nil || !got.LastRun.Equal(runAt) {
		t.Errorf("editing the definition must keep the run stamp, got %v", got.LastRun)
	}

	if err := repo.DeleteReport(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetReport(ctx, created.ID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListReportsNeverRunLast(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ran, err := repo.InsertReport(ctx, core.Report{
		Name: "ran", Type: core.ReportDetail,
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 1, 31),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := repo.InsertReport(ctx, core.Report{
		Name: "fresh", Type: core.ReportChart,
		StartDate: core.NewDate(2025, 1, 1), EndDate: core.NewDate(2025, 1, 31),
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := repo.MarkReportRun(ctx, ran.ID, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("mark run: %v", err)
	}

	list, err := repo.ListReports(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "ran" || list[1].Name != "fresh" {
		t.Fatalf("unexpected order: %+v", list)
	}
}
