package records

import (
	"context"
	"time"

	"finflow/internal/core"
)

// Ports for outbound record stores. The memory and sqlite adapters
// implement these; services depend only on the interfaces.
type (
	TransactionStore interface {
		// InsertTransaction persists a transaction and returns it with
		// the assigned ID.
		InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error)

		GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
		ListTransactions(ctx context.Context) ([]core.Transaction, error)

		// ListTransactionsByMonth returns transactions dated within the
		// given year+month.
		ListTransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error)

		// ListExternalIDs returns the non-empty external identifiers of
		// every persisted transaction, used as the deduplication set.
		ListExternalIDs(ctx context.Context) (map[string]struct{}, error)

		UpdateTransaction(ctx context.Context, tx core.Transaction) error
		DeleteTransaction(ctx context.Context, id int64) error

		// MarkExported records that a transaction has been mirrored to
		// the external ledger.
		MarkExported(ctx context.Context, id int64) error

		// ListPendingExport returns transactions not yet mirrored, up
		// to limit.
		ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error)
	}

	AccountStore interface {
		InsertAccount(ctx context.Context, a core.ConnectedAccount) (core.ConnectedAccount, error)
		ListAccounts(ctx context.Context) ([]core.ConnectedAccount, error)
		GetAccount(ctx context.Context, id int64) (core.ConnectedAccount, error)

		// UpdateLastSync stamps the account's last successful sync
		// time. Implementations keep the stamp non-decreasing: an
		// earlier timestamp never overwrites a later one.
		UpdateLastSync(ctx context.Context, id int64, syncedAt time.Time) error

		// DeleteAccount removes the account row only. Transactions
		// already imported for it are kept.
		DeleteAccount(ctx context.Context, id int64) error
	}

	BudgetStore interface {
		InsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
		ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error)
		UpdateBudget(ctx context.Context, b core.Budget) error
		DeleteBudget(ctx context.Context, id int64) error
	}

	BillStore interface {
		InsertBill(ctx context.Context, b core.Bill) (core.Bill, error)
		ListBills(ctx context.Context) ([]core.Bill, error)
		UpdateBill(ctx context.Context, b core.Bill) error
		DeleteBill(ctx context.Context, id int64) error
	}

	GoalStore interface {
		InsertGoal(ctx context.Context, g core.Goal) (core.Goal, error)
		ListGoals(ctx context.Context) ([]core.Goal, error)
		UpdateGoal(ctx context.Context, g core.Goal) error
		DeleteGoal(ctx context.Context, id int64) error
	}

	ReportStore interface {
		InsertReport(ctx context.Context, r core.Report) (core.Report, error)

		// ListReports orders by most recently run first; reports that
		// have never run come last.
		ListReports(ctx context.Context) ([]core.Report, error)

		GetReport(ctx context.Context, id int64) (core.Report, error)
		UpdateReport(ctx context.Context, r core.Report) error
		DeleteReport(ctx context.Context, id int64) error

		// MarkReportRun stamps when the report was last executed.
		MarkReportRun(ctx context.Context, id int64, runAt time.Time) error
	}

	// Store bundles every port. Both adapters satisfy it.
	Store interface {
		TransactionStore
		AccountStore
		BudgetStore
		BillStore
		GoalStore
		ReportStore
	}
)
