package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"

	_ "modernc.org/sqlite"
)

const dateFormat = "2006-01-02"

// SQLiteRepository is the durable record store. It satisfies every
// records port.
type SQLiteRepository struct {
	db *sql.DB
}

var _ records.Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) InsertTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, &records.ValidationError{Err: err}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO transactions (amount_cents, type, category, description, date, recurring, external_id, account_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Amount.Cents, string(tx.Type), tx.Category, tx.Description,
		tx.Date.Format(dateFormat), boolToInt(tx.Recurring), tx.ExternalID, tx.AccountID,
	)
	if err != nil {
		// The partial unique index enforces external id uniqueness; a
		// clash is a per-record failure, not a broken store.
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.Transaction{}, &records.ValidationError{Err: fmt.Errorf("duplicate external id %s", tx.ExternalID)}
		}
		return core.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("last insert id: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction saved to SQLite",
		"id", tx.ID,
		"description", tx.Description,
		"amount_cents", tx.Amount.Cents,
		"category", tx.Category)
	return tx, nil
}

const transactionColumns = `id, amount_cents, type, category, description, date, recurring, external_id, account_id`

func (r *SQLiteRepository) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) ListTransactionsByMonth(ctx context.Context, year, month int) ([]core.Transaction, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE date >= ? AND date < ? ORDER BY date DESC, id DESC`,
		start.Format(dateFormat), end.Format(dateFormat))
	if err != nil {
		return nil, fmt.Errorf("list transactions by month: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) ListExternalIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT external_id FROM transactions WHERE external_id <> ''`)
	if err != nil {
		return nil, fmt.Errorf("list external ids: %w", err)
	}
	defer rows.Close()

	ids := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan external id: %w", err)
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE transactions
		SET amount_cents = ?, type = ?, category = ?, description = ?, date = ?, recurring = ?
		WHERE id = ?`,
		tx.Amount.Cents, string(tx.Type), tx.Category, tx.Description,
		tx.Date.Format(dateFormat), boolToInt(tx.Recurring), tx.ID,
	)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) MarkExported(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions SET exported_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark exported: %w", err)
	}
	if err := requireRow(res); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Transaction marked as exported", "id", id)
	return nil
}

func (r *SQLiteRepository) ListPendingExport(ctx context.Context, limit int) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE exported_at IS NULL ORDER BY id ASC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("list pending export: %w", err)
	}
	defer rows.Close()
	return scanTransactions(rows)
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, records.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return tx, nil
}

func (r *SQLiteRepository) InsertAccount(ctx context.Context, a core.ConnectedAccount) (core.ConnectedAccount, error) {
	if err := a.Validate(); err != nil {
		return core.ConnectedAccount{}, &records.ValidationError{Err: err}
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO connected_accounts (account_external_id, institution_id, institution_name, account_name, account_type, public_token, access_token, connected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.AccountExternalID, a.InstitutionID, a.InstitutionName, a.AccountName,
		a.AccountType, a.PublicToken, a.AccessToken,
		a.ConnectedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return core.ConnectedAccount{}, &records.ValidationError{Err: fmt.Errorf("duplicate account external id %s", a.AccountExternalID)}
		}
		return core.ConnectedAccount{}, fmt.Errorf("insert account: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.ConnectedAccount{}, fmt.Errorf("last insert id: %w", err)
	}
	a.ID = id

	slog.InfoContext(ctx, "Connected account saved to SQLite",
		"id", a.ID, "institution", a.InstitutionName)
	return a, nil
}

const accountColumns = `id, account_external_id, institution_id, institution_name, account_name, account_type, public_token, access_token, connected_at, last_sync`

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.ConnectedAccount, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM connected_accounts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []core.ConnectedAccount
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id int64) (core.ConnectedAccount, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM connected_accounts WHERE id = ?`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ConnectedAccount{}, records.ErrNotFound
	}
	if err != nil {
		return core.ConnectedAccount{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) UpdateLastSync(ctx context.Context, id int64, syncedAt time.Time) error {
	// RFC3339 timestamps in UTC compare lexicographically, so the
	// non-decreasing clamp works as a plain string comparison.
	stamp := syncedAt.UTC().Format(time.RFC3339)
	res, err := r.db.ExecContext(ctx,
		`UPDATE connected_accounts
		 SET last_sync = CASE WHEN last_sync IS NULL OR last_sync < ? THEN ? ELSE last_sync END
		 WHERE id = ?`,
		stamp, stamp, id)
	if err != nil {
		return fmt.Errorf("update last sync: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM connected_accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) InsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, &records.ValidationError{Err: err}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, limit_cents, year, month) VALUES (?, ?, ?, ?)`,
		b.Category, b.Limit.Cents, b.Year, b.Month)
	if err != nil {
		return core.Budget{}, fmt.Errorf("insert budget: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Budget{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) ListBudgets(ctx context.Context, year, month int) ([]core.Budget, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, category, limit_cents, year, month FROM budgets WHERE year = ? AND month = ? ORDER BY id ASC`,
		year, month)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Limit.Cents, &b.Year, &b.Month); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBudget(ctx context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE budgets SET category = ?, limit_cents = ?, year = ?, month = ? WHERE id = ?`,
		b.Category, b.Limit.Cents, b.Year, b.Month, b.ID)
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) InsertBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, &records.ValidationError{Err: err}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (name, amount_cents, due_day, paid, recurring) VALUES (?, ?, ?, ?, ?)`,
		b.Name, b.Amount.Cents, b.DueDay, boolToInt(b.Paid), boolToInt(b.Recurring))
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("last insert id: %w", err)
	}
	b.ID = id
	return b, nil
}

func (r *SQLiteRepository) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, amount_cents, due_day, paid, recurring FROM bills ORDER BY due_day ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	var out []core.Bill
	for rows.Next() {
		var b core.Bill
		var paid, recurring int
		if err := rows.Scan(&b.ID, &b.Name, &b.Amount.Cents, &b.DueDay, &paid, &recurring); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		b.Paid = paid != 0
		b.Recurring = recurring != 0
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateBill(ctx context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET name = ?, amount_cents = ?, due_day = ?, paid = ?, recurring = ? WHERE id = ?`,
		b.Name, b.Amount.Cents, b.DueDay, boolToInt(b.Paid), boolToInt(b.Recurring), b.ID)
	if err != nil {
		return fmt.Errorf("update bill: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteBill(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) InsertGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, &records.ValidationError{Err: err}
	}
	var deadline interface{}
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateFormat)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO goals (name, target_cents, saved_cents, deadline) VALUES (?, ?, ?, ?)`,
		g.Name, g.Target.Cents, g.Saved.Cents, deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("insert goal: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Goal{}, fmt.Errorf("last insert id: %w", err)
	}
	g.ID = id
	return g, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, target_cents, saved_cents, deadline FROM goals ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var out []core.Goal
	for rows.Next() {
		var g core.Goal
		var deadline sql.NullString
		if err := rows.Scan(&g.ID, &g.Name, &g.Target.Cents, &g.Saved.Cents, &deadline); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if deadline.Valid {
			d, err := time.Parse(dateFormat, deadline.String)
			if err != nil {
				return nil, fmt.Errorf("parse goal deadline: %w", err)
			}
			g.Deadline = core.DateOf(d)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	var deadline interface{}
	if !g.Deadline.IsZero() {
		deadline = g.Deadline.Format(dateFormat)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE goals SET name = ?, target_cents = ?, saved_cents = ?, deadline = ? WHERE id = ?`,
		g.Name, g.Target.Cents, g.Saved.Cents, deadline, g.ID)
	if err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return requireRow(res)
}

const reportColumns = `id, name, description, type, start_date, end_date, last_run`

func (r *SQLiteRepository) InsertReport(ctx context.Context, rep core.Report) (core.Report, error) {
	if err := rep.Validate(); err != nil {
		return core.Report{}, &records.ValidationError{Err: err}
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO reports (name, description, type, start_date, end_date) VALUES (?, ?, ?, ?, ?)`,
		rep.Name, rep.Description, string(rep.Type),
		rep.StartDate.Format(dateFormat), rep.EndDate.Format(dateFormat))
	if err != nil {
		return core.Report{}, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return core.Report{}, fmt.Errorf("last insert id: %w", err)
	}
	rep.ID = id
	rep.LastRun = nil
	return rep, nil
}

func (r *SQLiteRepository) ListReports(ctx context.Context) ([]core.Report, error) {
	// Most recently run first; reports that never ran sort last.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports
		 ORDER BY last_run IS NULL ASC, last_run DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var out []core.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetReport(ctx context.Context, id int64) (core.Report, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	rep, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Report{}, records.ErrNotFound
	}
	if err != nil {
		return core.Report{}, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

func (r *SQLiteRepository) UpdateReport(ctx context.Context, rep core.Report) error {
	if err := rep.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	// last_run is untouched so the run stamp survives definition edits.
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET name = ?, description = ?, type = ?, start_date = ?, end_date = ? WHERE id = ?`,
		rep.Name, rep.Description, string(rep.Type),
		rep.StartDate.Format(dateFormat), rep.EndDate.Format(dateFormat), rep.ID)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) DeleteReport(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	return requireRow(res)
}

func (r *SQLiteRepository) MarkReportRun(ctx context.Context, id int64, runAt time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE reports SET last_run = ? WHERE id = ?`,
		runAt.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("mark report run: %w", err)
	}
	return requireRow(res)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var tx core.Transaction
	var txType, date string
	var recurring int
	if err := row.Scan(&tx.ID, &tx.Amount.Cents, &txType, &tx.Category,
		&tx.Description, &date, &recurring, &tx.ExternalID, &tx.AccountID); err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TxType(txType)
	tx.Recurring = recurring != 0

	d, err := time.Parse(dateFormat, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("parse transaction date: %w", err)
	}
	tx.Date = core.DateOf(d)
	return tx, nil
}

func scanTransactions(rows *sql.Rows) ([]core.Transaction, error) {
	var out []core.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

func scanAccount(row scanner) (core.ConnectedAccount, error) {
	var a core.ConnectedAccount
	var connectedAt string
	var lastSync sql.NullString
	if err := row.Scan(&a.ID, &a.AccountExternalID, &a.InstitutionID, &a.InstitutionName,
		&a.AccountName, &a.AccountType, &a.PublicToken, &a.AccessToken,
		&connectedAt, &lastSync); err != nil {
		return core.ConnectedAccount{}, err
	}

	t, err := time.Parse(time.RFC3339, connectedAt)
	if err != nil {
		return core.ConnectedAccount{}, fmt.Errorf("parse connected_at: %w", err)
	}
	a.ConnectedAt = t

	if lastSync.Valid {
		s, err := time.Parse(time.RFC3339, lastSync.String)
		if err != nil {
			// Rows written before sync times carried a time of day.
			s, err = time.Parse(dateFormat, lastSync.String)
			if err != nil {
				return core.ConnectedAccount{}, fmt.Errorf("parse last_sync: %w", err)
			}
		}
		a.LastSync = &s
	}
	return a, nil
}

func scanReport(row scanner) (core.Report, error) {
	var rep core.Report
	var repType, start, end string
	var lastRun sql.NullString
	if err := row.Scan(&rep.ID, &rep.Name, &rep.Description, &repType,
		&start, &end, &lastRun); err != nil {
		return core.Report{}, err
	}
	rep.Type = core.ReportType(repType)

	s, err := time.Parse(dateFormat, start)
	if err != nil {
		return core.Report{}, fmt.Errorf("parse report start date: %w", err)
	}
	rep.StartDate = core.DateOf(s)

	e, err := time.Parse(dateFormat, end)
	if err != nil {
		return core.Report{}, fmt.Errorf("parse report end date: %w", err)
	}
	rep.EndDate = core.DateOf(e)

	if lastRun.Valid {
		t, err := time.Parse(time.RFC3339, lastRun.String)
		if err != nil {
			return core.Report{}, fmt.Errorf("parse report last_run: %w", err)
		}
		rep.LastRun = &t
	}
	return rep, nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return records.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
