// Package memory is an in-memory record store used in tests and for
// local runs without a database file.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
)

type Store struct {
	mu sync.Mutex

	nextTxID      int64
	nextAccountID int64
	nextBudgetID  int64
	nextBillID    int64
	nextGoalID    int64
	nextReportID  int64

	transactions []core.Transaction
	exported     map[int64]bool
	accounts     []core.ConnectedAccount
	budgets      []core.Budget
	bills        []core.Bill
	goals        []core.Goal
	reports      []core.Report
}

func New() *Store {
	return &Store{
		nextTxID:      1,
		nextAccountID: 1,
		nextBudgetID:  1,
		nextBillID:    1,
		nextGoalID:    1,
		nextReportID:  1,
		exported:      map[int64]bool{},
	}
}

var _ records.Store = (*Store)(nil)

func (s *Store) InsertTransaction(_ context.Context, tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	tx.ID = s.nextTxID
	s.nextTxID++
	s.transactions = append(s.transactions, tx)
	return tx, nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range s.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, records.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) ListTransactionsByMonth(_ context.Context, year, month int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.transactions {
		if tx.Date.Year() == year && tx.Date.Month() == month {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (s *Store) ListExternalIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make(map[string]struct{}, len(s.transactions))
	for _, tx := range s.transactions {
		if tx.ExternalID != "" {
			ids[tx.ExternalID] = struct{}{}
		}
	}
	return ids, nil
}

func (s *Store) UpdateTransaction(_ context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == tx.ID {
			s.transactions[i] = tx
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteTransaction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions = append(s.transactions[:i], s.transactions[i+1:]...)
			delete(s.exported, id)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) MarkExported(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.exported[id] = true
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) ListPendingExport(_ context.Context, limit int) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Transaction
	for _, tx := range s.transactions {
		if s.exported[tx.ID] {
			continue
		}
		out = append(out, tx)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) InsertAccount(_ context.Context, a core.ConnectedAccount) (core.ConnectedAccount, error) {
	if err := a.Validate(); err != nil {
		return core.ConnectedAccount{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.nextAccountID
	s.nextAccountID++
	s.accounts = append(s.accounts, a)
	return a, nil
}

func (s *Store) ListAccounts(_ context.Context) ([]core.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.ConnectedAccount(nil), s.accounts...), nil
}

func (s *Store) GetAccount(_ context.Context, id int64) (core.ConnectedAccount, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return core.ConnectedAccount{}, records.ErrNotFound
}

func (s *Store) UpdateLastSync(_ context.Context, id int64, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			t := syncedAt.UTC()
			if prev := s.accounts[i].LastSync; prev != nil && t.Before(*prev) {
				return nil
			}
			s.accounts[i].LastSync = &t
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteAccount(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) InsertBudget(_ context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextBudgetID
	s.nextBudgetID++
	s.budgets = append(s.budgets, b)
	return b, nil
}

func (s *Store) ListBudgets(_ context.Context, year, month int) ([]core.Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.Budget
	for _, b := range s.budgets {
		if b.Year == year && b.Month == month {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) UpdateBudget(_ context.Context, b core.Budget) error {
	if err := b.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == b.ID {
			s.budgets[i] = b
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteBudget(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.budgets {
		if s.budgets[i].ID == id {
			s.budgets = append(s.budgets[:i], s.budgets[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) InsertBill(_ context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b.ID = s.nextBillID
	s.nextBillID++
	s.bills = append(s.bills, b)
	return b, nil
}

func (s *Store) ListBills(_ context.Context) ([]core.Bill, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Bill(nil), s.bills...), nil
}

func (s *Store) UpdateBill(_ context.Context, b core.Bill) error {
	if err := b.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID == b.ID {
			s.bills[i] = b
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteBill(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bills {
		if s.bills[i].ID == id {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) InsertGoal(_ context.Context, g core.Goal) (core.Goal, error) {
	if err := g.Validate(); err != nil {
		return core.Goal{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.nextGoalID
	s.nextGoalID++
	s.goals = append(s.goals, g)
	return g, nil
}

func (s *Store) ListGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Goal(nil), s.goals...), nil
}

func (s *Store) UpdateGoal(_ context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == g.ID {
			s.goals[i] = g
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteGoal(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.goals {
		if s.goals[i].ID == id {
			s.goals = append(s.goals[:i], s.goals[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) InsertReport(_ context.Context, r core.Report) (core.Report, error) {
	if err := r.Validate(); err != nil {
		return core.Report{}, &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.nextReportID
	s.nextReportID++
	r.LastRun = nil
	s.reports = append(s.reports, r)
	return r, nil
}

func (s *Store) ListReports(_ context.Context) ([]core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]core.Report(nil), s.reports...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].LastRun, out[j].LastRun
		switch {
		case a != nil && b != nil:
			return a.After(*b)
		case a != nil:
			return true
		default:
			return false
		}
	})
	return out, nil
}

func (s *Store) GetReport(_ context.Context, id int64) (core.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reports {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Report{}, records.ErrNotFound
}

func (s *Store) UpdateReport(_ context.Context, r core.Report) error {
	if err := r.Validate(); err != nil {
		return &records.ValidationError{Err: err}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == r.ID {
			// The run stamp survives definition edits.
			r.LastRun = s.reports[i].LastRun
			s.reports[i] = r
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) DeleteReport(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			s.reports = append(s.reports[:i], s.reports[i+1:]...)
			return nil
		}
	}
	return records.ErrNotFound
}

func (s *Store) MarkReportRun(_ context.Context, id int64, runAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.reports {
		if s.reports[i].ID == id {
			t := runAt.UTC()
			s.reports[i].LastRun = &t
			return nil
		}
	}
	return records.ErrNotFound
}
