package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
)

// ReportService aggregates transactions into monthly overviews and
// runs saved report definitions.
type ReportService struct {
	transactions records.TransactionStore
	budgets      records.BudgetStore
	reports      records.ReportStore
}

func NewReportService(transactions records.TransactionStore, budgets records.BudgetStore, reports records.ReportStore) *ReportService {
	return &ReportService{transactions: transactions, budgets: budgets, reports: reports}
}

// MonthOverview builds the income/spending summary for a year+month,
// including per-category expense totals and budget status.
func (s *ReportService) MonthOverview(ctx context.Context, year, month int) (core.MonthOverview, error) {
	txs, err := s.transactions.ListTransactionsByMonth(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("list transactions: %w", err)
	}

	overview := core.MonthOverview{Year: year, Month: month}
	byCategory := map[string]int64{}
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			overview.Income = overview.Income.Add(tx.Amount)
		case core.Expense:
			overview.Expenses = overview.Expenses.Add(tx.Amount)
			byCategory[tx.Category] += tx.Amount.Cents
		}
	}
	overview.Net = overview.Income.Cents - overview.Expenses.Cents

	for name, cents := range byCategory {
		overview.ByCategory = append(overview.ByCategory, core.CategoryAmount{
			Name:   name,
			Amount: core.Money{Cents: cents},
		})
	}
	sort.Slice(overview.ByCategory, func(i, j int) bool {
		if overview.ByCategory[i].Amount.Cents != overview.ByCategory[j].Amount.Cents {
			return overview.ByCategory[i].Amount.Cents > overview.ByCategory[j].Amount.Cents
		}
		return overview.ByCategory[i].Name < overview.ByCategory[j].Name
	})

	budgets, err := s.budgets.ListBudgets(ctx, year, month)
	if err != nil {
		return core.MonthOverview{}, fmt.Errorf("list budgets: %w", err)
	}
	for _, b := range budgets {
		spent := spentForCategory(byCategory, b.Category)
		overview.BudgetedSpent = append(overview.BudgetedSpent, core.BudgetStatus{
			Category: b.Category,
			Limit:    b.Limit,
			Spent:    core.Money{Cents: spent},
			Over:     spent > b.Limit.Cents,
		})
	}
	return overview, nil
}

// ReportRun is the output of executing a saved report. Overviews is
// populated for summary and chart reports, Transactions for detail
// reports.
type ReportRun struct {
	Report       core.Report
	Overviews    []core.MonthOverview
	Transactions []core.Transaction
}

// RunReport executes a saved report over its date range, one calendar
// month at a time, and stamps the run time on the definition.
func (s *ReportService) RunReport(ctx context.Context, id int64) (ReportRun, error) {
	rep, err := s.reports.GetReport(ctx, id)
	if err != nil {
		return ReportRun{}, err
	}

	run := ReportRun{Report: rep}
	start := time.Date(rep.StartDate.Year(), time.Month(rep.StartDate.Month()), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(rep.EndDate.Year(), time.Month(rep.EndDate.Month()), 1, 0, 0, 0, 0, time.UTC)
	for cursor := start; !cursor.After(end); cursor = cursor.AddDate(0, 1, 0) {
		year, month := cursor.Year(), int(cursor.Month())
		switch rep.Type {
		case core.ReportDetail:
			txs, err := s.transactions.ListTransactionsByMonth(ctx, year, month)
			if err != nil {
				return ReportRun{}, fmt.Errorf("list transactions: %w", err)
			}
			run.Transactions = append(run.Transactions, txs...)
		default:
			overview, err := s.MonthOverview(ctx, year, month)
			if err != nil {
				return ReportRun{}, err
			}
			run.Overviews = append(run.Overviews, overview)
		}
	}

	now := time.Now().UTC()
	if err := s.reports.MarkReportRun(ctx, id, now); err != nil {
		return ReportRun{}, fmt.Errorf("mark report run: %w", err)
	}
	run.Report.LastRun = &now
	return run, nil
}

// Budget categories are user-entered; match them case-insensitively
// against categorizer output.
func spentForCategory(byCategory map[string]int64, category string) int64 {
	for name, cents := range byCategory {
		if strings.EqualFold(name, category) {
			return cents
		}
	}
	return 0
}
