package http

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"finflow/internal/core"
	"finflow/internal/services"
)

const dateLayout = "2006-01-02"

// Wire representations. Amounts travel as decimal strings ("12.50"),
// dates as YYYY-MM-DD. Access tokens never leave the server.
type (
	transactionJSON struct {
		ID          int64  `json:"id"`
		Amount      string `json:"amount"`
		Type        string `json:"type"`
		Category    string `json:"category"`
		Description string `json:"description"`
		Date        string `json:"date"`
		Recurring   bool   `json:"recurring"`
		ExternalID  string `json:"externalId,omitempty"`
		AccountID   string `json:"accountId,omitempty"`
	}

	transactionRequest struct {
		Amount      json.Number `json:"amount"`
		Type        string      `json:"type"`
		Category    string      `json:"category"`
		Description string      `json:"description"`
		Date        string      `json:"date"`
		Recurring   bool        `json:"recurring"`
		AccountID   string      `json:"accountId"`
	}

	accountJSON struct {
		ID              int64  `json:"id"`
		InstitutionID   string `json:"institutionId"`
		InstitutionName string `json:"institutionName"`
		AccountName     string `json:"accountName"`
		AccountType     string `json:"accountType"`
		ConnectedAt     string `json:"connectedAt"`
		LastSync        string `json:"lastSync,omitempty"`
	}

	linkRequest struct {
		InstitutionID string `json:"institutionId"`
	}

	institutionJSON struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		AccountName string `json:"accountName"`
		AccountType string `json:"accountType"`
	}

	syncResultJSON struct {
		Imported          int    `json:"imported"`
		DuplicatesSkipped int    `json:"duplicatesSkipped"`
		AccountName       string `json:"accountName"`
	}

	budgetJSON struct {
		ID       int64  `json:"id"`
		Category string `json:"category"`
		Limit    string `json:"limit"`
		Year     int    `json:"year"`
		Month    int    `json:"month"`
	}

	budgetRequest struct {
		Category string      `json:"category"`
		Limit    json.Number `json:"limit"`
		Year     int         `json:"year"`
		Month    int         `json:"month"`
	}

	billJSON struct {
		ID        int64  `json:"id"`
		Name      string `json:"name"`
		Amount    string `json:"amount"`
		DueDay    int    `json:"dueDay"`
		Paid      bool   `json:"paid"`
		Recurring bool   `json:"recurring"`
		Status    string `json:"status,omitempty"`
	}

	billRequest struct {
		Name      string      `json:"name"`
		Amount    json.Number `json:"amount"`
		DueDay    int         `json:"dueDay"`
		Paid      bool        `json:"paid"`
		Recurring bool        `json:"recurring"`
	}

	goalJSON struct {
		ID       int64  `json:"id"`
		Name     string `json:"name"`
		Target   string `json:"target"`
		Saved    string `json:"saved"`
		Deadline string `json:"deadline,omitempty"`
	}

	goalRequest struct {
		Name     string      `json:"name"`
		Target   json.Number `json:"target"`
		Saved    json.Number `json:"saved"`
		Deadline string      `json:"deadline"`
	}

	categoryAmountJSON struct {
		Name   string `json:"name"`
		Amount string `json:"amount"`
	}

	budgetStatusJSON struct {
		Category string `json:"category"`
		Limit    string `json:"limit"`
		Spent    string `json:"spent"`
		Over     bool   `json:"over"`
	}

	overviewJSON struct {
		Year          int                  `json:"year"`
		Month         int                  `json:"month"`
		Income        string               `json:"income"`
		Expenses      string               `json:"expenses"`
		Net           string               `json:"net"`
		ByCategory    []categoryAmountJSON `json:"byCategory"`
		BudgetedSpent []budgetStatusJSON   `json:"budgetedSpent"`
	}

	reportJSON struct {
		ID          int64  `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Type        string `json:"type"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
		LastRun     string `json:"lastRun,omitempty"`
	}

	reportRequest struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		StartDate   string `json:"startDate"`
		EndDate     string `json:"endDate"`
	}

	reportRunJSON struct {
		Report       reportJSON        `json:"report"`
		Overviews    []overviewJSON    `json:"overviews,omitempty"`
		Transactions []transactionJSON `json:"transactions,omitempty"`
	}
)

func toTransactionJSON(t core.Transaction) transactionJSON {
	return transactionJSON{
		ID:          t.ID,
		Amount:      t.Amount.String(),
		Type:        string(t.Type),
		Category:    t.Category,
		Description: t.Description,
		Date:        t.Date.Format(dateLayout),
		Recurring:   t.Recurring,
		ExternalID:  t.ExternalID,
		AccountID:   t.AccountID,
	}
}

func toTransactionListJSON(items []core.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(items))
	for _, t := range items {
		out = append(out, toTransactionJSON(t))
	}
	return out
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return core.Transaction{}, err
	}

	return core.Transaction{
		Amount:      amount,
		Type:        core.TxType(req.Type),
		Category:    strings.TrimSpace(req.Category),
		Description: sanitizeInput(req.Description),
		Date:        date,
		Recurring:   req.Recurring,
		AccountID:   strings.TrimSpace(req.AccountID),
	}, nil
}

func toAccountJSON(a core.ConnectedAccount) accountJSON {
	out := accountJSON{
		ID:              a.ID,
		InstitutionID:   a.InstitutionID,
		InstitutionName: a.InstitutionName,
		AccountName:     a.AccountName,
		AccountType:     a.AccountType,
		ConnectedAt:     a.ConnectedAt.Format(time.RFC3339),
	}
	if a.LastSync != nil {
		out.LastSync = a.LastSync.UTC().Format(time.RFC3339)
	}
	return out
}

func toSyncResultJSON(r core.SyncResult) syncResultJSON {
	return syncResultJSON{
		Imported:          r.Imported,
		DuplicatesSkipped: r.DuplicatesSkipped,
		AccountName:       r.AccountName,
	}
}

func toBudgetJSON(b core.Budget) budgetJSON {
	return budgetJSON{
		ID:       b.ID,
		Category: b.Category,
		Limit:    b.Limit.String(),
		Year:     b.Year,
		Month:    b.Month,
	}
}

func (req budgetRequest) toDomain() (core.Budget, error) {
	limit, err := parseAmount(req.Limit)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		Category: strings.TrimSpace(req.Category),
		Limit:    limit,
		Year:     req.Year,
		Month:    req.Month,
	}, nil
}

func toBillJSON(b services.BillWithStatus) billJSON {
	return billJSON{
		ID:        b.ID,
		Name:      b.Name,
		Amount:    b.Amount.String(),
		DueDay:    b.DueDay,
		Paid:      b.Paid,
		Recurring: b.Recurring,
		Status:    string(b.Status),
	}
}

func (req billRequest) toDomain() (core.Bill, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Bill{}, err
	}
	return core.Bill{
		Name:      sanitizeInput(req.Name),
		Amount:    amount,
		DueDay:    req.DueDay,
		Paid:      req.Paid,
		Recurring: req.Recurring,
	}, nil
}

func toGoalJSON(g core.Goal) goalJSON {
	out := goalJSON{
		ID:     g.ID,
		Name:   g.Name,
		Target: g.Target.String(),
		Saved:  g.Saved.String(),
	}
	if !g.Deadline.IsZero() {
		out.Deadline = g.Deadline.Format(dateLayout)
	}
	return out
}

func (req goalRequest) toDomain() (core.Goal, error) {
	target, err := parseAmount(req.Target)
	if err != nil {
		return core.Goal{}, err
	}

	saved := core.Money{}
	if req.Saved != "" {
		saved, err = parseAmount(req.Saved)
		if err != nil {
			return core.Goal{}, err
		}
	}

	g := core.Goal{
		Name:   sanitizeInput(req.Name),
		Target: target,
		Saved:  saved,
	}
	if strings.TrimSpace(req.Deadline) != "" {
		deadline, err := parseDate(req.Deadline)
		if err != nil {
			return core.Goal{}, err
		}
		g.Deadline = deadline
	}
	return g, nil
}

func toOverviewJSON(ov core.MonthOverview) overviewJSON {
	out := overviewJSON{
		Year:          ov.Year,
		Month:         ov.Month,
		Income:        ov.Income.String(),
		Expenses:      ov.Expenses.String(),
		Net:           core.Money{Cents: ov.Net}.Decimal().StringFixed(2),
		ByCategory:    make([]categoryAmountJSON, 0, len(ov.ByCategory)),
		BudgetedSpent: make([]budgetStatusJSON, 0, len(ov.BudgetedSpent)),
	}
	for _, c := range ov.ByCategory {
		out.ByCategory = append(out.ByCategory, categoryAmountJSON{
			Name:   c.Name,
			Amount: c.Amount.String(),
		})
	}
	for _, b := range ov.BudgetedSpent {
		out.BudgetedSpent = append(out.BudgetedSpent, budgetStatusJSON{
			Category: b.Category,
			Limit:    b.Limit.String(),
			Spent:    b.Spent.String(),
			Over:     b.Over,
		})
	}
	return out
}

func toReportJSON(rep core.Report) reportJSON {
	out := reportJSON{
		ID:          rep.ID,
		Name:        rep.Name,
		Description: rep.Description,
		Type:        string(rep.Type),
		StartDate:   rep.StartDate.Format(dateLayout),
		EndDate:     rep.EndDate.Format(dateLayout),
	}
	if rep.LastRun != nil {
		out.LastRun = rep.LastRun.UTC().Format(time.RFC3339)
	}
	return out
}

func (req reportRequest) toDomain() (core.Report, error) {
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.Report{}, err
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return core.Report{}, err
	}
	return core.Report{
		Name:        sanitizeInput(req.Name),
		Description: sanitizeInput(req.Description),
		Type:        core.ReportType(strings.TrimSpace(req.Type)),
		StartDate:   start,
		EndDate:     end,
	}, nil
}

func toReportRunJSON(run services.ReportRun) reportRunJSON {
	out := reportRunJSON{Report: toReportJSON(run.Report)}
	for _, ov := range run.Overviews {
		out.Overviews = append(out.Overviews, toOverviewJSON(ov))
	}
	if run.Transactions != nil {
		out.Transactions = toTransactionListJSON(run.Transactions)
	}
	return out
}

func parseAmount(n json.Number) (core.Money, error) {
	s := strings.TrimSpace(n.String())
	if s == "" {
		return core.Money{}, fmt.Errorf("missing amount")
	}
	return core.ParseMoney(s)
}

func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return core.DateOf(t), nil
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
