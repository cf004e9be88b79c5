package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// MonthOverview is a compact income/spending summary for a specific
// year+month.
type MonthOverview struct {
	Year          int
	Month         int // 1-12
	Income        Money
	Expenses      Money
	Net           int64 // cents, may be negative
	ByCategory    []CategoryAmount
	BudgetedSpent []BudgetStatus
}

// BudgetStatus pairs a budget with the spending recorded against its
// category for the period.
type BudgetStatus struct {
	Category string
	Limit    Money
	Spent    Money
	Over     bool
}
