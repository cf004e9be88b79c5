// Package categorize maps a raw transaction's description and signed
// amount to a transaction type and category using ordered keyword rules.
// The mapping is a pure function: same input, same answer, no state.
package categorize

import (
	"strings"

	"github.com/shopspring/decimal"

	"finflow/internal/core"
)

// Uncategorized is the fallback bucket for debits no rule recognizes.
// It is a best-effort default, not an authoritative classification.
const Uncategorized = "Uncategorized"

// incomePatterns are checked first. Any match classifies the
// transaction as income regardless of the category table below, so a
// credited interest payment never lands in the Finance expense bucket.
var incomePatterns = []string{
	"salary",
	"payroll",
	"paycheck",
	"direct deposit",
	"deposit",
	"refund",
	"reimburse",
	"interest",
	"dividend",
}

type rule struct {
	category string
	txType   core.TxType
	patterns []string
}

// rules is an ordered table. The first category with a matching pattern
// wins; order is the tie-break, so specific merchants come before
// generic words.
var rules = []rule{
	{"Food & Dining", core.Expense, []string{
		"starbucks", "coffee", "mcdonald", "restaurant", "cafe",
		"pizza", "burger", "doordash", "dining", "food",
	}},
	{"Transportation", core.Expense, []string{
		"gas station", "shell", "chevron", "exxon", "uber", "lyft",
		"transit", "parking", "fuel", "gas",
	}},
	{"Shopping", core.Expense, []string{
		"amazon", "target", "walmart", "best buy", "ebay", "purchase",
	}},
	{"Entertainment", core.Expense, []string{
		"netflix", "spotify", "hulu", "disney", "cinema", "movie", "concert",
	}},
	{"Utilities", core.Expense, []string{
		"electric", "power", "water", "internet", "wifi", "phone",
		"cable", "utility", "bill",
	}},
	{"Healthcare", core.Expense, []string{
		"pharmacy", "cvs", "walgreens", "doctor", "dental", "medical",
		"clinic", "hospital",
	}},
	{"Finance", core.Expense, []string{
		"atm", "bank fee", "transfer", "loan", "insurance",
	}},
	{"Groceries", core.Expense, []string{
		"grocery", "supermarket", "whole foods", "trader joe", "safeway", "kroger",
	}},
	{"Salary", core.Income, []string{
		"wages", "paycheck",
	}},
	{"Freelance", core.Income, []string{
		"freelance", "upwork", "fiverr", "invoice",
	}},
	{"Investment", core.Income, []string{
		"investment", "dividend", "brokerage", "vanguard", "robinhood",
	}},
	{"Other Income", core.Income, []string{
		"cashback", "bonus", "rebate",
	}},
}

// Categorize classifies a transaction from its description and signed
// amount. Matching is case-insensitive substring containment.
//
// Resolution order: income-indicating keywords, then the category
// table in declaration order, then a sign-based default. A zero amount
// falls through to the expense default.
func Categorize(description string, signedAmount decimal.Decimal) (core.TxType, string) {
	desc := strings.ToLower(description)

	for _, p := range incomePatterns {
		if strings.Contains(desc, p) {
			return core.Income, "Income"
		}
	}

	for _, r := range rules {
		for _, p := range r.patterns {
			if strings.Contains(desc, p) {
				return r.txType, r.category
			}
		}
	}

	if signedAmount.IsPositive() {
		return core.Income, "Income"
	}
	return core.Expense, Uncategorized
}
