// Package simulator is an in-process bank feed used in place of a real
// aggregator. Feeds are fixed per institution and external identifiers
// are stable, so repeated syncs exercise the same deduplication path a
// real feed would.
package simulator

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finflow/internal/bank"
	"finflow/internal/core"
)

type feedEntry struct {
	description string
	amount      string
	date        core.Date
}

type institution struct {
	name        string
	accountName string
	accountType string
	feed        []feedEntry
}

var institutions = map[string]institution{
	"chase": {
		name:        "Chase Bank",
		accountName: "Chase Checking",
		accountType: "checking",
		feed: []feedEntry{
			{"Starbucks Coffee", "-4.95", core.NewDate(2024, 1, 15)},
			{"Salary Direct Deposit", "3200.00", core.NewDate(2024, 1, 15)},
			{"Gas Station", "-45.20", core.NewDate(2024, 1, 14)},
			{"Amazon Purchase", "-89.99", core.NewDate(2024, 1, 13)},
			{"Electric Bill", "-127.45", core.NewDate(2024, 1, 12)},
		},
	},
	"bofa": {
		name:        "Bank of America",
		accountName: "BofA Checking",
		accountType: "checking",
		feed: []feedEntry{
			{"McDonald's", "-12.50", core.NewDate(2024, 1, 15)},
			{"Freelance Payment", "850.00", core.NewDate(2024, 1, 14)},
			{"Target", "-67.32", core.NewDate(2024, 1, 13)},
			{"Netflix Subscription", "-15.99", core.NewDate(2024, 1, 12)},
		},
	},
	"wells": {
		name:        "Wells Fargo",
		accountName: "Wells Fargo Checking",
		accountType: "checking",
		feed: []feedEntry{
			{"Uber Ride", "-18.75", core.NewDate(2024, 1, 15)},
			{"Investment Dividend", "125.00", core.NewDate(2024, 1, 14)},
			{"Grocery Store", "-156.42", core.NewDate(2024, 1, 13)},
			{"Internet Bill", "-79.99", core.NewDate(2024, 1, 12)},
		},
	},
}

type Simulator struct{}

func New() *Simulator { return &Simulator{} }

var (
	_ bank.Provider          = (*Simulator)(nil)
	_ bank.InstitutionLister = (*Simulator)(nil)
)

func (s *Simulator) BeginLink(_ context.Context, institutionID string) (bank.LinkSession, error) {
	inst, ok := institutions[institutionID]
	if !ok {
		return bank.LinkSession{}, fmt.Errorf("%w: %s", bank.ErrUnknownInstitution, institutionID)
	}
	return bank.LinkSession{
		PublicToken: "public-" + institutionID + "-" + uuid.NewString(),
		Metadata: core.LinkMetadata{
			InstitutionID:   institutionID,
			InstitutionName: inst.name,
			AccountName:     inst.accountName,
			AccountType:     inst.accountType,
		},
	}, nil
}

// defaultInstitutionID backs the feed for institutions the simulator
// does not know. An aggregator sandbox always hands data back, so an
// unknown institution serves the default feed instead of failing.
const defaultInstitutionID = "chase"

func (s *Simulator) FetchRawTransactions(ctx context.Context, institutionID string) ([]core.RawTransaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	feedID := institutionID
	inst, ok := institutions[feedID]
	if !ok {
		feedID = defaultInstitutionID
		inst = institutions[feedID]
	}

	out := make([]core.RawTransaction, 0, len(inst.feed))
	for i, e := range inst.feed {
		amt, err := decimal.NewFromString(e.amount)
		if err != nil {
			return nil, fmt.Errorf("parsing feed amount %q: %w", e.amount, err)
		}
		out = append(out, core.RawTransaction{
			// Stable per feed position, not per fetch. Keyed by the
			// feed actually served so fallback fetches still dedupe.
			ExternalID:   fmt.Sprintf("%s-txn-%03d", feedID, i+1),
			Description:  e.description,
			SignedAmount: amt,
			Date:         e.date,
		})
	}
	return out, nil
}

func (s *Simulator) ListInstitutions(_ context.Context) ([]core.LinkMetadata, error) {
	out := make([]core.LinkMetadata, 0, len(institutions))
	for id, inst := range institutions {
		out = append(out, core.LinkMetadata{
			InstitutionID:   id,
			InstitutionName: inst.name,
			AccountName:     inst.accountName,
			AccountType:     inst.accountType,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InstitutionID < out[j].InstitutionID })
	return out, nil
}
