package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"finflow/internal/core"
)

func raw(id, desc string) core.RawTransaction {
	return core.RawTransaction{
		ExternalID:   id,
		Description:  desc,
		SignedAmount: decimal.NewFromInt(-10),
		Date:         core.NewDate(2025, 1, 1),
	}
}

func TestDedupePartition(t *testing.T) {
	existing := map[string]struct{}{"p2": {}}
	candidates := []core.RawTransaction{raw("p1", "a"), raw("p2", "b"), raw("p3", "c")}

	toInsert, skipped := Dedupe(candidates, existing)
	if skipped != 1 {
		t.Fatalf("skipped = %d, want 1", skipped)
	}
	if len(toInsert) != 2 || toInsert[0].ExternalID != "p1" || toInsert[1].ExternalID != "p3" {
		t.Fatalf("partition not stable: %+v", toInsert)
	}
}

func TestDedupeEmptyExternalIDAlwaysInserts(t *testing.T) {
	existing := map[string]struct{}{"p1": {}}
	candidates := []core.RawTransaction{raw("", "manual"), raw("", "manual")}

	toInsert, skipped := Dedupe(candidates, existing)
	if skipped != 0 {
		t.Fatalf("skipped = %d, want 0", skipped)
	}
	if len(toInsert) != 2 {
		t.Fatalf("expected both inserted, got %d", len(toInsert))
	}
}

func TestDedupeAllKnown(t *testing.T) {
	existing := map[string]struct{}{"p1": {}, "p2": {}}
	toInsert, skipped := Dedupe([]core.RawTransaction{raw("p1", "a"), raw("p2", "b")}, existing)
	if skipped != 2 || len(toInsert) != 0 {
		t.Fatalf("got toInsert=%d skipped=%d, want 0/2", len(toInsert), skipped)
	}
}
