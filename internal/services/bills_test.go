package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
	"finflow/internal/records/memory"
)

func TestClassifyBill(t *testing.T) {
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name string
		bill core.Bill
		want BillStatus
	}{
		{"paid wins", core.Bill{Name: "Rent", Amount: core.Money{Cents: 1}, DueDay: 1, Paid: true}, BillPaid},
		{"past due day", core.Bill{Name: "Rent", Amount: core.Money{Cents: 1}, DueDay: 10}, BillOverdue},
		{"due today", core.Bill{Name: "Power", Amount: core.Money{Cents: 1}, DueDay: 15}, BillDueSoon},
		{"due within week", core.Bill{Name: "Water", Amount: core.Money{Cents: 1}, DueDay: 22}, BillDueSoon},
		{"far out", core.Bill{Name: "Insurance", Amount: core.Money{Cents: 1}, DueDay: 28}, BillUpcoming},
	}
	for _, tc := range cases {
		if got := ClassifyBill(tc.bill, now); got != tc.want {
			t.Errorf("%s: got %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestClassifyBillClampsDueDay(t *testing.T) {
	// Due on the 31st in February: clamped to the 28th.
	feb := time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC)
	b := core.Bill{Name: "Rent", Amount: core.Money{Cents: 1}, DueDay: 31}
	if got := ClassifyBill(b, feb); got != BillDueSoon {
		t.Errorf("got %s, want %s", got, BillDueSoon)
	}
}

func TestBillServiceMarkPaid(t *testing.T) {
	store := memory.New()
	svc := NewBillService(store)
	ctx := context.Background()

	b, err := store.InsertBill(ctx, core.Bill{Name: "Internet", Amount: core.Money{Cents: 7999}, DueDay: 12})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := svc.MarkPaid(ctx, b.ID, true); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	list, err := svc.ListWithStatus(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].Status != BillPaid {
		t.Fatalf("unexpected list: %+v", list)
	}

	if err := svc.MarkPaid(ctx, 99, true); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
