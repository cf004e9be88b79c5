// This file implements the Strategy Pattern for bill due-status
// classification. Each status has its own checker that encapsulates the
// logic for deciding whether a bill currently falls into that bucket.

package services

import (
	"context"
	"fmt"
	"time"

	"finflow/internal/core"
	"finflow/internal/records"
)

// BillStatus is the display bucket a bill falls into for the current
// month.
type BillStatus string

const (
	BillPaid     BillStatus = "paid"
	BillOverdue  BillStatus = "overdue"
	BillDueSoon  BillStatus = "due-soon"
	BillUpcoming BillStatus = "upcoming"
)

// StatusChecker decides whether a bill belongs to a status bucket at
// the given time.
type StatusChecker interface {
	Matches(bill core.Bill, now time.Time) bool
}

type paidChecker struct{}

func (paidChecker) Matches(b core.Bill, _ time.Time) bool { return b.Paid }

type overdueChecker struct{}

func (overdueChecker) Matches(b core.Bill, now time.Time) bool {
	return !b.Paid && now.Day() > dueDayThisMonth(b.DueDay, now)
}

type dueSoonChecker struct{}

// Matches reports bills due within the next 7 days.
func (dueSoonChecker) Matches(b core.Bill, now time.Time) bool {
	if b.Paid {
		return false
	}
	due := dueDayThisMonth(b.DueDay, now)
	return now.Day() <= due && due-now.Day() <= 7
}

// statusCheckers is evaluated in order; the first match wins.
var statusCheckers = []struct {
	status  BillStatus
	checker StatusChecker
}{
	{BillPaid, paidChecker{}},
	{BillOverdue, overdueChecker{}},
	{BillDueSoon, dueSoonChecker{}},
}

// ClassifyBill returns the due-status bucket for a bill at the given
// time. Bills matching no checker are upcoming.
func ClassifyBill(b core.Bill, now time.Time) BillStatus {
	for _, sc := range statusCheckers {
		if sc.checker.Matches(b, now) {
			return sc.status
		}
	}
	return BillUpcoming
}

// dueDayThisMonth clamps a nominal due day to the length of the
// current month (a bill due on the 31st is due on Feb 28).
func dueDayThisMonth(dueDay int, now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if dueDay > lastDay {
		return lastDay
	}
	return dueDay
}

// BillWithStatus pairs a bill with its computed status bucket.
type BillWithStatus struct {
	core.Bill
	Status BillStatus
}

// BillService wraps the bill store with status classification and the
// mark-paid flow.
type BillService struct {
	bills records.BillStore
	now   func() time.Time
}

func NewBillService(bills records.BillStore) *BillService {
	return &BillService{bills: bills, now: time.Now}
}

func (s *BillService) ListWithStatus(ctx context.Context) ([]BillWithStatus, error) {
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	now := s.now().UTC()
	out := make([]BillWithStatus, 0, len(bills))
	for _, b := range bills {
		out = append(out, BillWithStatus{Bill: b, Status: ClassifyBill(b, now)})
	}
	return out, nil
}

func (s *BillService) MarkPaid(ctx context.Context, id int64, paid bool) error {
	bills, err := s.bills.ListBills(ctx)
	if err != nil {
		return fmt.Errorf("list bills: %w", err)
	}
	for _, b := range bills {
		if b.ID == id {
			b.Paid = paid
			if err := s.bills.UpdateBill(ctx, b); err != nil {
				return fmt.Errorf("update bill %d: %w", id, err)
			}
			return nil
		}
	}
	return records.ErrNotFound
}
