package http

import (
	"fmt"
	"net/http"
	"testing"
)

func TestBudgetLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/budgets", map[string]any{
		"category": "Food & Dining",
		"limit":    "300.00",
		"year":     2025,
		"month":    6,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[budgetJSON](t, rec)
	if created.Limit != "300.00" {
		t.Errorf("limit = %q, want 300.00", created.Limit)
	}

	rec = doJSON(t, srv, http.MethodGet, "/budgets?year=2025&month=6", nil)
	listed := decodeBody[[]budgetJSON](t, rec)
	if len(listed) != 1 {
		t.Fatalf("expected 1 budget, got %d", len(listed))
	}

	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/budgets/%d", created.ID), map[string]any{
		"category": "Food & Dining",
		"limit":    "350.00",
		"year":     2025,
		"month":    6,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/budgets/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/budgets?year=2025&month=6", nil)
	listed = decodeBody[[]budgetJSON](t, rec)
	if len(listed) != 0 {
		t.Errorf("expected no budgets after delete, got %d", len(listed))
	}
}

func TestBudgetValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/budgets", map[string]any{
		"category": "Food & Dining",
		"limit":    "300.00",
		"year":     2025,
		"month":    13,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestBillLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/bills", map[string]any{
		"name":      "Rent",
		"amount":    "1200.00",
		"dueDay":    1,
		"recurring": true,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[billJSON](t, rec)
	if created.Status == "" {
		t.Error("expected a bill status on create")
	}

	rec = doJSON(t, srv, http.MethodPost, fmt.Sprintf("/bills/%d/paid", created.ID), map[string]any{
		"paid": true,
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("mark paid status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/bills", nil)
	bills := decodeBody[[]billJSON](t, rec)
	if len(bills) != 1 {
		t.Fatalf("expected 1 bill, got %d", len(bills))
	}
	if !bills[0].Paid || bills[0].Status != "paid" {
		t.Errorf("bill = %+v, want paid with status paid", bills[0])
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/bills/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestMarkPaidUnknownBill(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/bills/77/paid", map[string]any{"paid": true})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/goals", map[string]any{
		"name":     "Emergency fund",
		"target":   "5000.00",
		"saved":    "1250.00",
		"deadline": "2026-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[goalJSON](t, rec)
	if created.Saved != "1250.00" {
		t.Errorf("saved = %q, want 1250.00", created.Saved)
	}
	if created.Deadline != "2026-01-01" {
		t.Errorf("deadline = %q, want 2026-01-01", created.Deadline)
	}

	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/goals/%d", created.ID), map[string]any{
		"name":   "Emergency fund",
		"target": "5000.00",
		"saved":  "2000.00",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[goalJSON](t, rec)
	if updated.Saved != "2000.00" {
		t.Errorf("saved = %q, want 2000.00", updated.Saved)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/goals/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}
