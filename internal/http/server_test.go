package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"finflow/internal/bank/simulator"
	"finflow/internal/records/memory"
	"finflow/internal/services"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	sim := simulator.New()
	importer := services.NewImportService(store, store, sim, nil)
	reports := services.NewReportService(store, store, store)
	bills := services.NewBillService(store)

	srv := NewServer("127.0.0.1:0", store, importer, reports, bills, sim)
	t.Cleanup(func() {
		srv.cacheManager.Stop()
		srv.limiter.Stop()
	})
	return srv, store
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/transactions", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv, _ := newTestServer(t)

	create := map[string]any{
		"amount":      "42.50",
		"type":        "expense",
		"category":    "Food & Dining",
		"description": "Lunch",
		"date":        "2025-03-10",
	}
	rec := doJSON(t, srv, http.MethodPost, "/transactions", create)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rec.Code, rec.Body.String())
	}
	created := decodeBody[transactionJSON](t, rec)
	if created.ID == 0 {
		t.Error("expected assigned transaction ID")
	}
	if created.Amount != "42.50" {
		t.Errorf("amount = %q, want 42.50", created.Amount)
	}

	rec = doJSON(t, srv, http.MethodGet, "/transactions?year=2025&month=3", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	listed := decodeBody[[]transactionJSON](t, rec)
	if len(listed) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(listed))
	}

	update := map[string]any{
		"amount":      "45.00",
		"type":        "expense",
		"category":    "Food & Dining",
		"description": "Team lunch",
		"date":        "2025-03-10",
	}
	rec = doJSON(t, srv, http.MethodPut, fmt.Sprintf("/transactions/%d", created.ID), update)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[transactionJSON](t, rec)
	if updated.Description != "Team lunch" {
		t.Errorf("description = %q, want Team lunch", updated.Description)
	}

	rec = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/transactions/%d", created.ID), nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/transactions", nil)
	remaining := decodeBody[[]transactionJSON](t, rec)
	if len(remaining) != 0 {
		t.Errorf("expected no transactions after delete, got %d", len(remaining))
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{
			name: "missing description",
			body: map[string]any{
				"amount": "10.00", "type": "expense",
				"category": "Food & Dining", "date": "2025-03-10",
			},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad type",
			body: map[string]any{
				"amount": "10.00", "type": "transfer", "description": "x",
				"category": "Food & Dining", "date": "2025-03-10",
			},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad date",
			body: map[string]any{
				"amount": "10.00", "type": "expense", "description": "x",
				"category": "Food & Dining", "date": "03/10/2025",
			},
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "bad amount",
			body: map[string]any{
				"amount": "ten", "type": "expense", "description": "x",
				"category": "Food & Dining", "date": "2025-03-10",
			},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, srv, http.MethodPost, "/transactions", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

func TestTransactionNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doJSON(t, srv, http.MethodDelete, "/transactions/9999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMutationRateLimit(t *testing.T) {
	srv, _ := newTestServer(t)

	body := map[string]any{
		"amount": "1.00", "type": "expense", "description": "x",
		"category": "Other", "date": "2025-03-10",
	}

	limited := false
	for i := 0; i < 70; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/transactions", body)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			if got := rec.Header().Get("Retry-After"); got != "60" {
				t.Errorf("Retry-After = %q, want 60", got)
			}
			break
		}
	}
	if !limited {
		t.Error("expected rate limit to trigger within 70 mutations")
	}

	// Reads stay unthrottled.
	rec := doJSON(t, srv, http.MethodGet, "/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("read status = %d, want 200", rec.Code)
	}
}
