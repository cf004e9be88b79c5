package http

import (
	"context"
	"net/http"
	"time"

	"finflow/internal/core"
	"finflow/internal/services"
)

func billWithStatus(b core.Bill, now time.Time) services.BillWithStatus {
	return services.BillWithStatus{Bill: b, Status: services.ClassifyBill(b, now)}
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	items, err := s.bills.ListWithStatus(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]billJSON, 0, len(items))
	for _, b := range items {
		out = append(out, toBillJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	bill, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := bill.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	created, err := s.store.InsertBill(ctx, bill)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	status := billWithStatus(created, time.Now())
	writeJSON(w, http.StatusCreated, toBillJSON(status))
}

func (s *Server) handleUpdateBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	var req billRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	bill, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	bill.ID = id
	if err := bill.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.UpdateBill(ctx, bill); err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toBillJSON(billWithStatus(bill, time.Now())))
}

func (s *Server) handleMarkBillPaid(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	var req struct {
		Paid bool `json:"paid"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.bills.MarkPaid(ctx, id, req.Paid); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid bill id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.DeleteBill(ctx, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
