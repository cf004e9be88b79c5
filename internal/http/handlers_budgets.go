package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	query := r.URL.Query()
	if v, err := strconv.Atoi(strings.TrimSpace(query.Get("year"))); err == nil {
		year = v
	}
	if v, err := strconv.Atoi(strings.TrimSpace(query.Get("month"))); err == nil {
		month = v
	}
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	items, err := s.store.ListBudgets(ctx, year, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]budgetJSON, 0, len(items))
	for _, b := range items {
		out = append(out, toBudgetJSON(b))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	budget, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	created, err := s.store.InsertBudget(ctx, budget)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateOverview(created.Year, created.Month)
	writeJSON(w, http.StatusCreated, toBudgetJSON(created))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	var req budgetRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	budget, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	budget.ID = id
	if err := budget.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.UpdateBudget(ctx, budget); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateOverview(budget.Year, budget.Month)
	writeJSON(w, http.StatusOK, toBudgetJSON(budget))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid budget id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.DeleteBudget(ctx, id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateAllOverviews()
	w.WriteHeader(http.StatusNoContent)
}
