package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"
)

func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	query := r.URL.Query()
	yearStr := strings.TrimSpace(query.Get("year"))
	monthStr := strings.TrimSpace(query.Get("month"))

	if yearStr == "" && monthStr == "" {
		items, err := s.store.ListTransactions(ctx)
		if err != nil {
			writeStoreError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toTransactionListJSON(items))
		return
	}

	now := time.Now()
	year, month := now.Year(), int(now.Month())
	if v, err := strconv.Atoi(yearStr); err == nil {
		year = v
	}
	if v, err := strconv.Atoi(monthStr); err == nil {
		month = v
	}
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}

	items, err := s.store.ListTransactionsByMonth(ctx, year, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionListJSON(items))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	tx, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tx, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	created, err := s.store.InsertTransaction(ctx, tx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateOverview(created.Date.Year(), created.Date.Month())
	writeJSON(w, http.StatusCreated, toTransactionJSON(created))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	var req transactionRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	tx, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	// Preserve the feed identifier so an edited import still
	// deduplicates on the next sync.
	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	tx.ID = id
	tx.ExternalID = existing.ExternalID
	if tx.AccountID == "" {
		tx.AccountID = existing.AccountID
	}

	if err := tx.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := s.store.UpdateTransaction(ctx, tx); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateOverview(existing.Date.Year(), existing.Date.Month())
	s.invalidateOverview(tx.Date.Year(), tx.Date.Month())
	writeJSON(w, http.StatusOK, toTransactionJSON(tx))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid transaction id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	existing, err := s.store.GetTransaction(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.invalidateOverview(existing.Date.Year(), existing.Date.Month())
	w.WriteHeader(http.StatusNoContent)
}
