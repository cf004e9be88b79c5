package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	applog "finflow/internal/log"
)

// runTimeout bounds a saved-report run, which aggregates one month at
// a time across the report's whole date range.
const runTimeout = 30 * time.Second

// handleMonthOverview serves the cached month summary: income, expenses,
// per-category totals and budget consumption.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
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

	key := s.overviewCacheKey(year, month)
	if ov, found := s.overviewCache.Get(key); found {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Overview cache hit",
			applog.FieldYear, year, applog.FieldMonth, month)
		writeJSON(w, http.StatusOK, toOverviewJSON(ov))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	ov, err := s.reports.MonthOverview(ctx, year, month)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	s.overviewCache.Set(key, ov)
	writeJSON(w, http.StatusOK, toOverviewJSON(ov))
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	items, err := s.store.ListReports(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]reportJSON, 0, len(items))
	for _, rep := range items {
		out = append(out, toReportJSON(rep))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if err := report.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	created, err := s.store.InsertReport(ctx, report)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toReportJSON(created))
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	rep, err := s.store.GetReport(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportJSON(rep))
}

func (s *Server) handleUpdateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	var req reportRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	report.ID = id
	if err := report.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.UpdateReport(ctx, report); err != nil {
		writeStoreError(w, r, err)
		return
	}

	// Re-read so the response carries the preserved run stamp.
	stored, err := s.store.GetReport(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportJSON(stored))
}

func (s *Server) handleDeleteReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.store.DeleteReport(ctx, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRunReport executes a saved report over its full date range.
// Runs can span many months, so they get a longer deadline than plain
// store calls.
func (s *Server) handleRunReport(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid report id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
	defer cancel()

	run, err := s.reports.RunReport(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toReportRunJSON(run))
}
