package http

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// syncTimeout bounds a full sync pass: fetch, categorize, persist.
const syncTimeout = 30 * time.Second

func (s *Server) handleListInstitutions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	items, err := s.institutions.ListInstitutions(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]institutionJSON, 0, len(items))
	for _, inst := range items {
		out = append(out, institutionJSON{
			ID:          inst.InstitutionID,
			Name:        inst.InstitutionName,
			AccountName: inst.AccountName,
			AccountType: inst.AccountType,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	items, err := s.store.ListAccounts(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]accountJSON, 0, len(items))
	for _, a := range items {
		out = append(out, toAccountJSON(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLinkAccount(w http.ResponseWriter, r *http.Request) {
	var req linkRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	institutionID := strings.TrimSpace(req.InstitutionID)
	if institutionID == "" {
		writeError(w, http.StatusUnprocessableEntity, "institutionId is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	session, err := s.importer.BeginLink(ctx, institutionID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	account, err := s.importer.Link(ctx, session.PublicToken, session.Metadata)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountJSON(account))
}

func (s *Server) handleSyncAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), syncTimeout)
	defer cancel()

	result, err := s.importer.Sync(ctx, id)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	if result.Imported > 0 {
		s.invalidateAllOverviews()
	}
	writeJSON(w, http.StatusOK, toSyncResultJSON(result))
}

func (s *Server) handleSyncAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), syncTimeout)
	defer cancel()

	results, err := s.importer.SyncAll(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	out := make([]syncResultJSON, 0, len(results))
	imported := 0
	for _, res := range results {
		imported += res.Imported
		out = append(out, toSyncResultJSON(res))
	}
	if imported > 0 {
		s.invalidateAllOverviews()
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDisconnectAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid account id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), storeTimeout)
	defer cancel()

	if err := s.importer.Disconnect(ctx, id); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
