package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"finflow/internal/bank"
	"finflow/internal/core"
	applog "finflow/internal/log"
	"finflow/internal/records"
)

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed encoding response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// writeStoreError maps domain and store errors onto HTTP statuses.
// Anything unrecognized is treated as an internal failure.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, records.ErrNotFound),
		errors.Is(err, core.ErrAccountNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bank.ErrUnknownInstitution):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrInvalidLinkData):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case records.IsValidation(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		fields := applog.NewFields().
			WithError(err).
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent(), r.Referer())
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", fields.ToSlice()...)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// readJSON decodes the request body into v, rejecting unknown fields.
func readJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return nil
}
